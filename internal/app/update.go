package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmont/crate/internal/errmsg"
	"github.com/chmont/crate/internal/lookup"
	"github.com/chmont/crate/internal/scanner"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case scanProgressMsg:
		return m.handleScanProgress(msg)
	case scanDoneMsg:
		return m.handleScanDone(msg)
	case lookupEventMsg:
		return m.handleLookupEvent(msg)
	}
	return m, nil
}

// handleKey dispatches key presses based on the current state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Quit works everywhere, including the error screen.
	if key == "q" || key == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}
	if m.state == StateError {
		return m, nil
	}

	switch key {
	case "enter":
		return m.handleConfirm()
	case "j", "down":
		return m.moveSelection(1), nil
	case "k", "up":
		return m.moveSelection(-1), nil
	case "A":
		return m.handleApply()
	case "s":
		return m.handleSkip()
	case "M":
		return m.handleManualSearch()
	}
	return m, nil
}

// handleConfirm handles the enter key.
func (m Model) handleConfirm() (tea.Model, tea.Cmd) {
	switch m.state { //nolint:exhaustive // confirm only acts in two states
	case StateScanning:
		if !m.scanDone {
			return m, nil
		}
		m.clusters = scanner.ClusterFiles(m.files)
		m.clusterIdx = 0
		m.statusMsg = ""
		m.state = StateClusterList
		return m, nil

	case StateClusterList:
		if len(m.clusters) == 0 {
			return m, nil
		}
		cluster := m.clusters[m.clusterIdx]
		m.statusMsg = fmt.Sprintf("Searching: %s - %s", cluster.AlbumArtist, cluster.Album)
		return m, searchClusterCmd(m.ctx, m.client, cluster)
	}
	return m, nil
}

// moveSelection moves the active list cursor by delta, clamped to bounds.
func (m Model) moveSelection(delta int) Model {
	switch m.state { //nolint:exhaustive // only list states navigate
	case StateAutoTagging:
		if m.current == nil || len(m.current.Releases) == 0 {
			return m
		}
		m.candidateIdx = clamp(m.candidateIdx+delta, 0, len(m.current.Releases)-1)
	case StateClusterList:
		if len(m.clusters) == 0 {
			return m
		}
		m.clusterIdx = clamp(m.clusterIdx+delta, 0, len(m.clusters)-1)
	}
	return m
}

// handleApply dismisses the review. Writing tags back to files is not
// implemented; the command exists so the review flow is complete.
func (m Model) handleApply() (tea.Model, tea.Cmd) {
	if m.state != StateAutoTagging {
		return m, nil
	}
	m.statusMsg = "Applying tags is not implemented yet"
	return m.dismissCurrent(), nil
}

// handleSkip discards the current review.
func (m Model) handleSkip() (tea.Model, tea.Cmd) {
	if m.state != StateAutoTagging {
		return m, nil
	}
	m.statusMsg = ""
	return m.dismissCurrent(), nil
}

// handleManualSearch dismisses the review. Manual search entry is not
// implemented yet.
func (m Model) handleManualSearch() (tea.Model, tea.Cmd) {
	if m.state != StateAutoTagging {
		return m, nil
	}
	m.statusMsg = "Manual search is not implemented yet"
	return m.dismissCurrent(), nil
}

// dismissCurrent drops the cluster under review, then presents the next
// queued result or falls back to the scanning screen.
func (m Model) dismissCurrent() Model {
	m.current = nil
	m.candidateIdx = 0
	if len(m.pending) > 0 {
		return m.presentNext()
	}
	m.state = StateScanning
	return m
}

// presentNext dequeues the front pending result if nothing is under
// review and switches to the tagging screen.
func (m Model) presentNext() Model {
	if m.current != nil || len(m.pending) == 0 {
		return m
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	m.current = &next
	m.candidateIdx = 0
	m.state = StateAutoTagging
	return m
}

func (m Model) handleScanProgress(msg scanProgressMsg) (tea.Model, tea.Cmd) {
	if !m.scanDone && m.state != StateError {
		m.statusMsg = fmt.Sprintf("Scanning %s (%d clusters found)", msg.Dir, msg.ClustersFound)
	}
	return m, waitForProgress(m.progressCh)
}

func (m Model) handleScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	m.doneCh = nil
	if msg.err != nil {
		m.cancel()
		m.state = StateError
		m.errorMsg = errmsg.Format(errmsg.OpScanDirectory, msg.err)
		return m, nil
	}
	m.files = msg.files
	m.scanDone = true
	m.statusMsg = ""
	return m, nil
}

func (m Model) handleLookupEvent(msg lookupEventMsg) (tea.Model, tea.Cmd) {
	if msg.Closed {
		m.eventCh = nil
		return m, nil
	}
	var cmd tea.Cmd
	if msg.FromPipeline {
		cmd = waitForEvent(m.eventCh)
	}
	if m.state == StateError {
		return m, cmd
	}

	e := msg.Event
	switch e.Kind {
	case lookup.EventSearching:
		m.statusMsg = fmt.Sprintf("Searching: %s - %s", e.Cluster.AlbumArtist, e.Cluster.Album)
	case lookup.EventNoResults:
		m.statusMsg = fmt.Sprintf("No results for %s - %s", e.Cluster.AlbumArtist, e.Cluster.Album)
	case lookup.EventError:
		m.statusMsg = errmsg.FormatWith(errmsg.OpSearchReleases, e.Cluster.AlbumArtist+" - "+e.Cluster.Album, e.Err)
	case lookup.EventResults:
		m.pending = append(m.pending, PendingResult{Cluster: e.Cluster, Releases: e.Releases})
		m = m.presentNext()
	}
	return m, cmd
}

func clamp(v, low, high int) int {
	return min(max(v, low), high)
}
