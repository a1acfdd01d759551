// Package app owns the interactive state machine: it merges walker
// progress, lookup events and keyboard input into a single Bubble Tea
// model. All UI-visible state lives here and is mutated only by the
// event loop; the walker and lookup stage communicate through channels.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmont/crate/internal/config"
	"github.com/chmont/crate/internal/lookup"
	"github.com/chmont/crate/internal/musicbrainz"
	"github.com/chmont/crate/internal/scanner"
	"github.com/chmont/crate/internal/tags"
)

// State identifies which screen the application is showing.
type State int

const (
	// StateScanning shows scan progress while the pipeline runs.
	StateScanning State = iota
	// StateAutoTagging presents one cluster's candidate matches for review.
	StateAutoTagging
	// StateClusterList shows every cluster found once the scan is complete.
	StateClusterList
	// StateError is terminal; only quit is accepted.
	StateError
)

// PendingResult pairs a cluster with its candidate matches, queued until
// the user is free to review it.
type PendingResult struct {
	Cluster  scanner.Cluster
	Releases []musicbrainz.Release
}

// Model is the root application model.
type Model struct {
	state State

	// Scanning
	root      string
	files     []tags.Tag
	statusMsg string
	scanDone  bool
	spinner   spinner.Model

	// AutoTagging: the cluster under review plus the queue behind it.
	current      *PendingResult
	candidateIdx int
	pending      []PendingResult

	// ClusterList
	clusters   []scanner.Cluster
	clusterIdx int

	// Pipeline plumbing. The model re-arms a wait command after each
	// receive; nil channels are never waited on again.
	client     *musicbrainz.Client
	ctx        context.Context
	cancel     context.CancelFunc
	progressCh chan scanner.Progress
	eventCh    chan lookup.Event
	doneCh     chan scanResult

	errorMsg      string
	width, height int
}

type scanResult struct {
	files []tags.Tag
	err   error
}

// New builds the model and starts the walker and lookup goroutines.
// The returned model owns the pipeline's cancellation.
func New(cfg *config.Config, root string) Model {
	ctx, cancel := context.WithCancel(context.Background())

	var opts []musicbrainz.Option
	if cfg.MusicBrainz.SearchLimit > 0 {
		opts = append(opts, musicbrainz.WithSearchLimit(cfg.MusicBrainz.SearchLimit))
	}
	if cfg.AlbumsOnly() {
		opts = append(opts, musicbrainz.WithAlbumsOnly(true))
	}
	client := musicbrainz.NewClient(opts...)

	clusterCh := make(chan scanner.Cluster, scanner.ClusterQueueSize)
	progressCh := make(chan scanner.Progress, 16)
	eventCh := make(chan lookup.Event, lookup.EventQueueSize)
	doneCh := make(chan scanResult, 1)

	go func() {
		files, err := scanner.New().Scan(ctx, root, clusterCh, progressCh)
		close(progressCh)
		doneCh <- scanResult{files: files, err: err}
	}()
	go lookup.Run(ctx, client, clusterCh, eventCh)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return Model{
		state:      StateScanning,
		root:       root,
		spinner:    sp,
		client:     client,
		ctx:        ctx,
		cancel:     cancel,
		progressCh: progressCh,
		eventCh:    eventCh,
		doneCh:     doneCh,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForProgress(m.progressCh),
		waitForEvent(m.eventCh),
		waitForScanDone(m.doneCh),
	)
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// PendingCount returns the number of results queued behind the current
// review.
func (m Model) PendingCount() int {
	return len(m.pending)
}
