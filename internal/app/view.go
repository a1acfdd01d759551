package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/chmont/crate/internal/musicbrainz"
	"github.com/chmont/crate/internal/scanner"
	"github.com/chmont/crate/internal/tags"
	"github.com/chmont/crate/internal/ui/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// View implements tea.Model.
func (m Model) View() string {
	switch m.state {
	case StateScanning:
		return m.renderScanning()
	case StateAutoTagging:
		return m.renderAutoTagging()
	case StateClusterList:
		return m.renderClusterList()
	case StateError:
		return m.renderError()
	}
	return ""
}

// innerWidth returns the usable content width. Defaults before the first
// window size message arrives.
func (m Model) innerWidth() int {
	if m.width == 0 {
		return 78
	}
	return max(m.width-2, 40)
}

// maxVisible returns how many list rows fit on screen.
func (m Model) maxVisible() int {
	if m.height == 0 {
		return 15
	}
	return max(m.height-10, 5)
}

func (m Model) renderScanning() string {
	innerWidth := m.innerWidth()

	lines := []string{
		titleStyle.Render("crate"),
		"",
		render.Separator(innerWidth),
		"",
	}

	if m.scanDone {
		lines = append(lines,
			successStyle.Render(fmt.Sprintf("Scan complete: %s files found", humanize.Comma(int64(len(m.files))))),
		)
	} else {
		lines = append(lines, m.spinner.View()+headerStyle.Render("Scanning "+m.root))
	}

	if m.statusMsg != "" {
		lines = append(lines, "", dimStyle.Render(render.Truncate(m.statusMsg, innerWidth)))
	}

	lines = append(lines, "")
	if m.scanDone {
		lines = append(lines, dimStyle.Render("[Enter] View clusters   [q] Quit"))
	} else {
		lines = append(lines, dimStyle.Render("[q] Quit"))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderAutoTagging() string {
	innerWidth := m.innerWidth()
	cluster := m.current.Cluster

	title := fmt.Sprintf("Tagging: %s - %s", cluster.AlbumArtist, cluster.Album)
	lines := []string{
		titleStyle.Render(render.Truncate(title, innerWidth)),
		dimStyle.Render(render.Truncate(cluster.BasePath, innerWidth)),
		"",
		render.Separator(innerWidth),
		"",
		headerStyle.Render(fmt.Sprintf("Select a match (%d candidates):", len(m.current.Releases))),
		"",
	}

	start, end := visibleRange(m.candidateIdx, len(m.current.Releases), m.maxVisible())
	for i := start; i < end; i++ {
		line := m.formatCandidate(&m.current.Releases[i])
		if i == m.candidateIdx {
			lines = append(lines, cursorStyle.Render("> ")+selectedStyle.Render(line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if len(m.current.Releases) > end-start {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", start+1, end, len(m.current.Releases))
		lines = append(lines, "", dimStyle.Render(scrollInfo))
	}

	if len(m.pending) > 0 {
		lines = append(lines, "", dimStyle.Render(fmt.Sprintf("%d more awaiting review", len(m.pending))))
	}

	lines = append(lines,
		"",
		dimStyle.Render("[A] Apply   [s] Skip   [M] Manual search   [j/k] Navigate   [q] Quit"),
	)

	return strings.Join(lines, "\n")
}

// formatCandidate formats one catalog match for the selection list.
func (m Model) formatCandidate(r *musicbrainz.Release) string {
	parts := []string{render.Truncate(r.Artist+" - "+r.Title, m.innerWidth()/2)}

	if r.Date != "" {
		year := r.Date
		if len(year) > 4 {
			year = year[:4]
		}
		parts = append(parts, fmt.Sprintf("(%s)", year))
	}

	if r.TrackCount > 0 {
		if r.TrackCount == m.current.Cluster.TrackCount() {
			parts = append(parts, successStyle.Render(fmt.Sprintf("[%d tracks]", r.TrackCount)))
		} else {
			parts = append(parts, typeStyle.Render(fmt.Sprintf("[%d tracks]", r.TrackCount)))
		}
	}

	if r.Country != "" {
		parts = append(parts, dimStyle.Render("["+r.Country+"]"))
	}

	if r.Formats != "" {
		parts = append(parts, dimStyle.Render(r.Formats))
	}

	if r.Score > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%d%%", r.Score)))
	}

	return strings.Join(parts, " ")
}

func (m Model) renderClusterList() string {
	innerWidth := m.innerWidth()

	lines := []string{
		titleStyle.Render(fmt.Sprintf("Clusters (%d)", len(m.clusters))),
		"",
		render.Separator(innerWidth),
		"",
	}

	if len(m.clusters) == 0 {
		lines = append(lines,
			dimStyle.Render("No audio files found"),
			"",
			dimStyle.Render("[q] Quit"),
		)
		return strings.Join(lines, "\n")
	}

	listVisible := max(m.maxVisible()/2, 3)
	start, end := visibleRange(m.clusterIdx, len(m.clusters), listVisible)
	for i := start; i < end; i++ {
		line := formatCluster(&m.clusters[i], innerWidth)
		if i == m.clusterIdx {
			lines = append(lines, cursorStyle.Render("> ")+selectedStyle.Render(line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if len(m.clusters) > listVisible {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", start+1, end, len(m.clusters))
		lines = append(lines, dimStyle.Render(scrollInfo))
	}

	// Track list of the selected cluster.
	selected := &m.clusters[m.clusterIdx]
	lines = append(lines, "", render.Separator(innerWidth), "")
	multiDisc := selected.TotalDiscs > 1
	trackVisible := max(m.maxVisible()-(end-start), 3)
	for i, t := range selected.Tracks {
		if i >= trackVisible {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("... and %d more", len(selected.Tracks)-trackVisible)))
			break
		}
		lines = append(lines, formatTrack(&t, multiDisc, innerWidth))
	}

	if m.statusMsg != "" {
		lines = append(lines, "", dimStyle.Render(render.Truncate(m.statusMsg, innerWidth)))
	}

	lines = append(lines,
		"",
		dimStyle.Render("[Enter] Search   [j/k] Navigate   [q] Quit"),
	)

	return strings.Join(lines, "\n")
}

// formatCluster formats one cluster row for the list.
func formatCluster(c *scanner.Cluster, width int) string {
	line := render.Truncate(c.AlbumArtist+" - "+c.Album, width/2)
	parts := []string{line, typeStyle.Render(fmt.Sprintf("[%d tracks]", c.TrackCount()))}
	if codec, ok := c.Codec(); ok {
		parts = append(parts, dimStyle.Render("["+codec.String()+"]"))
	}
	return strings.Join(parts, " ")
}

// formatTrack formats one track row, with a disc prefix on multi-disc
// clusters.
func formatTrack(t *tags.Tag, multiDisc bool, width int) string {
	disc := t.DiscNumber
	if disc == 0 {
		disc = 1
	}
	var num string
	if multiDisc {
		num = fmt.Sprintf("%d-%02d", disc, t.TrackNumber)
	} else {
		num = fmt.Sprintf("%4d", t.TrackNumber)
	}

	title := t.Title
	if title == "" {
		title = t.Path
	}
	line := dimStyle.Render(num) + "  " + valueStyle.Render(render.Truncate(title, width-16))
	if t.Duration > 0 {
		line += "  " + dimStyle.Render(formatDuration(t.Duration))
	}
	return line
}

func (m Model) renderError() string {
	innerWidth := m.innerWidth()

	lines := []string{
		titleStyle.Render("crate"),
		"",
		render.Separator(innerWidth),
		"",
		errorStyle.Render(render.Truncate(m.errorMsg, innerWidth)),
		"",
		dimStyle.Render("[q] Quit"),
	}

	return strings.Join(lines, "\n")
}

// visibleRange returns the [start, end) window of a list that keeps pos
// in view.
func visibleRange(pos, total, maxVisible int) (int, int) {
	if total <= maxVisible {
		return 0, total
	}
	start := clamp(pos-maxVisible/2, 0, total-maxVisible)
	return start, start + maxVisible
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
