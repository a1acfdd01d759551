package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmont/crate/internal/lookup"
	"github.com/chmont/crate/internal/scanner"
)

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

func waitForProgress(ch <-chan scanner.Progress) tea.Cmd {
	return waitForChannel(ch, func(p scanner.Progress, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return scanProgressMsg(p)
	})
}

func waitForEvent(ch <-chan lookup.Event) tea.Cmd {
	return waitForChannel(ch, func(e lookup.Event, ok bool) tea.Msg {
		if !ok {
			return lookupEventMsg{FromPipeline: true, Closed: true}
		}
		return lookupEventMsg{Event: e, FromPipeline: true}
	})
}

func waitForScanDone(ch <-chan scanResult) tea.Cmd {
	return waitForChannel(ch, func(r scanResult, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return scanDoneMsg(r)
	})
}

// searchClusterCmd issues an on-demand lookup for a single cluster,
// feeding its outcome back through the same event path the background
// stage uses. The client's throttle keeps it serialized with the
// pipeline's own requests, and the pipeline context cancels it on quit.
func searchClusterCmd(ctx context.Context, client lookup.Searcher, cluster scanner.Cluster) tea.Cmd {
	return func() tea.Msg {
		releases, err := client.SearchReleases(ctx, cluster.AlbumArtist, cluster.Album)
		switch {
		case err != nil:
			return lookupEventMsg{Event: lookup.Event{Kind: lookup.EventError, Cluster: cluster, Err: err}}
		case len(releases) == 0:
			return lookupEventMsg{Event: lookup.Event{Kind: lookup.EventNoResults, Cluster: cluster}}
		default:
			return lookupEventMsg{Event: lookup.Event{Kind: lookup.EventResults, Cluster: cluster, Releases: releases}}
		}
	}
}
