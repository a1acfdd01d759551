// Package lookup drains album clusters from the scanner and resolves each
// one against the remote catalog, one lookup at a time.
package lookup

import (
	"context"

	"github.com/chmont/crate/internal/musicbrainz"
	"github.com/chmont/crate/internal/scanner"
)

// EventQueueSize buffers lookup events so the worker rarely waits on the
// UI loop. Sends still block when the buffer fills; results are never
// dropped.
const EventQueueSize = 64

// Searcher is the remote catalog contract the stage depends on.
// *musicbrainz.Client satisfies it; tests substitute fakes.
type Searcher interface {
	SearchReleases(ctx context.Context, artist, album string) ([]musicbrainz.Release, error)
}

// EventKind discriminates lookup events.
type EventKind int

const (
	// EventSearching is emitted immediately before the outbound lookup.
	EventSearching EventKind = iota
	// EventResults carries one or more candidates, in catalog order.
	EventResults
	// EventNoResults marks a lookup that completed with zero candidates.
	EventNoResults
	// EventError marks a failed lookup. The cluster is not retried.
	EventError
)

// Event is one status update from the lookup stage.
type Event struct {
	Kind     EventKind
	Cluster  scanner.Cluster
	Releases []musicbrainz.Release
	Err      error
}

// Run consumes clusters until the channel is closed and drained or ctx is
// canceled. Lookups are serialized: a single worker issues them one at a
// time, and the client's shared throttle keeps consecutive requests at
// least one rate interval apart. Exactly one terminal event (results, no
// results, or error) follows each searching event. Run closes events
// before returning.
func Run(ctx context.Context, client Searcher, clusters <-chan scanner.Cluster, events chan<- Event) {
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			return
		case cluster, ok := <-clusters:
			if !ok {
				return
			}
			lookupCluster(ctx, client, cluster, events)
		}
	}
}

func lookupCluster(ctx context.Context, client Searcher, cluster scanner.Cluster, events chan<- Event) {
	send := func(e Event) bool {
		select {
		case events <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send(Event{Kind: EventSearching, Cluster: cluster}) {
		return
	}

	releases, err := client.SearchReleases(ctx, cluster.AlbumArtist, cluster.Album)
	switch {
	case err != nil:
		send(Event{Kind: EventError, Cluster: cluster, Err: err})
	case len(releases) == 0:
		send(Event{Kind: EventNoResults, Cluster: cluster})
	default:
		send(Event{Kind: EventResults, Cluster: cluster, Releases: releases})
	}
}
