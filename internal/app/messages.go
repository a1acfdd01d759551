package app

import (
	"github.com/chmont/crate/internal/lookup"
	"github.com/chmont/crate/internal/scanner"
)

// scanProgressMsg carries one walker progress update.
type scanProgressMsg scanner.Progress

// scanDoneMsg signals that the walk finished, successfully or not.
type scanDoneMsg scanResult

// lookupEventMsg carries one lookup event, either from the background
// stage or from an on-demand search. FromPipeline marks events received
// off the stage's channel, whose wait must be re-armed afterwards.
// Closed is true when that channel has closed (the pipeline drained).
type lookupEventMsg struct {
	Event        lookup.Event
	FromPipeline bool
	Closed       bool
}
