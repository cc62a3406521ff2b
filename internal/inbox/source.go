// Package inbox turns pending captures into classified vault notes. It wires
// the scanner, classifier, note writer, and state store into one idempotent
// processing cycle.
package inbox

import (
	"context"
	"time"
)

// Message is a single pending capture.
type Message struct {
	ID        string
	Text      string
	Timestamp time.Time
}

// Source supplies pending captures and acknowledges the ones that reached a
// terminal outcome. A capture that is never acknowledged is offered again on
// the next fetch.
type Source interface {
	// Fetch returns pending captures, oldest first.
	Fetch(ctx context.Context) ([]Message, error)
	// Ack marks a capture as consumed so it is not fetched again.
	Ack(ctx context.Context, id string) error
}
