package inbox

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/parakeep/parakeep/internal/classifier"
	"github.com/parakeep/parakeep/internal/llm"
	"github.com/parakeep/parakeep/internal/note"
	"github.com/parakeep/parakeep/internal/progress"
	"github.com/parakeep/parakeep/internal/state"
	"github.com/parakeep/parakeep/internal/vault"
)

// Summary reports the outcome of one processing cycle.
type Summary struct {
	Processed int // captures filed into the vault
	Skipped   int // captures already processed in an earlier cycle
	Held      int // captures held for retry because inference was unreachable
	Failed    int // captures that hit a non-transient error
}

// Processor runs the capture pipeline: scanner vocabulary, classification,
// note creation, state bookkeeping.
type Processor struct {
	source     Source
	scanner    *vault.Scanner
	classifier *classifier.Classifier
	writer     *note.Writer
	store      state.Store
	retention  time.Duration
	reporter   progress.Reporter
	notify     func(kind, detail string)
}

// SetReporter attaches a progress reporter for interactive runs.
func (p *Processor) SetReporter(r progress.Reporter) { p.reporter = r }

// SetNotifier attaches a callback invoked after notable pipeline events,
// e.g. to push them to websocket clients.
func (p *Processor) SetNotifier(fn func(kind, detail string)) { p.notify = fn }

// NewProcessor wires a Processor from its collaborators.
func NewProcessor(source Source, scanner *vault.Scanner, cls *classifier.Classifier, writer *note.Writer, store state.Store, retention time.Duration) *Processor {
	return &Processor{
		source:     source,
		scanner:    scanner,
		classifier: cls,
		writer:     writer,
		store:      store,
		retention:  retention,
	}
}

// Run executes one processing cycle over all pending captures, oldest first.
// Captures are processed sequentially; a capture held for retry stays
// unacknowledged and is fetched again next cycle. The cycle outcome lands in
// the run log either way.
func (p *Processor) Run(ctx context.Context) (*Summary, error) {
	hierarchy, err := p.scanner.GetHierarchy(false)
	if err != nil {
		p.recordRun(state.RunFailure, fmt.Sprintf("vault scan: %v", err))
		return nil, fmt.Errorf("loading vault hierarchy: %w", err)
	}

	messages, err := p.source.Fetch(ctx)
	if err != nil {
		p.recordRun(state.RunFailure, fmt.Sprintf("fetch: %v", err))
		return nil, fmt.Errorf("fetching captures: %w", err)
	}

	if p.reporter != nil && len(messages) > 0 {
		p.reporter.Start(len(messages))
		defer p.reporter.Finish()
	}

	summary := &Summary{}
	for i, msg := range messages {
		if p.reporter != nil {
			p.reporter.Update(i+1, msg.ID)
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		done, err := p.store.IsProcessed(msg.ID)
		if err != nil {
			p.recordRun(state.RunFailure, fmt.Sprintf("state read: %v", err))
			return summary, fmt.Errorf("checking processed state: %w", err)
		}
		if done {
			summary.Skipped++
			p.ack(ctx, msg.ID)
			continue
		}

		result, err := p.classifier.Classify(ctx, msg.Text, hierarchy)
		if errors.Is(err, llm.ErrUnavailable) || errors.Is(err, llm.ErrTimeout) {
			// Inference is down for everyone; hold this and all remaining
			// captures for the next cycle.
			summary.Held += len(messages) - summary.Processed - summary.Skipped - summary.Failed
			log.Printf("inbox: inference unavailable, holding %d captures: %v", summary.Held, err)
			p.recordRun(state.RunFailure, fmt.Sprintf("inference unavailable, %d captures held", summary.Held))
			return summary, nil
		}
		if err != nil {
			summary.Failed++
			log.Printf("inbox: classify %s: %v", msg.ID, err)
			continue
		}

		path, err := p.writer.Write(result, msg.Text)
		if err != nil {
			summary.Failed++
			log.Printf("inbox: write note for %s: %v", msg.ID, err)
			continue
		}

		if err := p.store.SetArtifact(msg.ID, path); err != nil {
			p.recordRun(state.RunFailure, fmt.Sprintf("state write: %v", err))
			return summary, fmt.Errorf("recording artifact: %w", err)
		}
		if err := p.store.MarkProcessed(msg.ID); err != nil {
			p.recordRun(state.RunFailure, fmt.Sprintf("state write: %v", err))
			return summary, fmt.Errorf("marking processed: %w", err)
		}
		p.ack(ctx, msg.ID)
		summary.Processed++
		log.Printf("inbox: filed %s to %s/%s/%s (%.0f%%)", msg.ID, result.Domain, result.Section, result.Subject, result.Confidence*100)
		if p.notify != nil {
			p.notify("filed", fmt.Sprintf("%s -> %s/%s/%s", msg.ID, result.Domain, result.Section, result.Subject))
		}
	}

	if removed, err := p.store.Cleanup(p.retention); err != nil {
		log.Printf("inbox: cleanup: %v", err)
	} else if removed > 0 {
		log.Printf("inbox: cleaned up %d expired entries", removed)
	}

	if summary.Failed > 0 {
		p.recordRun(state.RunFailure, fmt.Sprintf("%d captures failed", summary.Failed))
	} else {
		p.recordRun(state.RunSuccess, fmt.Sprintf("processed %d, skipped %d", summary.Processed, summary.Skipped))
	}
	if p.notify != nil && summary.Processed > 0 {
		p.notify("cycle", fmt.Sprintf("processed %d captures", summary.Processed))
	}
	return summary, nil
}

// RunLoop runs cycles on a fixed interval until the context is canceled. A
// failed cycle does not stop the loop.
func (p *Processor) RunLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("inbox: cycle failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Processor) ack(ctx context.Context, id string) {
	if err := p.source.Ack(ctx, id); err != nil {
		log.Printf("inbox: ack %s: %v", id, err)
	}
}

func (p *Processor) recordRun(outcome state.RunOutcome, detail string) {
	if err := p.store.RecordRun(outcome, detail); err != nil {
		log.Printf("inbox: recording run: %v", err)
	}
}
