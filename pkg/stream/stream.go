// Package stream runs the read-analyze-emit loop: one word in, one record out,
// strictly in order and flushed per record.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dkoosis/morphd/pkg/linesource"
	"github.com/dkoosis/morphd/pkg/morph"
)

// State is the per-word position in the loop.
type State int

const (
	StateIdle State = iota
	StateDispatched
	StateSucceeded
	StateFailed
	StateEmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatched:
		return "dispatched"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateEmitted:
		return "emitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AnalyzeFunc produces the record for one word. It must not fail; failures
// belong in the record.
type AnalyzeFunc func(word string) morph.AnalysisResult

// ObserveFunc is called on every state transition of a word.
type ObserveFunc func(word string, from, to State)

type options struct {
	logger  *slog.Logger
	observe ObserveFunc
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger for transition and summary diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// OnTransition registers fn to observe state transitions.
func OnTransition(fn ObserveFunc) Option {
	return func(o *options) { o.observe = fn }
}

// counter is implemented by sources that track raw and blank lines.
type counter interface {
	Counts() linesource.Counts
}

// Run reads words from src until end-of-stream, analyzes each one and emits
// exactly one record per word to sink before reading the next.
//
// Cancelling ctx abandons a read that is waiting for input. An analysis
// already in flight runs to completion and its record is written. Run returns
// a nil error at end of input. A read failure or a write failure stops the
// loop and is returned.
func Run(ctx context.Context, src linesource.Source, analyze AnalyzeFunc, sink *Sink, opts ...Option) (Stats, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	l := &loop{opts: o}

	var (
		stats     Stats
		abandoned bool
	)
	done := func(err error) (Stats, error) {
		// An abandoned read may still be touching the source's counters.
		if c, ok := src.(counter); ok && !abandoned {
			counts := c.Counts()
			stats.Lines, stats.Blank = counts.Lines, counts.Blank
		}
		return stats, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return done(err)
		}

		word, err := next(ctx, src)
		if errors.Is(err, io.EOF) {
			return done(nil)
		}
		if err != nil && ctx.Err() != nil {
			abandoned = true
			return done(ctx.Err())
		}
		if err != nil {
			return done(fmt.Errorf("reading input: %w", err))
		}
		stats.Words++

		l.transition(word, StateIdle, StateDispatched)
		res, data, encErr := sink.encode(analyze(word))
		outcome := StateSucceeded
		if res.Failed() {
			outcome = StateFailed
		}
		l.transition(word, StateDispatched, outcome)
		if encErr != nil {
			return done(encErr)
		}

		if err := sink.write(data); err != nil {
			return done(err)
		}
		stats.record(res)
		l.transition(word, outcome, StateEmitted)
		l.transition(word, StateEmitted, StateIdle)
	}
}

type readResult struct {
	word string
	err  error
}

// next reads one word, giving up when ctx is cancelled. The read goroutine is
// started only after the previous record has been flushed.
func next(ctx context.Context, src linesource.Source) (string, error) {
	if ctx.Done() == nil {
		return src.Next()
	}
	ch := make(chan readResult, 1)
	go func() {
		word, err := src.Next()
		ch <- readResult{word: word, err: err}
	}()
	select {
	case r := <-ch:
		return r.word, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type loop struct {
	opts options
}

func (l *loop) transition(word string, from, to State) {
	l.opts.logger.Debug("transition", "word", word, "from", from.String(), "to", to.String())
	if l.opts.observe != nil {
		l.opts.observe(word, from, to)
	}
}
