package router

import (
	"context"
	"errors"
	"sync"
)

// LoadState is the state of a Lazy value.
type LoadState uint8

const (
	// Unloaded means the producer has not run yet.
	Unloaded LoadState = iota
	// Loaded means the producer ran and returned content.
	Loaded
	// Failed means the producer ran and returned an error.
	Failed
)

// String returns the lower-case name of the state.
func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// errNilContent is recorded when a producer returns neither content nor an
// error.
var errNilContent = errors.New("producer returned no content")

// Lazy holds content that is produced on first load. It is either
// Unloaded, Loaded with content, or Failed with an error.
//
// A nil *Lazy stands for an absent optional producer; its methods report
// Unloaded with no content.
type Lazy struct {
	mu       sync.Mutex
	producer Producer
	state    LoadState
	content  *Content
	err      error
}

// newLazy wraps a producer. A nil producer yields a nil *Lazy.
func newLazy(p Producer) *Lazy {
	if p == nil {
		return nil
	}
	return &Lazy{producer: p}
}

// LoadedContent returns a Lazy that is already Loaded with c. It is
// useful for tests and for routes assembled by hand.
func LoadedContent(c *Content) *Lazy {
	return &Lazy{state: Loaded, content: c}
}

// State returns the current state.
func (l *Lazy) State() LoadState {
	if l == nil {
		return Unloaded
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Content returns the loaded content, if any.
func (l *Lazy) Content() (*Content, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.content, l.state == Loaded
}

// Err returns the error recorded by a failed load.
func (l *Lazy) Err() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Load runs the producer unless the value is already Loaded. A Failed value
// is retried.
func (l *Lazy) Load(ctx context.Context) (*Content, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == Loaded {
		return l.content, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := l.producer(ctx)
	if err == nil && content == nil {
		err = errNilContent
	}
	if err != nil {
		l.state = Failed
		l.err = err
		l.content = nil
		return nil, err
	}

	l.state = Loaded
	l.content = content
	l.err = nil
	return content, nil
}
