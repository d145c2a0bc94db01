package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Config selects a tracer for New.
type Config struct {
	Level  Level
	Format Format
	// Output is "-" for stderr or a file path. Empty keeps events in a ring
	// of RingSize entries only.
	Output   string
	Writer   io.Writer // overrides Output
	RingSize int
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	ring := NewRing(cfg.RingSize, cfg.Level)
	w := cfg.Writer
	switch {
	case w != nil:
	case cfg.Output == "":
		return ring, nil
	case cfg.Output == "-":
		w = os.Stderr
	default:
		f, err := os.Create(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("open trace output: %w", err)
		}
		w = f
	}
	return Fanout(cfg.Level, NewStream(w, cfg.Level, cfg.Format), ring), nil
}

// Stream writes every recorded event to w.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if !s.level.Records(ev.Scope) {
		return
	}
	line := Encode(ev, s.format)
	s.mu.Lock()
	defer s.mu.Unlock()
	// trace output never fails the pipeline
	_, _ = s.w.Write(line)
}

func (s *Stream) Flush() error {
	if f, ok := s.w.(interface{ Sync() error }); ok && s.w != os.Stderr {
		return f.Sync()
	}
	return nil
}

func (s *Stream) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if c, ok := s.w.(io.Closer); ok && s.w != os.Stderr {
		return c.Close()
	}
	return nil
}

func (s *Stream) Level() Level { return s.level }

// Ring keeps the last events in memory.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
	level  Level
}

// NewRing returns a ring of size events; non-positive sizes default to 4096.
func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = 4096
	}
	return &Ring{events: make([]Event, size), level: level}
}

func (r *Ring) Emit(ev *Event) {
	if !r.level.Records(ev.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[r.next] = *ev
	r.next = (r.next + 1) % len(r.events)
	if r.next == 0 {
		r.full = true
	}
}

// Events returns the stored events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Event(nil), r.events[:r.next]...)
	}
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}

// Dump writes the stored events to w.
func (r *Ring) Dump(w io.Writer, f Format) error {
	events := r.Events()
	for i := range events {
		if _, err := w.Write(Encode(&events[i], f)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Flush() error { return nil }
func (r *Ring) Close() error { return nil }
func (r *Ring) Level() Level { return r.level }

type fanout struct {
	level   Level
	tracers []Tracer
}

// Fanout forwards every event to all tracers.
func Fanout(level Level, tracers ...Tracer) Tracer {
	return &fanout{level: level, tracers: tracers}
}

func (f *fanout) Emit(ev *Event) {
	for _, t := range f.tracers {
		t.Emit(ev)
	}
}

func (f *fanout) Flush() error {
	var errs []error
	for _, t := range f.tracers {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for _, t := range f.tracers {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

func (f *fanout) Level() Level { return f.level }

// RingOf returns the ring inside a tracer built by New, if any.
func RingOf(t Tracer) (*Ring, bool) {
	switch t := t.(type) {
	case *Ring:
		return t, true
	case *fanout:
		for _, inner := range t.tracers {
			if r, ok := RingOf(inner); ok {
				return r, true
			}
		}
	}
	return nil, false
}
