package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span is an open begin event. The zero Span and a Span from a disabled
// tracer are inert.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin emits a begin event unless t does not record scope.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().Records(scope) {
		return &Span{}
	}
	s := &Span{t: t, id: spanIDs.Add(1), parent: parent, scope: scope, name: name, started: time.Now()}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      seq.Add(1),
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// Point emits a single instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Level().Records(scope) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Seq: seq.Add(1), Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

// End emits the matching end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.t.Emit(&Event{
		Time:     now,
		Seq:      seq.Add(1),
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  elapsed,
		Extra:    s.extra,
	})
	return elapsed
}

// With attaches a key/value pair to the end event.
func (s *Span) With(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID is the span identifier children pass as parent.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
