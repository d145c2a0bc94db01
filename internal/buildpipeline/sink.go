package buildpipeline

import "sync"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Recorder keeps every event; used by tests and the non-interactive CLI.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Final returns the last terminal status seen per file.
func (r *Recorder) Final() map[string]Status {
	out := make(map[string]Status)
	for _, ev := range r.Events() {
		if ev.File != "" && ev.Status.Terminal() {
			out[ev.File] = ev.Status
		}
	}
	return out
}

// Emit sends evt to sink when one is configured.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitQueued marks every file as queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Status: StatusQueued})
	}
}
