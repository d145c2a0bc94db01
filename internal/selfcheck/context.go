package selfcheck

import "fmt"

// State is one entry of the self context stack.
type State uint8

const (
	Global State = iota
	ImplBlock
	TraitBlock
	Method
	AssociatedFunc
)

func (s State) String() string {
	switch s {
	case Global:
		return "GLOBAL"
	case ImplBlock:
		return "IMPL_BLOCK"
	case TraitBlock:
		return "TRAIT_BLOCK"
	case Method:
		return "METHOD"
	case AssociatedFunc:
		return "ASSOCIATED_FUNC"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// stack holds the context states; the root Global entry is never popped.
type stack struct {
	states []State
}

func newStack() *stack {
	return &stack{states: []State{Global}}
}

func (s *stack) top() State {
	return s.states[len(s.states)-1]
}

func (s *stack) push(st State) {
	s.states = append(s.states, st)
}

func (s *stack) pop() {
	if len(s.states) <= 1 {
		panic("selfcheck: context stack underflow")
	}
	s.states = s.states[:len(s.states)-1]
}

// enter pushes st and returns the matching pop for use with defer.
func (s *stack) enter(st State) func() {
	s.push(st)
	return s.pop
}

// fnState picks the state of a function body entered from the current
// context.
func (s *stack) fnState(hasSelf bool) State {
	switch s.top() {
	case ImplBlock, TraitBlock:
		if hasSelf {
			return Method
		}
		return AssociatedFunc
	}
	return Global
}
