// Package buildout assembles and runs invocations of a project's buildout
// and Python interpreter. The ParamStack injects extra buildout arguments
// for the duration of a pipeline step without leaking them into sibling or
// later invocations.
package buildout

// ParamStack is an ordered collection of distinct extra buildout arguments.
// It starts empty and is mutated only through Activate/Release pairs, so
// after every scope releases the stack is back to its pre-scope state.
//
// The stack is owned by one pipeline instance and is not goroutine-safe.
// Scopes are meant to be released LIFO via defer; ownership sets of live
// scopes are disjoint by construction, so release order cannot corrupt the
// stack, but interleaving scopes across steps is still a discipline
// violation worth avoiding.
type ParamStack struct {
	tokens []string
}

// NewParamStack creates an empty stack.
func NewParamStack() *ParamStack {
	return &ParamStack{}
}

// Activate appends each token not already present and returns a scope owning
// exactly the tokens it appended. Re-adding a present token is a no-op; the
// token stays owned by whichever scope added it first and survives this
// scope's release.
func (s *ParamStack) Activate(tokens ...string) *ParamScope {
	scope := &ParamScope{stack: s}
	for _, token := range tokens {
		if s.contains(token) {
			continue
		}
		s.tokens = append(s.tokens, token)
		scope.owned = append(scope.owned, token)
	}
	return scope
}

// Tokens returns a copy of the current arguments in insertion order.
func (s *ParamStack) Tokens() []string {
	return append([]string(nil), s.tokens...)
}

// Len returns the number of active tokens.
func (s *ParamStack) Len() int {
	return len(s.tokens)
}

func (s *ParamStack) contains(token string) bool {
	for _, t := range s.tokens {
		if t == token {
			return true
		}
	}
	return false
}

func (s *ParamStack) remove(token string) {
	for i, t := range s.tokens {
		if t == token {
			s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
			return
		}
	}
}

// ParamScope undoes one Activate. Release removes exactly the tokens the
// scope added, regardless of whether the work between Activate and Release
// succeeded.
type ParamScope struct {
	stack    *ParamStack
	owned    []string
	released bool
}

// Release removes the scope's owned tokens from the stack. It is idempotent.
func (sc *ParamScope) Release() {
	if sc.released {
		return
	}
	sc.released = true
	for _, token := range sc.owned {
		sc.stack.remove(token)
	}
}

// Owned returns a copy of the tokens this scope added.
func (sc *ParamScope) Owned() []string {
	return append([]string(nil), sc.owned...)
}
