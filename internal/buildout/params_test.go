package buildout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateAppendsAndReleaseRemoves(t *testing.T) {
	stack := NewParamStack()

	scope := stack.Activate("-n", "-o")
	assert.Equal(t, []string{"-n", "-o"}, stack.Tokens())

	scope.Release()
	assert.Empty(t, stack.Tokens())
}

func TestNestedDisjointScopesRestoreExactly(t *testing.T) {
	stack := NewParamStack()

	outer := stack.Activate("-n", "-o")
	inner := stack.Activate("buildout:develop=")
	assert.Equal(t, []string{"-n", "-o", "buildout:develop="}, stack.Tokens())

	inner.Release()
	assert.Equal(t, []string{"-n", "-o"}, stack.Tokens())

	outer.Release()
	assert.Empty(t, stack.Tokens())
}

func TestOwnershipIsPerAddition(t *testing.T) {
	stack := NewParamStack()

	outer := stack.Activate("-n")
	inner := stack.Activate("-n", "buildout:python=buildout")
	assert.Equal(t, []string{"-n", "buildout:python=buildout"}, stack.Tokens())
	assert.Equal(t, []string{"buildout:python=buildout"}, inner.Owned())

	// The inner scope re-added "-n"; releasing it must not remove the
	// token the outer scope owns.
	inner.Release()
	assert.Equal(t, []string{"-n"}, stack.Tokens())

	outer.Release()
	assert.Empty(t, stack.Tokens())
}

func TestReleaseIsIdempotent(t *testing.T) {
	stack := NewParamStack()

	scope := stack.Activate("-o")
	scope.Release()
	scope.Release()
	assert.Empty(t, stack.Tokens())

	// A later identical activation is unaffected by the stale scope.
	again := stack.Activate("-o")
	scope.Release()
	assert.Equal(t, []string{"-o"}, stack.Tokens())
	again.Release()
	assert.Empty(t, stack.Tokens())
}

func TestDuplicateTokensInOneActivation(t *testing.T) {
	stack := NewParamStack()

	scope := stack.Activate("-n", "-n")
	assert.Equal(t, []string{"-n"}, stack.Tokens())
	assert.Equal(t, []string{"-n"}, scope.Owned())

	scope.Release()
	assert.Empty(t, stack.Tokens())
}

func TestTokensReturnsACopy(t *testing.T) {
	stack := NewParamStack()
	scope := stack.Activate("-n")
	defer scope.Release()

	tokens := stack.Tokens()
	tokens[0] = "mutated"
	require.Equal(t, []string{"-n"}, stack.Tokens())
	assert.Equal(t, 1, stack.Len())
}
