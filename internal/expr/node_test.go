package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClone_DeepCopy tests that Clone produces an independent tree.
func TestClone_DeepCopy(t *testing.T) {
	orig := NewCall("&", NewSymbol("a"), NewCall("log", NewSymbol("b")))
	copied := Clone(orig)

	require.True(t, Equal(orig, copied))

	// Mutating the copy must not reach the original.
	copied.(*Call).Args[0].(*Symbol).Name = "z"
	assert.Equal(t, "a", orig.Args[0].(*Symbol).Name)
}

// TestEqual_Shapes tests structural equality across node shapes.
func TestEqual_Shapes(t *testing.T) {
	assert.True(t, Equal(NewSymbol("x"), NewSymbol("x")))
	assert.False(t, Equal(NewSymbol("x"), NewSymbol("y")))
	assert.False(t, Equal(NewSymbol("x"), NewLiteral(1)))
	assert.True(t, Equal(NewLiteral(1), NewLiteral(1)))
	assert.True(t,
		Equal(NewCall("+", NewSymbol("a"), NewSymbol("b")),
			NewCall("+", NewSymbol("a"), NewSymbol("b"))))
	assert.False(t,
		Equal(NewCall("+", NewSymbol("a"), NewSymbol("b")),
			NewCall("&", NewSymbol("a"), NewSymbol("b"))))
}

// TestName_Rendering tests canonical rendering of common formula shapes.
func TestName_Rendering(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"symbol", NewSymbol("age"), "age"},
		{"literal int", NewLiteral(1), "1"},
		{"literal neg", NewLiteral(-1), "-1"},
		{"literal frac", NewLiteral(2.5), "2.5"},
		{"interaction", NewCall("&", NewSymbol("a"), NewSymbol("b")), "a & b"},
		{"sum", NewCall("+", NewSymbol("a"), NewSymbol("b"), NewSymbol("c")), "a + b + c"},
		{"function call", NewCall("log", NewSymbol("c")), "log(c)"},
		{
			"nested mixed operators",
			NewCall("&", NewSymbol("a"), NewCall("+", NewSymbol("b"), NewSymbol("c"))),
			"a & (b + c)",
		},
		{"grouping", NewCall("|", NewLiteral(1), NewSymbol("g")), "1 | g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.node))
		})
	}
}

// TestNewSymbol_NFCNormalization tests that two spellings of the same name
// collapse to one canonical form.
func TestNewSymbol_NFCNormalization(t *testing.T) {
	composed := NewSymbol("caf\u00e9")    // e-acute as a single code point
	decomposed := NewSymbol("cafe\u0301") // e + combining acute
	assert.True(t, Equal(composed, decomposed))
	assert.Equal(t, Name(composed), Name(decomposed))
}
