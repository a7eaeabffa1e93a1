package thermos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustNode(t *testing.T, document string) Node {
	t.Helper()
	node, e := ParseNode([]byte(document))
	require.NoError(t, e)
	return node
}

func TestParseNode(t *testing.T) {
	t.Run("Should build the variant tree", func(t *testing.T) {
		node := mustNode(t, `{"s": "x", "n": 128, "b": true, "z": null, "l": [1, "two"]}`)
		object, ok := node.(ObjectNode)
		require.True(t, ok)
		require.Equal(t, StringNode("x"), object["s"])
		require.Equal(t, NumberNode("128"), object["n"])
		require.Equal(t, BoolNode(true), object["b"])
		require.Equal(t, NullNode{}, object["z"])
		require.Equal(t, ListNode{NumberNode("1"), StringNode("two")}, object["l"])
	})

	t.Run("Should reject malformed documents", func(t *testing.T) {
		_, e := ParseNode([]byte(`{"a":`))
		require.Error(t, e)

		_, e = ParseNode([]byte(`{} {}`))
		require.Error(t, e)
	})

	t.Run("Should keep number text through a round trip", func(t *testing.T) {
		node := mustNode(t, `{"ram": 1073741824}`)
		data, e := MarshalNode(node)
		require.NoError(t, e)
		require.JSONEq(t, `{"ram": 1073741824}`, string(data))
	})
}

func TestInterpolate(t *testing.T) {
	t.Run("Should resolve bound placeholders", func(t *testing.T) {
		node, residual, e := Interpolate(
			StringNode("java-{{ jvm.version }}"),
			map[string]string{"jvm.version": "7"},
		)
		require.NoError(t, e)
		require.Empty(t, residual)
		require.Equal(t, StringNode("java-7"), node)
	})

	t.Run("Should keep unresolved placeholders and report them", func(t *testing.T) {
		node, residual, e := Interpolate(
			StringNode("--port={{thermos.ports.http}} --cluster={{cluster}}"),
			map[string]string{"cluster": "west"},
		)
		require.NoError(t, e)
		require.Len(t, residual, 1)
		require.Equal(t, "thermos.ports.http", residual[0].Address())
		require.Equal(
			t,
			StringNode("--port={{thermos.ports.http}} --cluster=west"),
			node,
		)
	})

	t.Run("Should walk lists and objects without mutating the input", func(t *testing.T) {
		tree := mustNode(t, `{"processes": [{"cmdline": "run {{a}}"}]}`)

		node, residual, e := Interpolate(tree, map[string]string{"a": "x"})
		require.NoError(t, e)
		require.Empty(t, residual)

		bound, e := MarshalNode(node)
		require.NoError(t, e)
		require.JSONEq(t, `{"processes": [{"cmdline": "run x"}]}`, string(bound))

		raw, e := MarshalNode(tree)
		require.NoError(t, e)
		require.JSONEq(t, `{"processes": [{"cmdline": "run {{a}}"}]}`, string(raw))
	})

	t.Run("Should report duplicate residuals", func(t *testing.T) {
		_, residual, e := Interpolate(
			StringNode("{{thermos.ports.http}} {{thermos.ports.http}}"),
			nil,
		)
		require.NoError(t, e)
		require.Len(t, residual, 2)
	})

	t.Run("Should fail on template syntax errors", func(t *testing.T) {
		_, _, e := Interpolate(StringNode("run {{unterminated"), nil)
		require.Error(t, e)

		_, _, e = Interpolate(StringNode("run {{}}"), nil)
		require.Error(t, e)
	})
}
