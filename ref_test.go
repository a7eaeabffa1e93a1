package thermos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	t.Run("Should parse dotted addresses", func(t *testing.T) {
		ref, e := ParseRef("thermos.ports.http")
		require.NoError(t, e)
		require.Equal(t, "thermos.ports.http", ref.Address())
		require.Equal(t, 3, ref.Size())
	})

	t.Run("Should reject malformed addresses", func(t *testing.T) {
		for _, address := range []string{
			"", "a..b", ".a", "a.", "a b", "a/b", "a.{b}",
		} {
			_, e := ParseRef(address)
			require.Error(t, e, "address %q", address)
		}
	})
}

func TestRefScopedTo(t *testing.T) {
	ports := mustParseRef("thermos.ports")

	t.Run("Should return the sub-reference under a prefix", func(t *testing.T) {
		ref := mustParseRef("thermos.ports.http")
		sub, ok := ref.ScopedTo(ports)
		require.True(t, ok)
		require.Equal(t, "http", sub.Address())
		require.Equal(t, "http", sub.Index())
	})

	t.Run("Should report non-prefixes", func(t *testing.T) {
		ref := mustParseRef("jvm.version")
		_, ok := ref.ScopedTo(ports)
		require.False(t, ok)
	})

	t.Run("Should require a strict prefix", func(t *testing.T) {
		ref := mustParseRef("thermos.ports")
		_, ok := ref.ScopedTo(ports)
		require.False(t, ok)
	})
}

func TestRefIndex(t *testing.T) {
	t.Run("Should panic on a nested reference", func(t *testing.T) {
		ref := mustParseRef("health.sub")
		require.Panics(t, func() {
			ref.Index()
		})
	})
}
