package thermos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBinding(t *testing.T) {
	t.Run("Should parse NAME=VALUE", func(t *testing.T) {
		binding, e := ParseBinding("jvm.version=7")
		require.NoError(t, e)
		require.Equal(t, Binding{Name: "jvm.version", Value: "7"}, binding)
	})

	t.Run("Should keep the value verbatim", func(t *testing.T) {
		binding, e := ParseBinding("cmd=a=b=c")
		require.NoError(t, e)
		require.Equal(t, "a=b=c", binding.Value)
	})

	t.Run("Should reject missing separator or bad names", func(t *testing.T) {
		_, e := ParseBinding("novalue")
		require.Error(t, e)

		_, e = ParseBinding("a b=c")
		require.Error(t, e)
	})
}

func TestBindingEnv(t *testing.T) {
	t.Run("Should let a later binding win", func(t *testing.T) {
		env := bindingEnv([]Binding{
			{Name: "cluster", Value: "west"},
			{Name: "cluster", Value: "east"},
		})
		require.Equal(t, "east", env["cluster"])
	})
}

func TestVarsInitialize(t *testing.T) {
	t.Run("Should resolve value vars in name order", func(t *testing.T) {
		vars := Vars{
			"b": {Value: "2"},
			"a": {Type: "value", Value: "1"},
		}
		bindings, e := vars.initialize("test: ", false)
		require.NoError(t, e)
		require.Equal(t, []Binding{
			{Name: "a", Value: "1"},
			{Name: "b", Value: "2"},
		}, bindings)
	})

	t.Run("Should fall back to the literal value without prompting", func(t *testing.T) {
		vars := Vars{
			"token": {Type: "password", Value: "fallback"},
			"name":  {Type: "input", Value: "default"},
		}
		bindings, e := vars.initialize("test: ", false)
		require.NoError(t, e)
		require.Equal(t, []Binding{
			{Name: "name", Value: "default"},
			{Name: "token", Value: "fallback"},
		}, bindings)
	})

	t.Run("Should reject unsupported types and bad names", func(t *testing.T) {
		_, e := Vars{"a": {Type: "secret"}}.initialize("test: ", false)
		require.Error(t, e)

		_, e = Vars{"a b": {Value: "1"}}.initialize("test: ", false)
		require.Error(t, e)
	})
}
