package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestCommandTree(t *testing.T) {
	root := New()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"ui", "list", "get", "info", "months", "character", "download", "cache", "mcp", "completion", "version", "upgrade"} {
		assert.Contains(t, names, want)
	}

	cache, _, err := root.Find([]string{"cache", "purge"})
	require.NoError(t, err)
	assert.Equal(t, "purge", cache.Name())

	assert.NotNil(t, root.PersistentFlags().Lookup("local"))
}

func TestArgumentErrors(t *testing.T) {
	tests := map[string][]string{
		"get needs a number":      {"get", "tabby"},
		"get takes one cat":       {"get", "1", "2"},
		"download needs a number": {"download", "#0"},
		"unknown inspiration":     {"list", "--inspiration", "remix"},
		"unknown output":          {"months", "-o", "xml"},
		"bad date":                {"list", "--date", "someday"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}
