package handoff_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handq/internal/handoff"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg := handoff.Load("")
	assert.Equal(t, "fifo", cfg.Policy)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg := handoff.Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, "fifo", cfg.Policy)
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("policy: lifo\n"), 0o644))

	cfg := handoff.Load(path)
	assert.Equal(t, "lifo", cfg.Policy)
}

func TestLoad_UnknownPolicyFallsBack(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("policy: round-robin\n"), 0o644))

	cfg := handoff.Load(path)
	assert.Equal(t, "fifo", cfg.Policy)
}
