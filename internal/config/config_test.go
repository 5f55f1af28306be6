package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/merchant"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SMSLEDGER_TEST_DIR", "/var/data")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: home},
		{input: "~/ledger.db", want: filepath.Join(home, "ledger.db")},
		{input: "$SMSLEDGER_TEST_DIR/ledger.db", want: "/var/data/ledger.db"},
		{input: "/abs/path.db", want: "/abs/path.db"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	s, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabasePath(), s.DatabasePath)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Empty(t, s.AliasesFile)
	assert.InDelta(t, 0.4, s.MinConfidence, 1e-9)
	assert.InDelta(t, 0.7, s.ReviewThreshold, 1e-9)
	assert.InDelta(t, 0.5, s.ValidityThreshold, 1e-9)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SMSLEDGER_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("SMSLEDGER_INGEST_REVIEW_THRESHOLD", "0.8")

	v := viper.New()
	BindEnv(v)
	s, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", s.DatabasePath)
	assert.InDelta(t, 0.8, s.ReviewThreshold, 1e-9)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		value any
		name  string
		key   string
	}{
		{name: "min confidence above one", key: "parser.min_confidence", value: 1.5},
		{name: "negative review threshold", key: "ingest.review_threshold", value: -0.1},
		{name: "empty database path", key: "database.path", value: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := LoadFrom(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("empty path", func(t *testing.T) {
		aliases, err := LoadAliases("")
		require.NoError(t, err)
		assert.Nil(t, aliases)
	})

	t.Run("valid file", func(t *testing.T) {
		path := write("aliases.yaml", `
aliases:
  - key: "DMART "
    name: DMART
  - key: AVENUE SUPERMARTS
    name: DMART
`)
		aliases, err := LoadAliases(path)
		require.NoError(t, err)
		assert.Equal(t, []merchant.Alias{
			{Key: "DMART", Name: "DMART"},
			{Key: "AVENUE SUPERMARTS", Name: "DMART"},
		}, aliases)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAliases(filepath.Join(dir, "absent.yaml"))
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadAliases(write("bad.yaml", "aliases: [key: ZMT"))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("entry without name", func(t *testing.T) {
		_, err := LoadAliases(write("partial.yaml", "aliases:\n  - key: ZMT\n"))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}
