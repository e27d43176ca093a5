package configstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/archerysim/internal/fileutil"
	"github.com/lox/archerysim/internal/lcg"
)

const sampleHCL = `
configuration "tiny" {
  conf1 {
    k  = 3
    g  = 4
    x0 = 1
    c  = 1
  }
  conf2 {
    k  = 3
    g  = 4
    x0 = 1
    c  = 1
  }
}

configuration "wide" {
  conf1 {
    k  = 1234
    g  = 14
    x0 = 99
    c  = 12345
  }
  conf2 {
    k  = 5678
    g  = 14
    x0 = 17
    c  = 54321
  }
}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lcg.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigurations(t *testing.T) {
	configs, err := LoadConfigurations(writeConfig(t, sampleHCL))
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "tiny", configs[0].Name)
	assert.Equal(t, lcg.Params{K: 3, G: 4, X0: 1, C: 1}, configs[0].Conf1)
	assert.Equal(t, "wide", configs[1].Name)
	assert.Equal(t, lcg.Params{K: 5678, G: 14, X0: 17, C: 54321}, configs[1].Conf2)
}

func TestLoadConfigurationsErrors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := LoadConfigurations(writeConfig(t, ""))
		assert.ErrorIs(t, err, ErrNoConfigurations)
	})

	t.Run("invalid params", func(t *testing.T) {
		_, err := LoadConfigurations(writeConfig(t, `
configuration "bad" {
  conf1 {
    k  = 1
    g  = 1
    x0 = 0
    c  = 1
  }
  conf2 {
    k  = 1
    g  = 8
    x0 = 0
    c  = 1
  }
}
`))
		assert.ErrorIs(t, err, lcg.ErrInvalidParams)
	})

	t.Run("missing attribute", func(t *testing.T) {
		_, err := LoadConfigurations(writeConfig(t, `
configuration "partial" {
  conf1 {
    k = 1
  }
  conf2 {
    k = 1
  }
}
`))
		assert.Error(t, err)
	})
}

func TestLoadWithoutCursorFileStartsAtZero(t *testing.T) {
	cursorPath := filepath.Join(t.TempDir(), "nums_info.json")

	store, err := Load(writeConfig(t, sampleHCL), cursorPath)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Cursor())
	assert.Equal(t, "tiny", store.Current().Name)
}

func TestAdvanceWrapsAndPersists(t *testing.T) {
	configPath := writeConfig(t, sampleHCL)
	cursorPath := filepath.Join(t.TempDir(), "nums_info.json")
	require.NoError(t, fileutil.WriteJSONAtomic(cursorPath, map[string]int{"index": 1}))

	store, err := Load(configPath, cursorPath)
	require.NoError(t, err)
	assert.Equal(t, "wide", store.Current().Name)

	require.NoError(t, store.Advance())
	assert.Equal(t, 0, store.Cursor())

	var saved struct {
		Index int `json:"index"`
	}
	require.NoError(t, fileutil.ReadJSON(cursorPath, &saved))
	assert.Equal(t, 0, saved.Index)

	// A fresh load resumes from the committed cursor
	reloaded, err := Load(configPath, cursorPath)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Cursor())
}

func TestNew(t *testing.T) {
	_, err := New(nil, 0, "")
	assert.ErrorIs(t, err, ErrNoConfigurations)

	configs := []lcg.Configuration{{Name: "a"}, {Name: "b"}}
	_, err = New(configs, -1, "")
	assert.Error(t, err)

	store, err := New(configs, 5, "")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Cursor())

	require.NoError(t, store.Advance())
	assert.Equal(t, "a", store.Current().Name)
}

func TestShippedConfigurationsParse(t *testing.T) {
	configs, err := LoadConfigurations(filepath.Join("..", "..", "lcg.hcl"))
	require.NoError(t, err)
	require.NotEmpty(t, configs)
	for _, c := range configs {
		assert.NoError(t, c.Conf1.Validate(), c.Name)
		assert.NoError(t, c.Conf2.Validate(), c.Name)
	}
	assert.Equal(t, 1<<23, configs[0].Size())
}
