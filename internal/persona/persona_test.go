package persona

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	registry, err := NewRegistry(DefaultPersonas())
	require.NoError(t, err)

	p, err := registry.Lookup("government")
	require.NoError(t, err)
	assert.Equal(t, "Government Official", p.DisplayName)
	assert.Equal(t, "blue-500", p.Color)
	assert.NotEmpty(t, p.PromptTemplate)

	_, err = registry.Lookup("unknownkey")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistryKeysPreserveOrder(t *testing.T) {
	registry, err := NewRegistry(DefaultPersonas())
	require.NoError(t, err)

	assert.Equal(t, []string{"government", "ngo", "citizen", "student"}, registry.Keys())
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	personas := []Persona{
		{Key: "citizen", DisplayName: "Citizen", PromptTemplate: "p"},
		{Key: "citizen", DisplayName: "Citizen Again", PromptTemplate: "p"},
	}
	_, err := NewRegistry(personas)
	require.Error(t, err)
}

func TestNewRegistryRejectsEmptyKey(t *testing.T) {
	_, err := NewRegistry([]Persona{{Key: "  ", DisplayName: "X", PromptTemplate: "p"}})
	require.Error(t, err)
}

func TestDefaultPersonasHaveFallbacks(t *testing.T) {
	for _, p := range DefaultPersonas() {
		assert.NotEmptyf(t, p.FallbackPool, "persona %s has no fallback lines", p.Key)
		for _, line := range p.FallbackPool {
			assert.NotEmpty(t, line)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "personas.yaml")
	content := `personas:
  - key: farmer
    displayName: Farmer
    color: green-500
    prompt: You are a local farmer.
    fallbacks:
      - The harvest comes first.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	personas, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, personas, 1)
	assert.Equal(t, "farmer", personas[0].Key)
	assert.Equal(t, "Farmer", personas[0].DisplayName)
	assert.Equal(t, []string{"The harvest comes first."}, personas[0].FallbackPool)

	registry, err := NewRegistry(personas)
	require.NoError(t, err)
	p, err := registry.Lookup("farmer")
	require.NoError(t, err)
	assert.Equal(t, "You are a local farmer.", p.PromptTemplate)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
