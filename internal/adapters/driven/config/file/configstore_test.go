package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyEmbeddingModel, "nomic-embed-text"))
	require.NoError(t, store.Set(KeyChunkSize, 500))

	assert.Equal(t, "nomic-embed-text", store.GetString(KeyEmbeddingModel))
	assert.Equal(t, 500, store.GetInt(KeyChunkSize))
}

func TestGetMissingKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("does.not.exist")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("does.not.exist"))
	assert.Equal(t, 0, store.GetInt("does.not.exist"))
	assert.False(t, store.GetBool("does.not.exist"))
}

func TestPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyDataDir, "/tmp/docvault-data"))
	require.NoError(t, store.Set(KeyChunkOverlap, 50))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/docvault-data", reopened.GetString(KeyDataDir))
	assert.Equal(t, 50, reopened.GetInt(KeyChunkOverlap))
}

func TestWritesTOMLSections(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyEmbeddingBaseURL, "http://localhost:11434"))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[embedding]")
	assert.Contains(t, string(data), "base_url")
}

func TestLoadsDottedKeysFromSections(t *testing.T) {
	dir := t.TempDir()
	content := "[chunker]\nsize = 300\noverlap = 30\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 300, store.GetInt(KeyChunkSize))
	assert.Equal(t, 30, store.GetInt(KeyChunkOverlap))
}

func TestGetStringSlice(t *testing.T) {
	dir := t.TempDir()
	content := "[scan]\nexclude = [\"*.bak\", \"*.tmp\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.bak", "*.tmp"}, store.GetStringSlice("scan.exclude"))
}
