package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga_studio_backend/storage"
)

type snapshot struct {
	Email   string `json:"email"`
	Credits int    `json:"credits"`
}

func TestFileKV_RoundTrip(t *testing.T) {
	kv, err := storage.OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, kv.Put("state:maya@example.com", snapshot{Email: "maya@example.com", Credits: 5}))

	var got snapshot
	found, err := kv.Get("state:maya@example.com", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, got.Credits)

	found, err = kv.Get("state:nobody@example.com", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := storage.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put("state:maya@example.com", snapshot{Credits: 9}))

	reopened, err := storage.OpenFile(path)
	require.NoError(t, err)

	var got snapshot
	found, err := reopened.Get("state:maya@example.com", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 9, got.Credits)
}

func TestFileKV_Delete(t *testing.T) {
	kv, err := storage.OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, kv.Put("state:maya@example.com", snapshot{Credits: 1}))
	require.NoError(t, kv.Delete("state:maya@example.com"))

	var got snapshot
	found, err := kv.Get("state:maya@example.com", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileKV_KeysFiltersByPrefix(t *testing.T) {
	kv, err := storage.OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, kv.Put("state:a@example.com", snapshot{}))
	require.NoError(t, kv.Put("state:b@example.com", snapshot{}))
	require.NoError(t, kv.Put("meta:version", 1))

	keys, err := kv.Keys("state:")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.ElementsMatch(t, []string{"state:a@example.com", "state:b@example.com"}, keys)
}

func TestFileKV_CorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	kv, err := storage.OpenFile(path)
	require.NoError(t, err)

	keys, err := kv.Keys("")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
