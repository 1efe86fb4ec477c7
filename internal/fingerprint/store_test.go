package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndUnchanged(t *testing.T) {
	s := NewStore()
	sum := Sum([]byte("fn a() {}"))

	assert.False(t, s.Unchanged("lib.rs", sum))

	s.Record("lib.rs", sum)
	assert.True(t, s.Unchanged("lib.rs", sum))
	assert.False(t, s.Unchanged("lib.rs", Sum([]byte("fn a() { changed }"))))
	assert.Equal(t, 1, s.Len())

	s.Forget("lib.rs")
	assert.False(t, s.Unchanged("lib.rs", sum))
	assert.Equal(t, 0, s.Len())
}

func TestPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), StoreFileName)

	s := NewStore()
	s.Record("a.rs", Sum([]byte("a")))
	s.Record("b.ts", Sum([]byte("b")))
	require.NoError(t, s.PersistToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	assert.True(t, loaded.Unchanged("a.rs", Sum([]byte("a"))))
	assert.True(t, loaded.Unchanged("b.ts", Sum([]byte("b"))))
}

func TestLoadFromFileMissingIsEmpty(t *testing.T) {
	s, err := LoadFromFile(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoadFromFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), StoreFileName)
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all, just text"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
