package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	require.NoError(t, db.Put([]byte("alpha"), []byte{1, 2, 3}))
	value, err := db.Get([]byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, value)

	// Mutating the returned slice must not leak back into the store.
	value[0] = 9
	again, err := db.Get([]byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, again)

	require.NoError(t, db.Delete([]byte("alpha")))
	_, err = db.Get([]byte("alpha"))
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestMemDBMissingKey(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	_, err := db.Get([]byte("missing"))
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestLevelDBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	db, err := NewLevelDB(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("beta"), []byte("value")))
	value, err := db.Get([]byte("beta"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)

	require.NoError(t, db.Delete([]byte("beta")))
	_, err = db.Get([]byte("beta"))
	require.True(t, errors.Is(err, ErrNotFound))
}
