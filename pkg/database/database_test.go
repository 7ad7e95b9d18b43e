package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *LDB {
	db, err := New(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPutGet(t *testing.T) {
	db := testDB(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(t, db.Put(key, value))
	res, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, res)
}

func TestGetMissing(t *testing.T) {
	db := testDB(t)
	_, err := db.Get([]byte("nothing here"))
	assert.Error(t, err)
}

func TestHas(t *testing.T) {
	db := testDB(t)
	ok, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	ok, err = db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPutDelete(t *testing.T) {
	db := testDB(t)

	key := []byte("hello")
	require.NoError(t, db.Put(key, []byte("world")))
	require.NoError(t, db.Delete(key))

	ok, err := db.Has(key)
	require.NoError(t, err)
	assert.False(t, ok)
}
