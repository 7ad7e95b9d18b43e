// Package database provides a thin wrapper around leveldb used to cache
// raw transactions fetched from remote APIs between runs.
package database

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// LDB is a handle to a leveldb database.
type LDB struct {
	db   *leveldb.DB
	path string
}

// New opens (creating if needed) a database at the given path.
func New(path string) (*LDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LDB{db: db, path: path}, nil
}

// Put stores a value under a key.
func (l *LDB) Put(key []byte, value []byte) error {
	return l.db.Put(key, value, nil)
}

// Get returns the value stored under a key.
func (l *LDB) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, nil)
}

// Has reports whether a key is present.
func (l *LDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

// Delete removes a key.
func (l *LDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

// Close closes the underlying database.
func (l *LDB) Close() error {
	return l.db.Close()
}

// Path returns the filesystem path the database was opened at.
func (l *LDB) Path() string {
	return l.path
}
