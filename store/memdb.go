package store

import (
	"fmt"

	"github.com/hashicorp/go-memdb"
)

const entriesTable = "entries"

var _ Store = (*MemDB)(nil)

type entry struct {
	Key   string
	Value any
}

// MemDB is an unbounded store on top of go-memdb. Readers work on immutable
// snapshots; writers are serialized by memdb, which makes InsertIfAbsent a
// single write transaction.
type MemDB struct {
	db *memdb.MemDB
}

func NewMemDB() (*MemDB, error) {
	db, err := memdb.NewMemDB(&memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			entriesTable: {
				Name: entriesTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create memdb: %w", err)
	}
	return &MemDB{db: db}, nil
}

func (s *MemDB) Load(key string) (any, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return first(txn, key)
}

func (s *MemDB) InsertIfAbsent(key string, value any) (any, bool) {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if cur, ok := first(txn, key); ok {
		return cur, true
	}
	if err := txn.Insert(entriesTable, &entry{Key: key, Value: value}); err != nil {
		// The schema is fixed, so this only fires on a programming error.
		panic(fmt.Errorf("failed to insert entry: %w", err))
	}
	txn.Commit()
	return value, false
}

func (s *MemDB) Len() int {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(entriesTable, "id")
	if err != nil {
		panic(fmt.Errorf("failed to list entries: %w", err))
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}

func (s *MemDB) Clear() {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(entriesTable, "id"); err != nil {
		panic(fmt.Errorf("failed to clear entries: %w", err))
	}
	txn.Commit()
}

func first(txn *memdb.Txn, key string) (any, bool) {
	raw, err := txn.First(entriesTable, "id", key)
	if err != nil || raw == nil {
		return nil, false
	}
	return raw.(*entry).Value, true
}
