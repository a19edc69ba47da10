// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/ursa/internal/models"
)

// Key layout.
const (
	threatKeyPrefix = "threat:"
	orderKeyPrefix  = "threat_order:"
	sequenceKey     = "threat_seq"
)

// BadgerStore persists threats in BadgerDB. Each threat is stored under
// its id with a sequence-numbered order key pointing at it.
type BadgerStore struct {
	db     *badger.DB
	seq    *badger.Sequence
	ownsDB bool
}

// NewBadgerStore wraps db. When ownsDB is set Close also closes db.
func NewBadgerStore(db *badger.DB, ownsDB bool) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(sequenceKey), 100)
	if err != nil {
		return nil, fmt.Errorf("get threat sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq, ownsDB: ownsDB}, nil
}

func threatKey(id string) []byte {
	return []byte(threatKeyPrefix + id)
}

func orderKey(n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", orderKeyPrefix, n))
}

// Append adds t.
func (s *BadgerStore) Append(_ context.Context, t *models.Threat) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal threat: %w", err)
	}
	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next threat sequence: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := threatKey(t.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, t.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check threat: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set threat: %w", err)
		}
		if err := txn.Set(orderKey(n), []byte(t.ID)); err != nil {
			return fmt.Errorf("set threat order: %w", err)
		}
		return nil
	})
}

func readThreat(txn *badger.Txn, id string) (*models.Threat, error) {
	item, err := txn.Get(threatKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get threat: %w", err)
	}
	var t models.Threat
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &t)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal threat: %w", err)
	}
	return &t, nil
}

// Get returns the threat with id.
func (s *BadgerStore) Get(_ context.Context, id string) (*models.Threat, error) {
	var t *models.Threat
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		t, err = readThreat(txn, id)
		return err
	})
	return t, err
}

// Update applies fn inside a read-write transaction.
func (s *BadgerStore) Update(_ context.Context, id string, fn func(*models.Threat) error) (*models.Threat, error) {
	var out *models.Threat
	err := s.db.Update(func(txn *badger.Txn) error {
		t, err := readThreat(txn, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		t.ID = id
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal threat: %w", err)
		}
		if err := txn.Set(threatKey(id), data); err != nil {
			return fmt.Errorf("set threat: %w", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List walks the order index and returns threats in append order.
func (s *BadgerStore) List(ctx context.Context, f ListFilter) ([]*models.Threat, error) {
	var all []*models.Threat

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(orderKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var id string
			if err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return fmt.Errorf("read threat order: %w", err)
			}
			t, err := readThreat(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			all = append(all, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list threats: %w", err)
	}
	return applyFilter(all, f), nil
}

// Count returns the number of stored threats.
func (s *BadgerStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(threatKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close releases the sequence and, when owned, the database.
func (s *BadgerStore) Close() error {
	err := s.seq.Release()
	if s.ownsDB {
		if cerr := s.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
