// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const revokedKeyPrefix = "revoked:"

// BadgerRevocationLedger persists revocations in BadgerDB so logouts
// survive restarts. Entries carry no Badger TTL; PruneExpired removes them.
type BadgerRevocationLedger struct {
	db     *badger.DB
	ownsDB bool
	prefix []byte
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

// NewBadgerRevocationLedger wraps an open database. The caller keeps
// ownership of db.
func NewBadgerRevocationLedger(db *badger.DB) *BadgerRevocationLedger {
	return &BadgerRevocationLedger{
		db:     db,
		prefix: []byte(revokedKeyPrefix),
		now:    time.Now,
	}
}

// OpenBadgerRevocationLedger opens (or creates) a database at path. Close
// closes the database.
func OpenBadgerRevocationLedger(path string) (*BadgerRevocationLedger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open revocation store: %w", err)
	}

	l := NewBadgerRevocationLedger(db)
	l.ownsDB = true
	return l, nil
}

func (l *BadgerRevocationLedger) makeKey(jti string) []byte {
	return append(append([]byte{}, l.prefix...), jti...)
}

func (l *BadgerRevocationLedger) isClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

func (l *BadgerRevocationLedger) Revoke(ctx context.Context, entry *RevokedToken) error {
	if entry == nil || entry.JTI == "" {
		return fmt.Errorf("revoke: jti is required")
	}
	if l.isClosed() {
		return ErrLedgerClosed
	}

	stored := *entry
	if stored.RevokedAt.IsZero() {
		stored.RevokedAt = l.now()
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal revoked token: %w", err)
	}

	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(l.makeKey(entry.JTI), data)
	})
}

func (l *BadgerRevocationLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if l.isClosed() {
		return false, ErrLedgerClosed
	}

	revoked := false
	err := l.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(l.makeKey(jti))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return revoked, nil
}

func (l *BadgerRevocationLedger) PruneExpired(ctx context.Context) (int, error) {
	if l.isClosed() {
		return 0, ErrLedgerClosed
	}

	now := l.now()
	var expired [][]byte

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = l.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var entry RevokedToken
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				continue
			}
			if entry.ExpiresAt.Before(now) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan revoked tokens: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	wb := l.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range expired {
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("delete revoked token: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush revoked token deletes: %w", err)
	}
	return len(expired), nil
}

func (l *BadgerRevocationLedger) Size(ctx context.Context) (int, error) {
	if l.isClosed() {
		return 0, ErrLedgerClosed
	}

	count := 0
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = l.prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (l *BadgerRevocationLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.ownsDB {
		return l.db.Close()
	}
	return nil
}
