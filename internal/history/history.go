// Package history persists observed filesystem events in Badger so the
// change feed survives restarts and can be queried over the API.
package history

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/id"
	"github.com/SublimeIbanez/Overseer/internal/watcher"
)

const keyPrefix = "event:"

// Record is one persisted event.
type Record struct {
	ID   string    `json:"id"`
	Kind string    `json:"kind"`
	Name string    `json:"name"`
	Path string    `json:"path"`
	Time time.Time `json:"time"`
}

// Store wraps a Badger database holding the event history.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens the history database at path. An empty path opens an
// in-memory database, used by tests and the one-shot mode.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
		opts.CompactL0OnClose = true
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.IO("open history db", err)
	}

	logger.Debug("history db opened", "path", path, "in_memory", path == "")
	return &Store{db: db, logger: logger}, nil
}

// Append persists one event and returns the stored record.
func (s *Store) Append(ev watcher.Event) (Record, error) {
	recordID, err := id.Generate("evt")
	if err != nil {
		return Record{}, errors.Wrap(err, errors.CodeInternal, "generate event id")
	}

	when := ev.Time
	if when.IsZero() {
		when = time.Now()
	}

	rec := Record{
		ID:   recordID,
		Kind: ev.Kind.String(),
		Name: ev.Name,
		Path: ev.Path,
		Time: when,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, errors.Wrap(err, errors.CodeInternal, "marshal event record")
	}

	// Keys sort by timestamp so Recent can walk the newest entries with a
	// reverse iterator.
	key := fmt.Sprintf("%s%020d:%s", keyPrefix, when.UnixNano(), recordID)

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return Record{}, errors.IO("write event record", err)
	}
	return rec, nil
}

// HandleEvent implements the watch loop's sink contract.
func (s *Store) HandleEvent(_ context.Context, ev watcher.Event) error {
	_, err := s.Append(ev)
	return err
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	records := make([]Record, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the end of the prefix range.
		seek := append([]byte(keyPrefix), 0xFF)
		for it.Seek(seek); it.Valid() && len(records) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.IO("read event records", err)
	}
	return records, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.IO("close history db", err)
	}
	return nil
}
