package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"bkds/internal/domain"
)

// voiceSearchPrefix namespaces voice search keys. Format: voice:{id}
const voiceSearchPrefix = "voice:"

// BadgerRepository implements the Repository interface using BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

var _ Repository = (*BadgerRepository)(nil)

// NewBadgerRepository opens (or creates) the BadgerDB database at dbPath.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.WithField("path", dbPath).Info("BadgerDB opened")

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the BadgerDB database connection.
func (r *BadgerRepository) Close() error {
	r.log.Info("Closing BadgerDB...")
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed.")
	return nil
}

func voiceSearchKey(id string) []byte {
	return []byte(voiceSearchPrefix + id)
}

// SaveVoiceSearch stores or replaces a voice search.
func (r *BadgerRepository) SaveVoiceSearch(ctx context.Context, vs domain.VoiceSearch) error {
	log := r.log.WithField("id", vs.ID)

	if vs.ID == "" {
		return errors.New("voice search has no id")
	}
	if vs.ReceivedAt.IsZero() {
		vs.ReceivedAt = time.Now()
	}

	b, err := json.Marshal(vs)
	if err != nil {
		log.WithError(err).Error("Failed to marshal voice search")
		return fmt.Errorf("failed to marshal voice search: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(voiceSearchKey(vs.ID), b))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save voice search to BadgerDB")
		return fmt.Errorf("failed to save voice search: %w", err)
	}

	log.Info("Voice search saved")
	return nil
}

// ListVoiceSearches returns stored voice searches, newest first.
func (r *BadgerRepository) ListVoiceSearches(ctx context.Context, limit int) ([]domain.VoiceSearch, error) {
	var out []domain.VoiceSearch

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(voiceSearchPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var vs domain.VoiceSearch
				if err := json.Unmarshal(val, &vs); err != nil {
					return fmt.Errorf("failed to unmarshal voice search at key %s: %w", item.Key(), err)
				}
				out = append(out, vs)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to list voice searches")
		return nil, fmt.Errorf("failed to list voice searches: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteVoiceSearch removes a voice search. Deleting an unknown ID is not an error.
func (r *BadgerRepository) DeleteVoiceSearch(ctx context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(voiceSearchKey(id))
	})
	if err != nil {
		r.log.WithError(err).WithField("id", id).Error("Failed to delete voice search")
		return fmt.Errorf("failed to delete voice search %s: %w", id, err)
	}
	return nil
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
