package badger

import (
	"context"
	"errors"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/storage"
	"github.com/dgraph-io/badger/v4"
)

// IngestionRepository implements storage.IngestionRepository for BadgerDB.
type IngestionRepository struct {
	backend *Backend
}

var _ storage.IngestionRepository = (*IngestionRepository)(nil)

// NewIngestionRepository creates a new ingestion record repository.
//
// Returns storage.IngestionRepository interface to enforce abstraction.
func NewIngestionRepository(backend *Backend) (storage.IngestionRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &IngestionRepository{backend: backend}, nil
}

// Put creates or replaces the record for record.DocID.
func (r *IngestionRepository) Put(ctx context.Context, record *storage.IngestionRecord) (*storage.IngestionRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeIngestionKey(record.DocID)
		if err := tx.Set(key, storage.MarshalIngestionRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Get retrieves the record for a document.
func (r *IngestionRepository) Get(ctx context.Context, docID string) (*storage.IngestionRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *storage.IngestionRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIngestionKey(docID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalIngestionRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves all ingestion records, ordered by DocID.
func (r *IngestionRepository) List(ctx context.Context) ([]*storage.IngestionRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var records []*storage.IngestionRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = ingestionScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalIngestionRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the record for a document.
func (r *IngestionRepository) Delete(ctx context.Context, docID string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeIngestionKey(docID)
		if _, err := tx.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		} else if err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close releases repository resources. The underlying backend is shared
// and closed by its owner.
func (r *IngestionRepository) Close() error {
	return nil
}
