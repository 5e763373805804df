package history

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"snaps/internal/domain"
)

var bucketConversions = []byte("conversions")

// BoltSink appends conversion records to a bbolt database. The row schema is
// fixed by the history contract: input_post, source_platform,
// target_platform, converted_post, image_url.
type BoltSink struct {
	Path string
}

func NewBoltSink(path string) *BoltSink {
	return &BoltSink{Path: path}
}

// Write appends the given records in order. Sequence keys keep iteration in
// insertion order, so an export after several sessions still reads as one
// chronological log.
func (s *BoltSink) Write(records []domain.ConversionRecord) error {
	db, err := bbolt.Open(s.Path, 0600, nil)
	if err != nil {
		return fmt.Errorf("open history db: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketConversions)
		if err != nil {
			return err
		}
		for _, rec := range records {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(fmt.Sprintf("%010d", seq)), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadAll returns every stored record in insertion order.
func (s *BoltSink) ReadAll() ([]domain.ConversionRecord, error) {
	db, err := bbolt.Open(s.Path, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	defer db.Close()

	var records []domain.ConversionRecord
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketConversions)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec domain.ConversionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode record %s: %w", k, err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
