package index

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"snaps/internal/domain"
	"snaps/internal/port"
)

var (
	bucketMeta    = []byte("meta")
	bucketEntries = []byte("entries")
	keyMeta       = []byte("info")
)

// ErrModelMismatch means the persisted index was built with a different
// embedding model; the caller should rebuild from the corpus.
var ErrModelMismatch = errors.New("persisted index built with a different embedding model")

type indexMeta struct {
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
	Count     int    `json:"count"`
}

type storedEntry struct {
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	StartIndex int       `json:"start_index"`
	Vector     []float32 `json:"vector"`
}

// Save persists the built index so a restart does not have to re-embed the
// corpus. The file is replaced wholesale; entries are never mutated in place.
func (ix *MemoryIndex) Save(path string) error {
	if !ix.built {
		return errors.New("cannot save an index that has not been built")
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return fmt.Errorf("open index db: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketEntries} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		meta := indexMeta{
			Model:     ix.embedder.ModelName(),
			Dimension: ix.embedder.Dimension(),
			Count:     len(ix.chunks),
		}
		metaData, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketMeta).Put(keyMeta, metaData); err != nil {
			return err
		}

		entries := tx.Bucket(bucketEntries)
		for i, chunk := range ix.chunks {
			entry := storedEntry{
				Content:    chunk.Content,
				Source:     chunk.Source,
				StartIndex: chunk.StartIndex,
				Vector:     ix.vectors[i],
			}
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			if err := entries.Put(entryKey(i), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadFromBolt restores a previously saved index. The embedder must be the
// one that built it; a model mismatch returns ErrModelMismatch so the caller
// can rebuild instead of mixing vector spaces.
func LoadFromBolt(path string, embedder port.Embedder) (*MemoryIndex, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	defer db.Close()

	ix := NewMemoryIndex(embedder)

	err = db.View(func(tx *bbolt.Tx) error {
		metaBucket := tx.Bucket(bucketMeta)
		entries := tx.Bucket(bucketEntries)
		if metaBucket == nil || entries == nil {
			return errors.New("index db has no index data")
		}

		var meta indexMeta
		if err := json.Unmarshal(metaBucket.Get(keyMeta), &meta); err != nil {
			return fmt.Errorf("decode index meta: %w", err)
		}
		if meta.Model != embedder.ModelName() {
			return ErrModelMismatch
		}

		ix.chunks = make([]domain.Chunk, 0, meta.Count)
		ix.vectors = make([][]float32, 0, meta.Count)

		// Keys are zero-padded, so iteration order is build order.
		return entries.ForEach(func(k, v []byte) error {
			var entry storedEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode index entry %s: %w", k, err)
			}
			ix.chunks = append(ix.chunks, domain.Chunk{
				Content:    entry.Content,
				Source:     entry.Source,
				StartIndex: entry.StartIndex,
			})
			ix.vectors = append(ix.vectors, entry.Vector)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	ix.built = true
	return ix, nil
}

func entryKey(i int) []byte {
	return []byte(fmt.Sprintf("%010d", i))
}
