// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

// StoredEmbedding pairs a paper ID with its persisted vector.
type StoredEmbedding struct {
	PaperID string
	Vector  []float32
}

// PutEmbedding persists a paper's embedding vector, replacing any
// previous one. Vectors are stored as little-endian float32 blobs.
func (s *Store) PutEmbedding(ctx context.Context, paperID string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty embedding for paper %s", paperID)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO embeddings (paper_id, dim, vector) VALUES (?, ?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET dim=excluded.dim, vector=excluded.vector`,
		paperID, len(vector), encodeVector(vector))
	if err != nil {
		return fmt.Errorf("storing embedding for %s: %w", paperID, err)
	}
	return nil
}

// AllEmbeddings returns every stored embedding, ordered by paper ID.
func (s *Store) AllEmbeddings(ctx context.Context) ([]StoredEmbedding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, dim, vector FROM embeddings ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("listing embeddings: %w", err)
	}
	defer rows.Close()

	var all []StoredEmbedding
	for rows.Next() {
		var e StoredEmbedding
		var dim int
		var blob []byte
		if err := rows.Scan(&e.PaperID, &dim, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		e.Vector, err = decodeVector(blob, dim)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", e.PaperID, err)
		}
		all = append(all, e)
	}
	return all, rows.Err()
}

func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte, dim int) ([]float32, error) {
	if len(blob) != 4*dim {
		return nil, fmt.Errorf("blob length %d does not match dimension %d", len(blob), dim)
	}
	vector := make([]float32, dim)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}
