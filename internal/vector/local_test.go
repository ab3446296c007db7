package vector

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/JosephJoshua/onepaper/internal/store"
)

type memorySource struct {
	embeddings []store.StoredEmbedding
	err        error
}

func (m *memorySource) AllEmbeddings(ctx context.Context) ([]store.StoredEmbedding, error) {
	return m.embeddings, m.err
}

func (m *memorySource) PutEmbedding(ctx context.Context, paperID string, vector []float32) error {
	for i, e := range m.embeddings {
		if e.PaperID == paperID {
			m.embeddings[i].Vector = vector
			return nil
		}
	}
	m.embeddings = append(m.embeddings, store.StoredEmbedding{PaperID: paperID, Vector: vector})
	return nil
}

func TestLocalNearestOrdersBySimilarity(t *testing.T) {
	src := &memorySource{embeddings: []store.StoredEmbedding{
		{PaperID: "a", Vector: []float32{1, 0}},
		{PaperID: "b", Vector: []float32{0, 1}},
		{PaperID: "c", Vector: []float32{1, 1}},
	}}
	idx := NewLocalIndex(src)

	neighbors, err := idx.Nearest(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(neighbors) != 3 {
		t.Fatalf("len = %d, want 3", len(neighbors))
	}
	if neighbors[0].PaperID != "a" || neighbors[1].PaperID != "c" || neighbors[2].PaperID != "b" {
		t.Errorf("order = %v, want a, c, b", neighbors)
	}
	if neighbors[0].Similarity < 0.999 {
		t.Errorf("identical vector similarity = %f, want ~1", neighbors[0].Similarity)
	}
	if neighbors[2].Similarity != 0 {
		t.Errorf("orthogonal vector similarity = %f, want 0", neighbors[2].Similarity)
	}
}

func TestLocalNearestTruncatesToK(t *testing.T) {
	src := &memorySource{embeddings: []store.StoredEmbedding{
		{PaperID: "a", Vector: []float32{1, 0}},
		{PaperID: "b", Vector: []float32{0.9, 0.1}},
		{PaperID: "c", Vector: []float32{0.5, 0.5}},
	}}
	idx := NewLocalIndex(src)

	neighbors, err := idx.Nearest(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(neighbors) != 2 {
		t.Errorf("len = %d, want 2", len(neighbors))
	}

	neighbors, err = idx.Nearest(context.Background(), []float32{1, 0}, 0)
	if err != nil || neighbors != nil {
		t.Errorf("k=0 should return nothing, got %v, %v", neighbors, err)
	}
}

func TestLocalNearestPropagatesSourceError(t *testing.T) {
	src := &memorySource{err: errors.New("disk gone")}
	idx := NewLocalIndex(src)

	if _, err := idx.Nearest(context.Background(), []float32{1}, 5); err == nil {
		t.Error("expected error from failing source")
	}
}

func TestLocalUpsertThenNearest(t *testing.T) {
	src := &memorySource{}
	idx := NewLocalIndex(src)
	ctx := context.Background()

	if err := idx.Upsert(ctx, "a", []float32{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Upsert(ctx, "a", []float32{1, 0}); err != nil {
		t.Fatal(err)
	}

	neighbors, err := idx.Nearest(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(neighbors) != 1 || neighbors[0].PaperID != "a" || neighbors[0].Similarity < 0.999 {
		t.Errorf("neighbors = %v, want the replaced vector for a", neighbors)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float32
		want    float64
		wantErr bool
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1, false},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0, false},
		{"opposite clamps to zero", []float32{1, 0}, []float32{-1, 0}, 0, false},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0, false},
		{"dimension mismatch", []float32{1}, []float32{1, 2}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cosineSimilarity(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}
