package rank

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// --- mock sources ---

type staticCandidates struct {
	papers []types.Paper
	err    error
}

func (s *staticCandidates) ListCandidates(_ context.Context, _ Filters) ([]types.Paper, error) {
	return s.papers, s.err
}

type stubSemantic struct {
	neighbors  []Neighbor
	embedErr   error
	nearestErr error
	lastK      int
	embedCalls int
}

func (s *stubSemantic) Embed(_ context.Context, _ string) ([]float32, error) {
	s.embedCalls++
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubSemantic) Nearest(_ context.Context, _ []float32, k int) ([]Neighbor, error) {
	s.lastK = k
	if s.nearestErr != nil {
		return nil, s.nearestErr
	}
	return s.neighbors, nil
}

func testPapers() []types.Paper {
	return []types.Paper{
		{ID: "A", Title: "Graph Neural Networks", Abstract: "Message passing on graphs.", Year: 2021},
		{ID: "B", Title: "Transformers", Abstract: "A graph based attention model.", Year: 2022},
		{ID: "C", Title: "Vision", Abstract: "Convolutional baselines.", Year: 2020},
	}
}

func newTestEngine(t *testing.T, papers []types.Paper, semantic SemanticSource) *Engine {
	t.Helper()
	e, err := NewEngine(&staticCandidates{papers: papers}, semantic, types.SearchConfig{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func resultIDs(r Result) []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// --- constructor ---

func TestNewEngineRequiresCandidateSource(t *testing.T) {
	_, err := NewEngine(nil, nil, types.SearchConfig{})
	if !errors.Is(err, ErrCandidateSourceRequired) {
		t.Errorf("err = %v, want ErrCandidateSourceRequired", err)
	}
}

// --- tier dominance ---

func TestTierDominance(t *testing.T) {
	// B and C get much higher similarity than A, but A matches the query
	// in the title and must still rank first.
	semantic := &stubSemantic{neighbors: []Neighbor{
		{PaperID: "C", Similarity: 0.99},
		{PaperID: "B", Similarity: 0.95},
	}}

	e := newTestEngine(t, testPapers(), semantic)
	got, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

func TestTitleMatchOutsideSemanticTopK(t *testing.T) {
	// A is absent from the semantic results entirely (similarity 0) yet
	// outranks every lower-tier paper.
	semantic := &stubSemantic{neighbors: []Neighbor{
		{PaperID: "B", Similarity: 1.0},
		{PaperID: "C", Similarity: 1.0},
	}}

	e := newTestEngine(t, testPapers(), semantic)
	got, err := e.Search(context.Background(), Request{Query: "graph neural networks", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resultIDs(got)[0] != "A" {
		t.Errorf("first result = %q, want A (title tier dominates)", resultIDs(got)[0])
	}
}

// --- similarity ordering within a tier ---

func TestSimilarityOrdersWithinTier(t *testing.T) {
	papers := []types.Paper{
		{ID: "x", Title: "Deep Graph Kernels", Year: 2020},
		{ID: "y", Title: "Graph Attention", Year: 2020},
		{ID: "z", Title: "Graph Sampling", Year: 2020},
	}
	semantic := &stubSemantic{neighbors: []Neighbor{
		{PaperID: "z", Similarity: 0.9},
		{PaperID: "x", Similarity: 0.7},
	}}

	e := newTestEngine(t, papers, semantic)
	got, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// All three are TierTitle; z (0.9) > x (0.7) > y (absent, 0).
	want := []string{"z", "x", "y"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

func TestIdentifierBreaksExactTies(t *testing.T) {
	papers := []types.Paper{
		{ID: "b", Title: "Graph Two"},
		{ID: "a", Title: "Graph One"},
		{ID: "c", Title: "Graph Three"},
	}
	semantic := &stubSemantic{neighbors: []Neighbor{
		{PaperID: "a", Similarity: 0.5},
		{PaperID: "b", Similarity: 0.5},
		{PaperID: "c", Similarity: 0.5},
	}}

	e := newTestEngine(t, papers, semantic)
	got, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

// --- determinism ---

func TestDeterminism(t *testing.T) {
	semantic := &stubSemantic{neighbors: []Neighbor{
		{PaperID: "B", Similarity: 0.8},
		{PaperID: "A", Similarity: 0.6},
	}}
	e := newTestEngine(t, testPapers(), semantic)

	req := Request{Query: "graph", Page: 1, PerPage: 10}
	first, err := e.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("Search (repeat %d): %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("repeat %d produced a different result:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

// --- degraded mode ---

func TestDegradedModeEmbedFailure(t *testing.T) {
	semantic := &stubSemantic{embedErr: fmt.Errorf("embedding server unreachable")}
	e := newTestEngine(t, testPapers(), semantic)

	got, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search must not fail when the semantic signal is lost: %v", err)
	}

	// Pure keyword-tier ordering with ID tie-break: A (title), B (abstract), C (none).
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

func TestDegradedModeNearestFailure(t *testing.T) {
	semantic := &stubSemantic{nearestErr: fmt.Errorf("vector index down")}
	e := newTestEngine(t, testPapers(), semantic)

	got, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

func TestNilSemanticSource(t *testing.T) {
	e := newTestEngine(t, testPapers(), nil)
	got, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

// --- empty query (browse mode) ---

func TestEmptyQueryBrowseOrder(t *testing.T) {
	semantic := &stubSemantic{neighbors: []Neighbor{{PaperID: "C", Similarity: 0.99}}}
	e := newTestEngine(t, testPapers(), semantic)

	for _, query := range []string{"", "   ", "\t\n"} {
		got, err := e.Search(context.Background(), Request{Query: query, Page: 1, PerPage: 10})
		if err != nil {
			t.Fatalf("Search(%q): %v", query, err)
		}

		// Year descending, ID ascending: B (2022), A (2021), C (2020).
		want := []string{"B", "A", "C"}
		if !reflect.DeepEqual(resultIDs(got), want) {
			t.Errorf("Search(%q) order = %v, want %v", query, resultIDs(got), want)
		}
	}
	if semantic.embedCalls != 0 {
		t.Errorf("embed called %d times for browse requests, want 0", semantic.embedCalls)
	}
}

func TestEmptyQuerySameYearTieBreak(t *testing.T) {
	papers := []types.Paper{
		{ID: "2", Year: 2021},
		{ID: "1", Year: 2021},
		{ID: "3", Year: 2021},
	}
	e := newTestEngine(t, papers, nil)
	got, err := e.Search(context.Background(), Request{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

// --- validation ---

func TestSearchInvalidPagination(t *testing.T) {
	e := newTestEngine(t, testPapers(), nil)
	tests := []struct {
		name    string
		page    int
		perPage int
	}{
		{"zero page", 0, 10},
		{"negative page", -1, 10},
		{"zero per_page", 1, 0},
		{"negative per_page", 1, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Search(context.Background(), Request{Query: "q", Page: tt.page, PerPage: tt.perPage})
			if !errors.Is(err, ErrInvalidPagination) {
				t.Errorf("err = %v, want ErrInvalidPagination", err)
			}
		})
	}
}

func TestSearchPropagatesCandidateSourceError(t *testing.T) {
	src := &staticCandidates{err: fmt.Errorf("database locked")}
	e, err := NewEngine(src, nil, types.SearchConfig{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.Search(context.Background(), Request{Query: "q", Page: 1, PerPage: 10}); err == nil {
		t.Error("expected candidate source error to propagate")
	}
}

// --- filters ---

func TestSearchHasCodeFilter(t *testing.T) {
	papers := testPapers()
	papers[0].CodeLinks = []string{"https://github.com/example/gnn"}

	hasCode := true
	e := newTestEngine(t, papers, nil)
	got, err := e.Search(context.Background(), Request{
		Query:   "graph",
		Filters: Filters{HasCode: &hasCode},
		Page:    1,
		PerPage: 10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(resultIDs(got), []string{"A"}) {
		t.Errorf("filtered order = %v, want [A]", resultIDs(got))
	}
	if got.TotalItems != 1 || got.TotalPages != 1 {
		t.Errorf("TotalItems = %d, TotalPages = %d, want 1 and 1", got.TotalItems, got.TotalPages)
	}
}

// --- semantic k sizing ---

func TestSemanticKScalesWithPageSize(t *testing.T) {
	semantic := &stubSemantic{}
	e := newTestEngine(t, testPapers(), semantic)

	if _, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 20}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if semantic.lastK != 100 {
		t.Errorf("k = %d, want 100 (5x per_page)", semantic.lastK)
	}

	if _, err := e.Search(context.Background(), Request{Query: "graph", Page: 1, PerPage: 2}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if semantic.lastK != 50 {
		t.Errorf("k = %d, want the floor of 50 for small pages", semantic.lastK)
	}
}
