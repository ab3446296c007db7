package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

type fakeLibrary struct {
	mu          sync.Mutex
	papers      map[string]types.Paper
	submissions map[string]types.Submission
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		papers:      make(map[string]types.Paper),
		submissions: make(map[string]types.Submission),
	}
}

func (f *fakeLibrary) UpsertPaper(ctx context.Context, p types.Paper) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.papers[p.ID] = p
	return nil
}

func (f *fakeLibrary) CreateSubmission(ctx context.Context, sub types.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions[sub.ID] = sub
	return nil
}

func (f *fakeLibrary) SetSubmissionStatus(ctx context.Context, id string, next types.SubmissionStatus, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.submissions[id]
	if !ok {
		return errors.New("unknown submission")
	}
	if !sub.Status.CanTransitionTo(next) {
		return errors.New("illegal transition")
	}
	sub.Status = next
	sub.Error = errMsg
	f.submissions[id] = sub
	return nil
}

func (f *fakeLibrary) submission(t *testing.T, id string) types.Submission {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.submissions[id]
	if !ok {
		t.Fatalf("submission %s not recorded", id)
	}
	return sub
}

func (f *fakeLibrary) paper(id string) (types.Paper, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.papers[id]
	return p, ok
}

type fakeMetadata struct {
	paper types.Paper
	err   error
}

func (f *fakeMetadata) FetchMetadata(ctx context.Context, arxivID string) (types.Paper, error) {
	if f.err != nil {
		return types.Paper{}, f.err
	}
	p := f.paper
	p.ID = arxivID
	return p, nil
}

type fakeExtractor struct {
	extraction Extraction
	err        error
}

func (f *fakeExtractor) Extract(ctx context.Context, paper types.Paper) (Extraction, error) {
	return f.extraction, f.err
}

func TestSubmitProcessesToCompletion(t *testing.T) {
	lib := newFakeLibrary()
	meta := &fakeMetadata{paper: types.Paper{Title: "A Paper", Abstract: "An abstract.", Year: 2023}}
	extractor := &fakeExtractor{extraction: Extraction{
		Contribution: "Does a thing.",
		Tasks:        []string{"Classification"},
		CodeLinks:    []string{"https://github.com/example/repo"},
	}}

	p, err := NewPipeline(lib, meta, types.IngestConfig{Workers: 1}, WithExtractor(extractor))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	sub, err := p.Submit(context.Background(), "2301.07041")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != types.SubmissionPending {
		t.Errorf("initial status = %s, want pending", sub.Status)
	}
	p.Wait()

	got := lib.submission(t, sub.ID)
	if got.Status != types.SubmissionCompleted {
		t.Fatalf("status = %s (%s), want completed", got.Status, got.Error)
	}

	paper, ok := lib.paper("2301.07041")
	if !ok {
		t.Fatal("paper was not persisted")
	}
	if paper.Contribution != "Does a thing." || !paper.HasCode() {
		t.Errorf("extraction not applied: %+v", paper)
	}
}

func TestSubmitRejectsInvalidID(t *testing.T) {
	p, err := NewPipeline(newFakeLibrary(), &fakeMetadata{}, types.IngestConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if _, err := p.Submit(context.Background(), "not-an-id"); !errors.Is(err, ErrInvalidArxivID) {
		t.Errorf("err = %v, want ErrInvalidArxivID", err)
	}
}

func TestMetadataFailureFailsJob(t *testing.T) {
	lib := newFakeLibrary()
	meta := &fakeMetadata{err: errors.New("arXiv unreachable")}

	p, err := NewPipeline(lib, meta, types.IngestConfig{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	sub, err := p.Submit(context.Background(), "2301.07041")
	if err != nil {
		t.Fatal(err)
	}
	p.Wait()

	got := lib.submission(t, sub.ID)
	if got.Status != types.SubmissionFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.Error == "" {
		t.Error("failed submission should carry an error message")
	}
	if _, ok := lib.paper("2301.07041"); ok {
		t.Error("no paper should be persisted when metadata fetch fails")
	}
}

func TestExtractionFailureStillCompletes(t *testing.T) {
	lib := newFakeLibrary()
	meta := &fakeMetadata{paper: types.Paper{Title: "A Paper", Abstract: "An abstract.", Year: 2023}}
	extractor := &fakeExtractor{err: errors.New("model overloaded")}

	p, err := NewPipeline(lib, meta, types.IngestConfig{Workers: 1}, WithExtractor(extractor))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	sub, err := p.Submit(context.Background(), "2301.07041")
	if err != nil {
		t.Fatal(err)
	}
	p.Wait()

	got := lib.submission(t, sub.ID)
	if got.Status != types.SubmissionCompleted {
		t.Fatalf("status = %s, want completed despite extraction failure", got.Status)
	}

	paper, ok := lib.paper("2301.07041")
	if !ok {
		t.Fatal("paper was not persisted")
	}
	if paper.Title != "A Paper" || paper.Contribution != "" {
		t.Errorf("paper = %+v, want bare arXiv metadata", paper)
	}
}
