package semantic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lightwriter/lightwriter/internal/document"
	"github.com/lightwriter/lightwriter/internal/embedding"
)

// fakeProvider returns a fixed-dimension vector and counts calls.
type fakeProvider struct {
	dims  int
	calls int
	fail  bool
}

func (f *fakeProvider) Embed(ctx context.Context, text string) (embedding.Embedding, error) {
	f.calls++
	if f.fail {
		return embedding.Embedding{}, errors.New("embed failed")
	}
	return embedding.Embedding{Vector: make([]float32, f.dims)}, nil
}

func (f *fakeProvider) ModelName() string { return "fake-model" }
func (f *fakeProvider) Dimensions() int   { return f.dims }

func longDoc(path, hash string) document.Metadata {
	return document.Metadata{
		FilePath: path,
		FileHash: hash,
		Title:    "A sufficiently long document title for embedding purposes",
		Abstract: "An abstract with enough words to pass the length floor easily.",
	}
}

func TestBuilder_Build(t *testing.T) {
	p := &fakeProvider{dims: 4}
	b := NewBuilder(p, nil)
	idx := NewIndex(p.ModelName(), p.Dimensions())

	docs := []document.Metadata{
		longDoc("/papers/a.pdf", "h1"),
		longDoc("/papers/b.pdf", "h2"),
	}

	stats, err := b.Build(context.Background(), idx, docs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if stats.Indexed != 2 {
		t.Errorf("Indexed = %d, want 2", stats.Indexed)
	}
	if len(idx.Entries) != 2 {
		t.Errorf("index has %d entries, want 2", len(idx.Entries))
	}
}

func TestBuilder_SkipsCurrentEntries(t *testing.T) {
	p := &fakeProvider{dims: 4}
	b := NewBuilder(p, nil)
	idx := NewIndex(p.ModelName(), p.Dimensions())

	docs := []document.Metadata{longDoc("/papers/a.pdf", "h1")}

	if _, err := b.Build(context.Background(), idx, docs); err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	firstCalls := p.calls

	stats, err := b.Build(context.Background(), idx, docs)
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	if p.calls != firstCalls {
		t.Errorf("provider called %d more times for unchanged doc", p.calls-firstCalls)
	}
	if stats.Current != 1 {
		t.Errorf("Current = %d, want 1", stats.Current)
	}

	// New hash forces a re-embed.
	docs[0].FileHash = "h2"
	stats, err = b.Build(context.Background(), idx, docs)
	if err != nil {
		t.Fatalf("third Build() error = %v", err)
	}
	if stats.Indexed != 1 {
		t.Errorf("Indexed = %d after hash change, want 1", stats.Indexed)
	}
}

func TestBuilder_SkipsShortContent(t *testing.T) {
	p := &fakeProvider{dims: 4}
	b := NewBuilder(p, nil)
	idx := NewIndex(p.ModelName(), p.Dimensions())

	docs := []document.Metadata{
		{FilePath: "/papers/short.pdf", FileHash: "h1", Title: "Tiny"},
	}

	stats, err := b.Build(context.Background(), idx, docs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times for short document", p.calls)
	}
}

func TestBuilder_DropsRemovedDocuments(t *testing.T) {
	p := &fakeProvider{dims: 4}
	b := NewBuilder(p, nil)
	idx := NewIndex(p.ModelName(), p.Dimensions())

	docs := []document.Metadata{
		longDoc("/papers/a.pdf", "h1"),
		longDoc("/papers/b.pdf", "h2"),
	}
	if _, err := b.Build(context.Background(), idx, docs); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := b.Build(context.Background(), idx, docs[:1]); err != nil {
		t.Fatalf("Build() after removal error = %v", err)
	}
	if _, ok := idx.Entries["/papers/b.pdf"]; ok {
		t.Error("removed document still in index")
	}
}

func TestBuilder_ProviderFailure(t *testing.T) {
	p := &fakeProvider{dims: 4, fail: true}
	b := NewBuilder(p, nil)
	idx := NewIndex(p.ModelName(), p.Dimensions())

	_, err := b.Build(context.Background(), idx, []document.Metadata{longDoc("/papers/a.pdf", "h1")})
	if err == nil {
		t.Error("Build() should propagate provider failure")
	}
}

func TestFlatten(t *testing.T) {
	m := &document.Metadata{
		Title:    "Study Title",
		Abstract: "The abstract.",
		References: []document.Reference{
			{Title: "Ref One"},
			{RawText: "untitled raw reference"},
		},
		Equations: []document.Equation{
			{Content: "E = mc^2", Context: "energy relation"},
		},
		Citations: []document.Citation{
			{Text: "[1]", Context: "as shown in [1]"},
		},
	}

	got := Flatten(m)
	for _, want := range []string{"Study Title", "The abstract.", "Ref One", "E = mc^2", "energy relation", "[1]", "as shown in [1]"} {
		if !strings.Contains(got, want) {
			t.Errorf("Flatten() missing %q", want)
		}
	}
	if strings.Contains(got, "untitled raw reference") {
		t.Error("Flatten() should not include reference raw text")
	}
}

func TestFlatten_Empty(t *testing.T) {
	if got := Flatten(&document.Metadata{}); got != "" {
		t.Errorf("Flatten(empty) = %q, want empty", got)
	}
}
