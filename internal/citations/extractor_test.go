package citations

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/lightwriter/lightwriter/internal/document"
)

func newTestExtractor(opts ...Option) *Extractor {
	return NewExtractor(zap.NewNop(), opts...)
}

func TestExtractNumericCitations(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantText       string
		wantNormalized string
		wantRefID      string
	}{
		{
			name:           "single bracket",
			text:           "Text [1] more text",
			wantText:       "[1]",
			wantNormalized: "1",
			wantRefID:      "ref_1",
		},
		{
			name:           "comma separated",
			text:           "As shown in [3,1,2] earlier.",
			wantText:       "[3,1,2]",
			wantNormalized: "1,2,3",
			wantRefID:      "ref_1",
		},
		{
			name:           "space separated",
			text:           "Results [4 7] agree.",
			wantText:       "[4 7]",
			wantNormalized: "4,7",
			wantRefID:      "ref_4",
		},
		{
			name:           "parenthesized",
			text:           "see (12) for details",
			wantText:       "(12)",
			wantNormalized: "12",
			wantRefID:      "ref_12",
		},
		{
			name:           "four digit token dropped within group",
			text:           "mixed [2, 2023] group",
			wantText:       "[2, 2023]",
			wantNormalized: "2",
			wantRefID:      "ref_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cits := newTestExtractor().Extract(tt.text, nil)
			if len(cits) != 1 {
				t.Fatalf("Extract() returned %d citations, want 1: %+v", len(cits), cits)
			}
			cit := cits[0]
			if cit.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", cit.Text, tt.wantText)
			}
			if cit.CitationType != document.CitationNumeric {
				t.Errorf("CitationType = %q, want numeric", cit.CitationType)
			}
			if cit.NormalizedText != tt.wantNormalized {
				t.Errorf("NormalizedText = %q, want %q", cit.NormalizedText, tt.wantNormalized)
			}
			if cit.ReferenceID != tt.wantRefID {
				t.Errorf("ReferenceID = %q, want %q", cit.ReferenceID, tt.wantRefID)
			}
		})
	}
}

func TestBareYearNotEmitted(t *testing.T) {
	// A standalone 4-digit number is indistinguishable from a bare year.
	for _, text := range []string{"Published in (2023) by", "during [1999] the"} {
		if cits := newTestExtractor().Extract(text, nil); len(cits) != 0 {
			t.Errorf("Extract(%q) = %+v, want no citations", text, cits)
		}
	}
}

func TestExtractAuthorYearCitations(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantNormalized string
	}{
		{
			name:           "author et al with year",
			text:           "Smith et al. (2023) showed that",
			wantNormalized: "smith_et_al_2023",
		},
		{
			name:           "plain author year",
			text:           "Jones (2019) argued",
			wantNormalized: "jones_2019",
		},
		{
			name:           "parenthesized author year",
			text:           "as argued before (Smith et al., 2023)",
			wantNormalized: "smith_et_al_2023",
		},
		{
			name:           "parenthesized plain",
			text:           "previously shown (Doe, 2001)",
			wantNormalized: "doe_2001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cits := newTestExtractor().Extract(tt.text, nil)
			if len(cits) != 1 {
				t.Fatalf("Extract() returned %d citations, want 1: %+v", len(cits), cits)
			}
			cit := cits[0]
			if cit.CitationType != document.CitationAuthorYear {
				t.Errorf("CitationType = %q, want author-year", cit.CitationType)
			}
			if cit.NormalizedText != tt.wantNormalized {
				t.Errorf("NormalizedText = %q, want %q", cit.NormalizedText, tt.wantNormalized)
			}
			if cit.ReferenceID != tt.wantNormalized {
				t.Errorf("ReferenceID = %q, want provisional key %q", cit.ReferenceID, tt.wantNormalized)
			}
		})
	}
}

func TestEquationSpanExclusion(t *testing.T) {
	// x_[1] style subscripts inside the equation must not become citations,
	// while the [1] after the equation must survive.
	text := "$$y = x[1] + x[2]$$ holds [1] as shown"
	spans := []document.Span{{Start: 0, End: 19}}

	cits := newTestExtractor().Extract(text, spans)
	if len(cits) != 1 {
		t.Fatalf("Extract() returned %d citations, want 1: %+v", len(cits), cits)
	}
	if cits[0].Location.Start < 19 {
		t.Errorf("citation at %d lies inside the equation span", cits[0].Location.Start)
	}
	if cits[0].NormalizedText != "1" {
		t.Errorf("NormalizedText = %q, want %q", cits[0].NormalizedText, "1")
	}
}

func TestContextWindow(t *testing.T) {
	pad := strings.Repeat("a", 200)
	text := pad + " [1] " + pad
	cits := newTestExtractor(WithContextWindow(10)).Extract(text, nil)
	if len(cits) != 1 {
		t.Fatalf("Extract() returned %d citations, want 1", len(cits))
	}
	// 10 chars each side plus the match itself.
	if got := len(cits[0].Context); got > 25 {
		t.Errorf("context length = %d, want <= 25", got)
	}
	if !strings.Contains(cits[0].Context, "[1]") {
		t.Errorf("Context = %q, missing the match", cits[0].Context)
	}
}

func TestNormalizeAuthorYear(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Smith et al. (2023)", "smith_et_al_2023"},
		{"(Smith et al., 2023)", "smith_et_al_2023"},
		{"Jones (2019)", "jones_2019"},
		{"(Doe, 2001)", "doe_2001"},
	}
	for _, tt := range tests {
		if got := NormalizeAuthorYear(tt.input); got != tt.want {
			t.Errorf("NormalizeAuthorYear(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
