package pdf

import "testing"

func TestFindIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		wantType string
		found    bool
	}{
		{
			name:     "plain DOI",
			text:     "Available at https://doi.org/10.1234/example.2023.001 online.",
			want:     "10.1234/example.2023.001",
			wantType: IdentifierDOI,
			found:    true,
		},
		{
			name:     "DOI with trailing punctuation",
			text:     "See 10.1038/nature12373. for details",
			want:     "10.1038/nature12373",
			wantType: IdentifierDOI,
			found:    true,
		},
		{
			name:     "arxiv with colon prefix",
			text:     "Preprint arXiv:2301.04567v2 [cs.LG]",
			want:     "2301.04567",
			wantType: IdentifierArXiv,
			found:    true,
		},
		{
			name:     "bare arxiv id",
			text:     "identifier 2301.04567 appears here",
			want:     "2301.04567",
			wantType: IdentifierArXiv,
			found:    true,
		},
		{
			name:     "DOI preferred over arxiv",
			text:     "arXiv:2301.04567 and doi 10.1234/abc.def",
			want:     "10.1234/abc.def",
			wantType: IdentifierDOI,
			found:    true,
		},
		{
			name:  "no identifier",
			text:  "Just some prose with numbers like 12.34 and 2023.",
			found: false,
		},
		{
			name:  "empty text",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found := FindIdentifier(tt.text)
			if found != tt.found {
				t.Fatalf("FindIdentifier() found = %v, want %v", found, tt.found)
			}
			if !found {
				return
			}
			if id.Value != tt.want {
				t.Errorf("Value = %q, want %q", id.Value, tt.want)
			}
			if id.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", id.Type, tt.wantType)
			}
		})
	}
}

func TestNormalizeArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2301.04567", "2301.04567"},
		{"2301.04567v2", "2301.04567"},
		{"arXiv:2301.04567", "2301.04567"},
		{"arxiv.2301.04567v1", "2301.04567"},
		{"  2301.04567  ", "2301.04567"},
		{"2301.04567vabc", "2301.04567vabc"}, // non-numeric suffix kept
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeArxivID(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeArxivID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1234/example.2023", true},
		{"10.1038/nature12373", true},
		{"10.1234/", false},
		{"11.1234/example", false},
		{"10.12/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.doi, func(t *testing.T) {
			if got := isValidDOI(tt.doi); got != tt.want {
				t.Errorf("isValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
			}
		})
	}
}
