package anystyle

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lightwriter/lightwriter/internal/document"
)

// FlexibleString unmarshals from a string, a number, or a list of either
// (taking the first element). Anystyle wraps most fields in single-element
// lists but is not consistent about it.
type FlexibleString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	var list []FlexibleString
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*f = list[0]
		} else {
			*f = ""
		}
		return nil
	}

	// Unrecognized shape degrades to empty rather than failing the entry.
	*f = ""
	return nil
}

func (f FlexibleString) String() string {
	return string(f)
}

// AuthorField is one parsed author: either a {given, family} object or a
// bare name string.
type AuthorField struct {
	Given  string
	Family string
	Raw    string
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AuthorField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Raw = s
		return nil
	}

	var obj struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		a.Given = obj.Given
		a.Family = obj.Family
		return nil
	}

	return nil
}

// FullName assembles the author's display name.
func (a AuthorField) FullName() string {
	if a.Raw != "" {
		return a.Raw
	}
	return strings.TrimSpace(a.Given + " " + a.Family)
}

// AuthorList unmarshals from a list of authors, a single author object, or
// a bare string.
type AuthorList []AuthorField

// UnmarshalJSON implements json.Unmarshaler.
func (l *AuthorList) UnmarshalJSON(data []byte) error {
	var list []AuthorField
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single AuthorField
	if err := json.Unmarshal(data, &single); err == nil {
		*l = AuthorList{single}
		return nil
	}

	*l = nil
	return nil
}

// Entry is one structured reference as produced by anystyle.
type Entry struct {
	Title    FlexibleString `json:"title"`
	Author   AuthorList     `json:"author"`
	Year     FlexibleString `json:"year"`
	Original FlexibleString `json:"original"`
}

// MapEntry converts an anystyle entry into a domain Reference. Malformed
// individual fields are tolerated per entry; an entry with neither title
// nor original text is unmappable and returns false.
func MapEntry(e Entry) (document.Reference, bool) {
	ref := document.Reference{
		Title:   e.Title.String(),
		RawText: e.Original.String(),
	}

	for _, af := range e.Author {
		name := af.FullName()
		if name == "" {
			continue
		}
		author, err := document.NewAuthor(name)
		if err != nil {
			continue
		}
		if af.Family != "" {
			author.Given = af.Given
			author.Family = af.Family
		}
		ref.Authors = append(ref.Authors, author)
	}

	if y := strings.TrimSpace(e.Year.String()); y != "" {
		if year, err := strconv.Atoi(y); err == nil && document.ValidateYear(year) == nil {
			ref.Year = year
		}
	}

	if ref.Title == "" && ref.RawText == "" {
		return document.Reference{}, false
	}
	return ref, true
}

// MapEntries converts a batch of entries, skipping unmappable ones.
func MapEntries(entries []Entry) ([]document.Reference, int) {
	refs := make([]document.Reference, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		ref, ok := MapEntry(e)
		if !ok {
			skipped++
			continue
		}
		refs = append(refs, ref)
	}
	return refs, skipped
}
