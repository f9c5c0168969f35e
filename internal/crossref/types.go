// Package crossref provides a rate-limited client for the Crossref works
// API, used to look up the bibliography of a document by DOI.
package crossref

// worksResponse is the top-level Crossref works payload.
type worksResponse struct {
	Status  string       `json:"status"`
	Message worksMessage `json:"message"`
}

type worksMessage struct {
	DOI       string         `json:"DOI"`
	Reference []RawReference `json:"reference"`
}

// RawReference is one loosely-typed reference record as returned by
// Crossref. Fields are frequently missing or inconsistent; mapping into the
// domain model is defensive per entry.
type RawReference struct {
	Key          string `json:"key"`
	ArticleTitle string `json:"article-title"`
	Title        string `json:"title"`
	Author       string `json:"author"` // " and "-joined author string
	Year         string `json:"year"`
	DOI          string `json:"DOI"`
	Unstructured string `json:"unstructured"`
}
