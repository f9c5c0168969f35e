package semantic

import (
	"math"
	"sort"
)

// SearchResult is a document found by similarity search.
type SearchResult struct {
	FilePath   string  `json:"file_path"`
	Similarity float32 `json:"similarity"`
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}
	return dot / denominator
}

// Search finds documents similar to a query embedding, sorted by
// similarity descending and filtered by threshold.
func (idx *Index) Search(query []float32, limit int, threshold float32) []SearchResult {
	if idx.Entries == nil || len(query) != idx.Dimensions {
		return nil
	}

	results := make([]SearchResult, 0, len(idx.Entries))
	for filePath, entry := range idx.Entries {
		sim := CosineSimilarity(query, entry.Vector)
		if sim >= threshold {
			results = append(results, SearchResult{FilePath: filePath, Similarity: sim})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].FilePath < results[j].FilePath
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
