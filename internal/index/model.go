// Package index builds the text-similarity model over catalog product names
// and answers nearest-neighbour queries against it.
//
// The model is TF-IDF over unigrams and adjacent-word bigrams with smoothed
// inverse document frequency and L2-normalised vectors, so cosine similarity
// reduces to a sparse dot product. It is built once at startup and is
// immutable afterwards: concurrent queries need no locking.
package index

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/listcheck/internal/domain"
	"github.com/kailas-cloud/listcheck/internal/domain/catalog"
	"github.com/kailas-cloud/listcheck/internal/domain/validation"
)

// DefaultK is the neighbour set size used when callers do not override it.
const DefaultK = 15

// term weight of one vocabulary column in a document vector.
type termWeight struct {
	term   int
	weight float64
}

// Model is the immutable similarity model over one catalog.
//
// The scan in TopK is O(catalog x vocabulary overlap) per query, which is
// fine for reference catalogs up to tens of thousands of entries. Beyond
// that an indexing structure would be needed; out of scope at this scale.
type Model struct {
	catalog catalog.Catalog
	vocab   map[string]int
	idf     []float64
	docs    [][]termWeight
}

// Build constructs the model from the catalog names. The catalog must be
// non-empty; entries with empty names are kept and vectorise to nothing.
func Build(cat catalog.Catalog) (*Model, error) {
	if len(cat) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", domain.ErrCatalogData)
	}

	m := &Model{
		catalog: cat,
		vocab:   make(map[string]int),
	}

	// First pass: vocabulary and document frequencies.
	tokenized := make([][]string, len(cat))
	df := make([]int, 0, 256)
	for i, e := range cat {
		terms := ngrams(e.Name())
		tokenized[i] = terms
		seen := make(map[int]struct{}, len(terms))
		for _, t := range terms {
			col, ok := m.vocab[t]
			if !ok {
				col = len(m.vocab)
				m.vocab[t] = col
				df = append(df, 0)
			}
			if _, dup := seen[col]; !dup {
				seen[col] = struct{}{}
				df[col]++
			}
		}
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1.
	n := float64(len(cat))
	m.idf = make([]float64, len(df))
	for col, d := range df {
		m.idf[col] = math.Log((1+n)/(1+float64(d))) + 1
	}

	// Second pass: weighted, normalised document vectors.
	m.docs = make([][]termWeight, len(cat))
	for i, terms := range tokenized {
		m.docs[i] = m.weigh(terms)
	}

	return m, nil
}

// Catalog returns the catalog this model was built from.
func (m *Model) Catalog() catalog.Catalog { return m.catalog }

// VocabularySize returns the number of learned unigram and bigram terms.
func (m *Model) VocabularySize() int { return len(m.vocab) }

// TopK returns the k catalog entries most similar to the query name,
// descending similarity, ties broken by catalog order. A query with no
// vocabulary overlap still returns k neighbours at similarity 0; it is
// not an error. k is capped at the catalog size; k <= 0 uses DefaultK.
func (m *Model) TopK(query string, k int) []validation.Neighbour {
	if k <= 0 {
		k = DefaultK
	}
	if k > len(m.catalog) {
		k = len(m.catalog)
	}

	qv := make(map[int]float64)
	for _, tw := range m.weigh(ngrams(query)) {
		qv[tw.term] = tw.weight
	}

	type scored struct {
		idx int
		sim float64
	}
	hits := make([]scored, len(m.docs))
	for i, doc := range m.docs {
		var dot float64
		for _, tw := range doc {
			if qw, ok := qv[tw.term]; ok {
				dot += qw * tw.weight
			}
		}
		hits[i] = scored{idx: i, sim: clampUnit(dot)}
	}

	// Stable sort keeps catalog order for equal similarities.
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].sim > hits[b].sim })

	out := make([]validation.Neighbour, 0, k)
	for _, h := range hits[:k] {
		out = append(out, validation.NewNeighbour(m.catalog[h.idx], h.sim))
	}
	return out
}

// weigh converts terms to a TF-IDF vector with unit L2 norm. Terms outside
// the learned vocabulary are dropped, matching transform-time behaviour.
func (m *Model) weigh(terms []string) []termWeight {
	counts := make(map[int]int, len(terms))
	for _, t := range terms {
		if col, ok := m.vocab[t]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	vec := make([]termWeight, 0, len(counts))
	var norm float64
	for col, tf := range counts {
		w := float64(tf) * m.idf[col]
		norm += w * w
		vec = append(vec, termWeight{term: col, weight: w})
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}
	sort.Slice(vec, func(a, b int) bool { return vec[a].term < vec[b].term })
	return vec
}

// ngrams lowercases the name, splits it into word tokens of at least two
// characters, and returns the unigrams followed by adjacent-pair bigrams.
func ngrams(name string) []string {
	words := tokenize(name)
	out := make([]string, 0, len(words)*2)
	out = append(out, words...)
	for i := 0; i+1 < len(words); i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

func tokenize(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		// Single-character tokens carry no lexical signal.
		if len([]rune(f)) >= 2 {
			words = append(words, f)
		}
	}
	return words
}

// clampUnit guards against floating-point drift past the [0,1] bounds.
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
