package classifier

import (
	"math"
	"sort"

	"fjacquet/fintrack/internal/textutils"
)

// Vectorizer turns normalized descriptions into L2-normalized TF-IDF vectors
// over a fixed vocabulary of unigrams and bigrams. A fitted Vectorizer is
// immutable; refitting builds a new one.
type Vectorizer struct {
	vocabulary []string
	index      map[string]int
	idf        []float64
}

// FitVectorizer learns the vocabulary and smoothed idf weights from docs.
// When maxFeatures > 0 only the maxFeatures most frequent terms are kept,
// ties broken alphabetically. The resulting vocabulary is sorted.
func FitVectorizer(docs []string, maxFeatures int) *Vectorizer {
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range extractTerms(doc) {
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}

	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if termFreq[terms[i]] != termFreq[terms[j]] {
				return termFreq[terms[i]] > termFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return newVectorizer(terms, idf)
}

// RestoreVectorizer rebuilds a Vectorizer from a persisted vocabulary and idf.
func RestoreVectorizer(vocabulary []string, idf []float64) *Vectorizer {
	return newVectorizer(append([]string(nil), vocabulary...), append([]float64(nil), idf...))
}

func newVectorizer(vocabulary []string, idf []float64) *Vectorizer {
	index := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		index[term] = i
	}
	return &Vectorizer{vocabulary: vocabulary, index: index, idf: idf}
}

// Size is the vector dimension.
func (v *Vectorizer) Size() int {
	return len(v.vocabulary)
}

// Transform vectorizes one normalized description. Out-of-vocabulary terms
// contribute nothing; a description without known terms yields a zero vector.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.vocabulary))
	for _, term := range extractTerms(doc) {
		if i, ok := v.index[term]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Centroid returns the element-wise mean of the vectors of docs.
func (v *Vectorizer) Centroid(docs []string) []float64 {
	centroid := make([]float64, len(v.vocabulary))
	if len(docs) == 0 {
		return centroid
	}
	for _, doc := range docs {
		for i, w := range v.Transform(doc) {
			centroid[i] += w
		}
	}
	for i := range centroid {
		centroid[i] /= float64(len(docs))
	}
	return centroid
}

// extractTerms returns the unigrams and adjacent bigrams of doc after stop
// word removal.
func extractTerms(doc string) []string {
	var tokens []string
	for _, tok := range textutils.Tokenize(doc) {
		if !textutils.IsStopWord(tok) {
			tokens = append(tokens, tok)
		}
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is zero or the dimensions differ.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
