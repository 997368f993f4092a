package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
)

// LCG constants (Knuth MMIX). Fixed forever: changing them invalidates every
// stored vector.
const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
)

// Token weights by class.
const (
	weightUnigram          float32 = 1.0
	weightImportantUnigram float32 = 2.0
	weightBigram           float32 = 1.0
	weightImportantBigram  float32 = 3.0
)

// Local is the deterministic hash-based embedder. Each token seeds a dense
// pseudo-random projection across all dimensions; texts that share tokens
// therefore end up with correlated vectors. Pure and stateless per call, so
// concurrent use needs no locking.
type Local struct {
	dim int
}

// NewLocal creates a Local embedder with the given dimension. dim <= 0 falls
// back to DefaultDimension.
func NewLocal(dim int) *Local {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Local{dim: dim}
}

// Dimension implements Embedder.
func (l *Local) Dimension() int { return l.dim }

// Provider implements Embedder.
func (l *Local) Provider() string { return "local" }

// Embed implements Embedder. It never fails and performs no I/O; the error
// is part of the contract shared with remote embedders.
func (l *Local) Embed(_ context.Context, text string) ([]float32, error) {
	return l.embed(text), nil
}

// EmbedBatch implements Embedder.
func (l *Local) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = l.embed(t)
	}
	return out, nil
}

func (l *Local) embed(text string) []float32 {
	vector := make([]float32, l.dim)

	words := tokenize(text)
	if len(words) == 0 {
		return vector
	}

	// Unigrams, boosted for gazetteer terms.
	type weighted struct {
		token  string
		weight float32
	}
	tokens := make([]weighted, 0, 2*len(words))
	for _, w := range words {
		weight := weightUnigram
		if importantTerms[w] {
			weight = weightImportantUnigram
		}
		tokens = append(tokens, weighted{w, weight})
	}

	// Adjacent-pair bigrams, boosted for two-word place names.
	for i := 0; i < len(words)-1; i++ {
		weight := weightBigram
		if importantBigrams[words[i]+" "+words[i+1]] {
			weight = weightImportantBigram
		}
		tokens = append(tokens, weighted{words[i] + "_" + words[i+1], weight})
	}

	// Expand each token seed across every dimension with the LCG and
	// accumulate. The upper 31 bits of the state map into [-1, 1].
	for _, tok := range tokens {
		state := tokenSeed(tok.token)
		for d := 0; d < l.dim; d++ {
			state = state*lcgMultiplier + lcgIncrement
			val := float32(int64(state>>33)-1073741823) / 1073741823.0
			vector[d] += val * tok.weight
		}
	}

	normalize(vector)
	return vector
}

// tokenize lowercases, strips characters outside {letters, digits,
// whitespace, '.', '$', '%', ','}, collapses whitespace, and splits.
func tokenize(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '.', r == '$', r == '%', r == ',':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Fields(b.String())
}

// tokenSeed derives a 64-bit seed from the first 8 bytes of the token's
// SHA-256 digest, big-endian.
func tokenSeed(token string) uint64 {
	sum := sha256.Sum256([]byte(token))
	return binary.BigEndian.Uint64(sum[:8])
}

// normalize scales the vector to unit L2 norm in place. A zero vector (only
// possible for degenerate input) is left untouched.
func normalize(v []float32) {
	var norm float32
	for _, x := range v {
		norm += x * x
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
