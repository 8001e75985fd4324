// Package pca is the embedding-producing collaborator for callers that only
// have raw observation vectors: it fits a principal-component decomposition
// and exposes the scores plus per-component explained-variance fractions
// behind the EmbeddingSource port.
package pca

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"featurespace/domain/core"
	"featurespace/domain/embedding"
	"featurespace/internal/errors"
	"featurespace/ports"
)

// Source lazily fits a PCA over the configured vectors and serves the result
type Source struct {
	cellIDs []core.CellID
	vectors [][]float64
	nComp   int

	fitted *fit
}

type fit struct {
	emb *embedding.Embedding
	ev  embedding.ExplainedVariance
}

// NewSource creates a PCA-backed embedding source keeping nComponents
// principal components. The fit runs on first access.
func NewSource(cellIDs []core.CellID, vectors [][]float64, nComponents int) ports.EmbeddingSource {
	return &Source{cellIDs: cellIDs, vectors: vectors, nComp: nComponents}
}

// Embedding returns the component scores for every cell
func (s *Source) Embedding(ctx context.Context) (*embedding.Embedding, error) {
	f, err := s.ensureFit()
	if err != nil {
		return nil, err
	}
	return f.emb, nil
}

// ExplainedVariance returns the fraction of total variance per component
func (s *Source) ExplainedVariance(ctx context.Context) (embedding.ExplainedVariance, error) {
	f, err := s.ensureFit()
	if err != nil {
		return embedding.ExplainedVariance{}, err
	}
	return f.ev, nil
}

func (s *Source) ensureFit() (*fit, error) {
	if s.fitted != nil {
		return s.fitted, nil
	}
	f, err := fitPCA(s.cellIDs, s.vectors, s.nComp)
	if err != nil {
		return nil, errors.SourceError("pca", err)
	}
	s.fitted = f
	return f, nil
}

// fitPCA computes the thin SVD of the centered data matrix. The right
// singular vectors are the principal axes; scores are the centered data
// projected onto them, and each component's variance fraction is its squared
// singular value over the total across all singular values.
func fitPCA(cellIDs []core.CellID, vectors [][]float64, nComp int) (*fit, error) {
	n := len(vectors)
	if n == 0 {
		return nil, fmt.Errorf("no vectors provided")
	}
	if len(cellIDs) != n {
		return nil, core.NewDataShapeError(
			fmt.Sprintf("%d cell IDs for %d vectors", len(cellIDs), n))
	}
	d := len(vectors[0])
	if nComp <= 0 || nComp > d {
		return nil, fmt.Errorf("component count must be in [1, %d], got %d", d, nComp)
	}
	if n < nComp {
		return nil, fmt.Errorf("need at least %d vectors, got %d", nComp, n)
	}

	mean := make([]float64, d)
	for _, v := range vectors {
		if len(v) != d {
			return nil, core.NewDataShapeError(
				fmt.Sprintf("inconsistent vector dimensions: expected %d, got %d", d, len(v)))
		}
		for j, val := range v {
			mean[j] += val
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	centered := mat.NewDense(n, d, nil)
	for i, v := range vectors {
		for j, val := range v {
			centered.Set(i, j, val-mean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}

	sv := svd.Values(nil)
	var totalVar float64
	for _, s := range sv {
		totalVar += s * s
	}

	var vt mat.Dense
	svd.VTo(&vt)

	// Scores: centered data times the top-nComp principal axes.
	emb := embedding.New(cellIDs)
	components := make([]core.ComponentKey, nComp)
	fractions := make([]float64, nComp)
	for c := 0; c < nComp; c++ {
		key := core.ComponentKey(fmt.Sprintf("PC%d", c+1))
		components[c] = key
		if totalVar > 0 {
			fractions[c] = (sv[c] * sv[c]) / totalVar
		}

		scores := make([]float64, n)
		for i := 0; i < n; i++ {
			var sum float64
			for j := 0; j < d; j++ {
				sum += centered.At(i, j) * vt.At(j, c)
			}
			scores[i] = sum
		}
		if err := emb.AddColumn(key, scores); err != nil {
			return nil, err
		}
	}

	ev, err := embedding.NewExplainedVariance(components, fractions)
	if err != nil {
		return nil, err
	}
	return &fit{emb: emb, ev: ev}, nil
}
