// Package excel adapts a spreadsheet export of an upstream embedding to the
// EmbeddingSource port. The workbook carries the component scores on one
// sheet and the per-component explained-variance fractions on another.
package excel

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"featurespace/domain/core"
	"featurespace/domain/embedding"
	"featurespace/internal/errors"
	"featurespace/ports"
)

// Config locates the workbook and its sheets
type Config struct {
	FilePath      string
	ScoresSheet   string // default "scores": header = cell column + component names
	VarianceSheet string // default "variance": rows of component name, fraction
}

// Source reads the embedding from an xlsx workbook on first access
type Source struct {
	cfg    Config
	loaded *loaded
}

type loaded struct {
	emb *embedding.Embedding
	ev  embedding.ExplainedVariance
}

// NewSource creates an excel-backed embedding source
func NewSource(cfg Config) ports.EmbeddingSource {
	if cfg.ScoresSheet == "" {
		cfg.ScoresSheet = "scores"
	}
	if cfg.VarianceSheet == "" {
		cfg.VarianceSheet = "variance"
	}
	return &Source{cfg: cfg}
}

// Embedding returns the score matrix from the scores sheet
func (s *Source) Embedding(ctx context.Context) (*embedding.Embedding, error) {
	l, err := s.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return l.emb, nil
}

// ExplainedVariance returns the variance vector from the variance sheet
func (s *Source) ExplainedVariance(ctx context.Context) (embedding.ExplainedVariance, error) {
	l, err := s.ensureLoaded()
	if err != nil {
		return embedding.ExplainedVariance{}, err
	}
	return l.ev, nil
}

func (s *Source) ensureLoaded() (*loaded, error) {
	if s.loaded != nil {
		return s.loaded, nil
	}

	if _, err := os.Stat(s.cfg.FilePath); os.IsNotExist(err) {
		return nil, errors.NotFound("workbook " + s.cfg.FilePath)
	}

	start := time.Now()
	f, err := excelize.OpenFile(s.cfg.FilePath)
	if err != nil {
		return nil, errors.SourceError("excel", fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()
	log.Printf("[ExcelSource] workbook opened in %.2fms", float64(time.Since(start).Nanoseconds())/1e6)

	emb, err := s.readScores(f)
	if err != nil {
		return nil, errors.SourceError("excel", err)
	}
	ev, err := s.readVariance(f)
	if err != nil {
		return nil, errors.SourceError("excel", err)
	}

	s.loaded = &loaded{emb: emb, ev: ev}
	return s.loaded, nil
}

func (s *Source) readScores(f *excelize.File) (*embedding.Embedding, error) {
	rows, err := f.GetRows(s.cfg.ScoresSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.cfg.ScoresSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q needs a header row and at least one data row", s.cfg.ScoresSheet)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("sheet %q needs a cell column and at least one component column", s.cfg.ScoresSheet)
	}
	components := make([]core.ComponentKey, len(header)-1)
	for i, name := range header[1:] {
		components[i] = core.ComponentKey(name)
	}

	cellIDs := make([]core.CellID, len(rows)-1)
	columns := make([][]float64, len(components))
	for i := range columns {
		columns[i] = make([]float64, len(rows)-1)
	}
	for r, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("sheet %q row %d has %d cells, expected %d",
				s.cfg.ScoresSheet, r+2, len(row), len(header))
		}
		cellIDs[r] = core.CellID(row[0])
		for c, raw := range row[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d column %q: %w",
					s.cfg.ScoresSheet, r+2, components[c], err)
			}
			columns[c][r] = v
		}
	}

	emb := embedding.New(cellIDs)
	for c, key := range components {
		if err := emb.AddColumn(key, columns[c]); err != nil {
			return nil, err
		}
	}
	return emb, nil
}

func (s *Source) readVariance(f *excelize.File) (embedding.ExplainedVariance, error) {
	rows, err := f.GetRows(s.cfg.VarianceSheet)
	if err != nil {
		return embedding.ExplainedVariance{}, fmt.Errorf("read sheet %q: %w", s.cfg.VarianceSheet, err)
	}

	var components []core.ComponentKey
	var fractions []float64
	for r, row := range rows {
		if len(row) < 2 {
			return embedding.ExplainedVariance{}, fmt.Errorf("sheet %q row %d needs component and fraction",
				s.cfg.VarianceSheet, r+1)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return embedding.ExplainedVariance{}, fmt.Errorf("sheet %q row %d: %w", s.cfg.VarianceSheet, r+1, err)
		}
		components = append(components, core.ComponentKey(row[0]))
		fractions = append(fractions, v)
	}
	return embedding.NewExplainedVariance(components, fractions)
}
