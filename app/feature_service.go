// Package app wires the selection pipeline: label normalization, variance
// filtering, per-class one-vs-rest rank testing and correction, and the
// multi-class orchestration that assembles the feature space.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"featurespace/domain/core"
	"featurespace/domain/embedding"
	"featurespace/domain/feature"
	"featurespace/domain/labels"
	"featurespace/internal"
	"featurespace/internal/stats"
	"featurespace/ports"
)

// Config is the explicit configuration of the selection pipeline. There are
// no hidden global defaults: construct one with DefaultConfig and override
// fields as needed.
type Config struct {
	// VarianceThreshold retains only components whose explained-variance
	// fraction strictly exceeds it
	VarianceThreshold float64
	// Correction names the multiple-testing correction method
	Correction stats.Correction
	// SigLevel is the significance threshold on adjusted p-values, in (0,1)
	SigLevel float64
	// MaxParallel bounds concurrent per-class test runs
	MaxParallel int64
}

// DefaultConfig returns the documented defaults: threshold 0.01,
// Benjamini-Hochberg correction, significance 0.05.
func DefaultConfig() Config {
	return Config{
		VarianceThreshold: 0.01,
		Correction:        stats.CorrectionFDR,
		SigLevel:          0.05,
		MaxParallel:       4,
	}
}

func (c Config) validate() error {
	if !stats.ValidCorrection(c.Correction) {
		return fmt.Errorf("%w: %q", core.ErrUnknownCorrection, c.Correction)
	}
	if c.SigLevel <= 0 || c.SigLevel >= 1 {
		return core.NewConfigurationError(
			fmt.Sprintf("significance level must be in (0,1), got %g", c.SigLevel))
	}
	if c.VarianceThreshold < 0 {
		return core.NewConfigurationError(
			fmt.Sprintf("variance threshold must be non-negative, got %g", c.VarianceThreshold))
	}
	return nil
}

// FeatureService selects, per class, the embedding components whose value
// distribution differs significantly between that class and all others.
type FeatureService struct {
	cfg    Config
	logger *internal.Logger
}

// NewFeatureService creates a feature selection service
func NewFeatureService(cfg Config, logger *internal.Logger) *FeatureService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FeatureService{cfg: cfg, logger: logger}
}

// ClassFeatures runs the one-vs-rest test for a single positive class over
// the variance-filtered embedding. Cells labeled positive form group A;
// every other cell forms group B, regardless of how many levels exist. Each
// retained component is tested independently with a two-sided rank-sum test,
// the p-value family is corrected with the configured method, and components
// whose adjusted p-value is not strictly below the significance level are
// discarded. Survivors ascend by adjusted p-value with ties kept in the
// filtered embedding's column order; explained variance is attached from the
// full variance vector and accumulated in that order.
//
// An empty table is a valid result, not an error.
func (s *FeatureService) ClassFeatures(
	positive core.ClassName,
	fullEV embedding.ExplainedVariance,
	lab labels.Labeling,
	filtered *embedding.Embedding,
) (feature.Table, error) {
	if err := s.cfg.validate(); err != nil {
		return nil, err
	}
	if filtered.RowCount() != lab.Len() {
		return nil, core.NewRowMismatchError(filtered.RowCount(), lab.Len())
	}
	if !lab.Has(positive) {
		return nil, core.NewClassAbsentError(positive)
	}

	mask := lab.Mask(positive)
	pValues := make([]float64, filtered.ComponentCount())
	for c := range filtered.Components {
		groupA := make([]float64, 0, lab.Count(positive))
		groupB := make([]float64, 0, lab.Len())
		for r, row := range filtered.Data {
			if mask[r] {
				groupA = append(groupA, row[c])
			} else {
				groupB = append(groupB, row[c])
			}
		}
		pValues[c] = stats.RankSum(groupA, groupB).P
	}

	adjusted, err := stats.AdjustPValues(pValues, s.cfg.Correction)
	if err != nil {
		return nil, err
	}

	var surviving []int
	for c, adj := range adjusted {
		if adj < s.cfg.SigLevel {
			surviving = append(surviving, c)
		}
	}
	// Stable: equal adjusted p-values keep the filtered column order.
	sort.SliceStable(surviving, func(a, b int) bool {
		return adjusted[surviving[a]] < adjusted[surviving[b]]
	})

	table := make(feature.Table, 0, len(surviving))
	cum := 0.0
	for _, c := range surviving {
		key := filtered.Components[c]
		ev, ok := fullEV.Fraction(key)
		if !ok {
			return nil, core.NewConfigurationError(
				fmt.Sprintf("component %q has no explained-variance entry", key))
		}
		cum += ev
		table = append(table, feature.Feature{
			Component: key,
			PValue:    pValues[c],
			PValueAdj: adjusted[c],
			ExpVar:    ev,
			CumExpVar: cum,
		})
	}
	return table, nil
}

// SelectFeatureSpace drives the full pipeline against the collaborators. For
// a binary labeling the test runs once with the first level as positive; for
// three or more levels it runs once per level, concurrently, since the runs
// share only immutable inputs. Classes yielding zero significant components
// are reported in one diagnostic and removed from the mapping.
func (s *FeatureService) SelectFeatureSpace(
	ctx context.Context,
	src ports.EmbeddingSource,
	store ports.MetadataStore,
	labelField string,
) (*feature.Space, error) {
	if err := s.cfg.validate(); err != nil {
		return nil, err
	}

	rawLabels, err := store.Column(ctx, labelField)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", core.ErrLabelFieldMissing, labelField, err)
	}

	lab, notice, err := labels.New(labelField, rawLabels).Normalize()
	if err != nil {
		return nil, err
	}
	if notice != nil {
		s.logger.Warn("%s", notice)
		// Persist the repaired labeling alongside the original. The store is
		// a collaborator; failing to persist does not invalidate the math.
		sanitized := make([]string, len(lab.Values))
		for i, v := range lab.Values {
			sanitized[i] = v.String()
		}
		if err := store.SetColumn(ctx, lab.Field, sanitized); err != nil {
			s.logger.Warn("could not write sanitized labels to %q: %v", lab.Field, err)
		}
	}
	if len(lab.Levels) < 2 {
		return nil, core.NewConfigurationError(
			fmt.Sprintf("labeling %q has %d level(s), need at least two", lab.Field, len(lab.Levels)))
	}

	emb, err := src.Embedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("embedding source: %w", err)
	}
	if err := emb.Validate(); err != nil {
		return nil, err
	}
	if emb.RowCount() != lab.Len() {
		return nil, core.NewRowMismatchError(emb.RowCount(), lab.Len())
	}

	fullEV, err := src.ExplainedVariance(ctx)
	if err != nil {
		return nil, fmt.Errorf("explained variance source: %w", err)
	}

	filtered, filteredEV, err := embedding.FilterByVariance(emb, fullEV, s.cfg.VarianceThreshold)
	if err != nil {
		return nil, err
	}

	// For strictly binary labelings a single one-vs-rest run is sufficient
	// and symmetric; the complementary class is redundant information.
	positives := lab.Levels
	if len(lab.Levels) == 2 {
		positives = lab.Levels[:1]
	}

	tables, err := s.runClasses(ctx, positives, fullEV, lab, filtered)
	if err != nil {
		return nil, err
	}

	space := &feature.Space{
		ID:                core.SpaceID(core.NewID()),
		Tables:            make(map[core.ClassName]feature.Table, len(positives)),
		ExplainedVariance: filteredEV,
		LabelField:        lab.Field,
	}
	for i, class := range positives {
		if len(tables[i]) == 0 {
			space.Dropped = append(space.Dropped, class)
			continue
		}
		space.Tables[class] = tables[i]
	}
	if len(space.Dropped) > 0 {
		s.logger.Warn("no significant components for class(es) %v; removed from feature space", space.Dropped)
	}
	return space, nil
}

// runClasses executes the per-class test runs under a weighted semaphore and
// gathers the tables in level order.
func (s *FeatureService) runClasses(
	ctx context.Context,
	positives []core.ClassName,
	fullEV embedding.ExplainedVariance,
	lab labels.Labeling,
	filtered *embedding.Embedding,
) ([]feature.Table, error) {
	maxParallel := s.cfg.MaxParallel
	if maxParallel < 1 {
		maxParallel = 1
	}
	sem := semaphore.NewWeighted(maxParallel)

	tables := make([]feature.Table, len(positives))
	errs := make([]error, len(positives))
	var wg sync.WaitGroup
	for i, class := range positives {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, class core.ClassName) {
			defer wg.Done()
			defer sem.Release(1)
			tables[i], errs[i] = s.ClassFeatures(class, fullEV, lab, filtered)
		}(i, class)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return tables, nil
}
