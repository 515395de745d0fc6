// Package enricher annotates a cleaned record-set with technical indicator columns.
package enricher

import (
	"fmt"
	"slices"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-pipeline/internal/indicator"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/internal/version"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// Result is the outcome of an enrichment. RecordSet is never nil: it is either
// the annotated copy or the unchanged input. Diagnostic is set when some or all
// indicators could not be added.
type Result struct {
	RecordSet  *types.RecordSet
	Diagnostic optional.Option[error]
}

// Enriched reports whether indicator columns were added without any failure.
func (r Result) Enriched() bool {
	return r.Diagnostic.IsNone()
}

// Enricher computes every indicator of a registry over a record-set.
type Enricher struct {
	config   Config
	registry indicator.IndicatorRegistry
	logger   *logger.Logger
}

// NewEnricher creates an Enricher. The configured catalog version must be
// compatible with indicator.CatalogVersion.
func NewEnricher(config Config, registry indicator.IndicatorRegistry, log *logger.Logger) (*Enricher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := version.CheckCatalogCompatibility(indicator.CatalogVersion, config.CatalogVersion); err != nil {
		return nil, err
	}

	return &Enricher{
		config:   config,
		registry: registry,
		logger:   log,
	}, nil
}

// Enrich adds the indicator columns to a copy of rs. It never fails: problems are
// reported through Result.Diagnostic and, depending on the partial failure policy,
// the input is returned unchanged.
func (e *Enricher) Enrich(rs *types.RecordSet) Result {
	if rs.Len() < e.config.MinRows {
		diagnostic := errors.NewInsufficientDataErrorf(e.config.MinRows, rs.Len(), "enricher",
			"not enough rows to compute indicators: need at least %d, got %d", e.config.MinRows, rs.Len())
		e.logger.Warn("Skipping enrichment", zap.Error(diagnostic))

		return Result{RecordSet: rs, Diagnostic: optional.Some[error](diagnostic)}
	}

	out := rs.Clone()

	var failures []error

	for _, name := range e.registry.ListIndicators() {
		ind, err := e.registry.GetIndicator(name)
		if err == nil {
			err = e.apply(out, ind)
		}

		if err == nil {
			e.logger.Debug("Indicator computed", zap.String("indicator", string(name)))

			continue
		}

		err = errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "indicator %s failed", name)
		e.logger.Warn("Indicator failed", zap.String("indicator", string(name)), zap.Error(err))

		if e.config.PartialFailure == PartialFailureAllOrNothing {
			return Result{RecordSet: rs, Diagnostic: optional.Some(err)}
		}

		failures = append(failures, err)
	}

	if len(failures) > 0 {
		return Result{RecordSet: out, Diagnostic: optional.Some(errors.Join(failures...))}
	}

	e.logger.Info("Enrichment finished", zap.Int("rows", out.Len()), zap.Int("columns", len(out.Columns)))

	return Result{RecordSet: out, Diagnostic: optional.None[error]()}
}

// apply computes one indicator and writes its columns into rs. Columns are only
// written once the whole indicator succeeded.
func (e *Enricher) apply(rs *types.RecordSet, ind indicator.Indicator) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("indicator panicked: %v", r)
		}
	}()

	values, err := ind.Compute(rs)
	if err != nil {
		return err
	}

	columns := ind.Columns()
	for _, column := range columns {
		if column == types.ColumnDate || slices.Contains(types.OHLCVColumns, column) {
			return errors.Newf(errors.ErrCodeSchemaMismatch, "indicator column %s would overwrite an input column", column)
		}

		if len(values[column]) != rs.Len() {
			return errors.Newf(errors.ErrCodeSchemaMismatch, "indicator column %s has %d values for %d rows",
				column, len(values[column]), rs.Len())
		}
	}

	for _, column := range columns {
		if err := rs.SetColumn(column, values[column]); err != nil {
			return err
		}
	}

	return nil
}
