// Package pipeline runs the ingest, validate, enrich, resample and persist stages in order.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-pipeline/internal/config"
	"github.com/rxtech-lab/argo-pipeline/internal/enricher"
	"github.com/rxtech-lab/argo-pipeline/internal/indicator"
	"github.com/rxtech-lab/argo-pipeline/internal/ingest"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/resample"
	"github.com/rxtech-lab/argo-pipeline/internal/validator"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"github.com/rxtech-lab/argo-pipeline/pkg/store"
	"go.uber.org/zap"
)

// WriterFactory creates the writer used by the persist stage.
type WriterFactory func(config store.WriterConfig) (store.RecordSetWriter, error)

// Pipeline holds the configured stages of a run.
type Pipeline struct {
	config     config.Config
	format     ingest.Format
	width      resample.BucketWidth
	reader     ingest.Reader
	validator  *validator.Validator
	enricher   *enricher.Enricher
	resampler  *resample.Resampler
	newWriter  WriterFactory
	onProgress store.OnProgress
	logger     *logger.Logger
}

// New builds every stage from cfg. Configuration problems, including an
// incompatible indicator catalog, are reported here rather than during Run.
func New(cfg config.Config, log *logger.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format, err := cfg.InputFormat()
	if err != nil {
		return nil, err
	}

	width, err := cfg.BucketWidth()
	if err != nil {
		return nil, err
	}

	v, err := validator.NewValidator(cfg.Validator, log)
	if err != nil {
		return nil, err
	}

	e, err := enricher.NewEnricher(cfg.Enricher, indicator.DefaultRegistry(), log)
	if err != nil {
		return nil, err
	}

	r, err := resample.NewResampler(cfg.Resample.Rules, log)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config:    cfg,
		format:    format,
		width:     width,
		reader:    nil,
		validator: v,
		enricher:  e,
		resampler: r,
		newWriter: func(c store.WriterConfig) (store.RecordSetWriter, error) {
			return store.NewWriter(c, log)
		},
		onProgress: nil,
		logger:     log,
	}, nil
}

// SetReader replaces the ingest stage. The pipeline closes the reader in Close.
func (p *Pipeline) SetReader(reader ingest.Reader) {
	p.reader = reader
}

// SetWriterFactory replaces the writer constructor of the persist stage.
func (p *Pipeline) SetWriterFactory(factory WriterFactory) {
	p.newWriter = factory
}

// SetIndicatorRegistry replaces the indicator catalog of the enrich stage.
func (p *Pipeline) SetIndicatorRegistry(registry indicator.IndicatorRegistry) error {
	e, err := enricher.NewEnricher(p.config.Enricher, registry, p.logger)
	if err != nil {
		return err
	}

	p.enricher = e

	return nil
}

// SetProgress registers a callback for the persist stage.
func (p *Pipeline) SetProgress(onProgress store.OnProgress) {
	p.onProgress = onProgress
}

// Close releases the reader.
func (p *Pipeline) Close() error {
	if p.reader == nil {
		return nil
	}

	err := p.reader.Close()
	p.reader = nil

	return err
}

// Run executes one pass over the configured input. Every stage except enrichment
// is fatal on error; an enrichment diagnostic is logged and kept in the report.
// The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	started := time.Now()
	report := Report{RunID: uuid.New()}
	log := &logger.Logger{Logger: p.logger.With(zap.String("run_id", report.RunID.String()))}

	log.Info("Starting pipeline run",
		zap.String("input", p.config.Input.Path),
		zap.String("format", string(p.format)),
		zap.String("frequency", p.width.Label),
	)

	if p.reader == nil {
		reader, err := ingest.NewDuckDBReader(log)
		if err != nil {
			return report, err
		}

		p.reader = reader
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	raw, err := p.reader.Read(ctx, p.config.Input.Path, p.format)
	if err != nil {
		return report, errors.Wrap(errors.GetCode(err), "ingest failed", err)
	}

	report.InputRows = raw.Len()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	cleaned, err := p.validator.Validate(raw)
	if err != nil {
		return report, errors.Wrap(errors.GetCode(err), "validation failed", err)
	}

	report.ValidRows = cleaned.Len()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	result := p.enricher.Enrich(cleaned)
	report.Enriched = result.Enriched()

	if result.Diagnostic.IsSome() {
		report.Diagnostic = result.Diagnostic.Unwrap().Error()
		log.Warn("Enrichment incomplete, continuing", zap.Error(result.Diagnostic.Unwrap()))
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	resampled, err := p.resampler.Resample(result.RecordSet, p.width)
	if err != nil {
		return report, errors.Wrap(errors.GetCode(err), "resample failed", err)
	}

	report.OutputRows = resampled.Len()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	writer, err := p.newWriter(p.config.WriterConfig(p.onProgress))
	if err != nil {
		return report, err
	}

	outputPath, err := store.Persist(ctx, writer, resampled)
	if err != nil {
		return report, errors.Wrap(errors.GetCode(err), "persist failed", err)
	}

	report.OutputPath = outputPath
	report.Duration = time.Since(started)

	log.Info("Pipeline run finished", report.field())

	return report, nil
}
