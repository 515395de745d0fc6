// Package validator cleans raw OHLCV record-sets: it imputes missing values,
// rejects statistical outliers and normalizes the Date column.
package validator

import (
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"go.uber.org/zap"
)

// Validator runs the cleaning stage of the pipeline.
type Validator struct {
	config Config
	logger *logger.Logger
}

// NewValidator creates a Validator after checking the configuration.
func NewValidator(config Config, log *logger.Logger) (*Validator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Validator{
		config: config,
		logger: log,
	}, nil
}

// Config returns the configuration the validator was built with.
func (v *Validator) Config() Config {
	return v.config
}

// Validate repairs missing values (only when there are any), rejects outliers and
// normalizes the time column, in that order. Outlier detection therefore sees
// imputed values and both earlier steps treat Date as an opaque column.
func (v *Validator) Validate(rs *types.RecordSet) (*types.RecordSet, error) {
	v.logger.Info("Validating record-set", zap.Int("rows", rs.Len()))

	var err error

	if rs.TotalNulls() > 0 {
		rs, err = v.RepairMissing(rs)
		if err != nil {
			return nil, err
		}
	}

	rs, err = v.RejectOutliers(rs)
	if err != nil {
		return nil, err
	}

	rs, err = v.NormalizeTime(rs)
	if err != nil {
		return nil, err
	}

	v.logger.Info("Validation finished", zap.Int("rows", rs.Len()))

	return rs, nil
}
