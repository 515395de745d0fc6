package pipeline

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Report summarizes one run.
type Report struct {
	RunID      uuid.UUID
	InputRows  int
	ValidRows  int
	Enriched   bool
	Diagnostic string
	OutputRows int
	OutputPath string
	Duration   time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r Report) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("run_id", r.RunID.String())
	enc.AddInt("input_rows", r.InputRows)
	enc.AddInt("valid_rows", r.ValidRows)
	enc.AddBool("enriched", r.Enriched)

	if r.Diagnostic != "" {
		enc.AddString("diagnostic", r.Diagnostic)
	}

	enc.AddInt("output_rows", r.OutputRows)
	enc.AddString("output_path", r.OutputPath)
	enc.AddDuration("duration", r.Duration)

	return nil
}

func (r Report) field() zap.Field {
	return zap.Object("report", r)
}
