package mocks

//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-pipeline/internal/indicator Indicator
//go:generate mockgen -destination=./mock_writer.go -package=mocks github.com/rxtech-lab/argo-pipeline/pkg/store RecordSetWriter
