package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidMultiplier    ErrorCode = 111
	ErrCodeMissingColumn        ErrorCode = 120
	ErrCodeAllNullColumn        ErrorCode = 121
	ErrCodeSchemaMismatch       ErrorCode = 122

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302
	ErrCodeVersionMismatch        ErrorCode = 303

	// Ingestion errors (400-499)
	ErrCodeUnsupportedFormat ErrorCode = 400
	ErrCodeReadFailed        ErrorCode = 401

	// Cleaning errors (500-599)
	ErrCodeParseFailed        ErrorCode = 500
	ErrCodeOutlierModelFailed ErrorCode = 501

	// Resampling errors (600-699)
	ErrCodeInvalidBucketWidth ErrorCode = 600
	ErrCodeTimeNotNormalized  ErrorCode = 601
	ErrCodeInvalidAggregation ErrorCode = 602

	// Market data errors (700-799)
	ErrCodeMarketDataParseFailed ErrorCode = 702

	// Storage errors (800-899)
	ErrCodeStorageFailed     ErrorCode = 800
	ErrCodeInvalidWriterType ErrorCode = 801
)
