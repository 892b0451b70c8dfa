package types

type RunMode string

const (
	// ModeLocal runs the API server on the configured address
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
	// ModeAWSLambdaAPI is the mode for running the API server in AWS Lambda
	ModeAWSLambdaAPI RunMode = "aws_lambda_api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ArchiveMode selects where downloaded invoice documents are kept, if anywhere
type ArchiveMode string

const (
	ArchiveModeNone  ArchiveMode = "none"
	ArchiveModeLocal ArchiveMode = "local"
	ArchiveModeS3    ArchiveMode = "s3"
)
