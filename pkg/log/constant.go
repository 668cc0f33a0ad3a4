package log

const (
	// ModeProduction selects zap's production encoder defaults.
	ModeProduction = "production"
	// ModeDevelopment selects zap's development encoder defaults.
	ModeDevelopment = "development"
	// EncodingConsole is console (human-readable) encoding.
	EncodingConsole = "console"
	// EncodingJSON is JSON encoding.
	EncodingJSON = "json"
)

// Level names accepted in config.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

const timeFormat = "2006-01-02 15:04:05.000"
