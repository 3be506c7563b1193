package config

// ProjectFileName is the optional per-directory configuration file.
const ProjectFileName = "tinyts.yaml"

// DefaultCachePath is where the result cache lives, relative to the project directory.
const DefaultCachePath = ".tinyts/cache.db"

// SourceFileExtensions are all recognized term file extensions.
// Longer suffixes come first so the most specific one is reported.
var SourceFileExtensions = []string{".tt.yaml", ".tt.yml", ".tt.json", ".yaml", ".yml", ".json"}

// IsTestMode indicates if the program is running under go test.
// Output that depends on the terminal or wall clock is disabled in test mode.
var IsTestMode = false

// Environment variables that override the project file.
const (
	CacheEnvVar   = "TINYTS_CACHE"
	WorkersEnvVar = "TINYTS_WORKERS"
	NoColorEnvVar = "NO_COLOR"
)

// Colour modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Term tags as produced by the upstream parser
const (
	TrueTag   = "true"
	FalseTag  = "false"
	NumberTag = "number"
	IfTag     = "if"
	AddTag    = "add"
	VarTag    = "var"
	FuncTag   = "func"
	CallTag   = "call"
	SeqTag    = "seq"
	ConstTag  = "const"
)

// Type tags
const (
	BooleanTypeTag = "Boolean"
	NumberTypeTag  = "Number"
	FuncTypeTag    = "Func"
)
