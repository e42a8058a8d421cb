package constant

// Domain service error codes
const (
	// Generator - Validation errors (1xx)
	ErrCodeEmptyURL  = "GEN101"
	ErrCodeURLScheme = "GEN102"
	ErrCodeBoxSize   = "GEN103"
	ErrCodeBorder    = "GEN104"
	ErrCodeFilename  = "GEN105"
	ErrCodeImageSize = "GEN106"

	// Generator - Encoding errors (2xx)
	ErrCodeEncode = "GEN201"

	// Generator - Output errors (3xx)
	ErrCodeMkdir = "GEN301"
	ErrCodeWrite = "GEN302"

	// Generator - History errors (4xx)
	ErrCodeHistory = "GEN401"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Store operation errors (1xx)
	ErrCodeDBInsert = "DB102"

	// List operation errors (2xx)
	ErrCodeDBLookup = "DB201"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Application error codes
const (
	ErrCodeAppFailure = "APP001"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeEncoding   = "encoding"
	ErrTypeStorage    = "storage"
	ErrTypeHistory    = "history"

	// Infrastructure error types
	ErrTypeDB  = "db"
	ErrTypeApp = "application"
)
