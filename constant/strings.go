package constant

// Request context keys
const (
	RequestIDKey = "request_id"
)

// Function/Context names
const (
	// Domain context names
	CtxValidate = "Validate"
	CtxRender   = "Render"
	CtxSave     = "Save"
	CtxRecord   = "Record"

	// Infrastructure context names
	CtxDB    = "db"
	CtxStore = "Store"
	CtxList  = "List"
	CtxClose = "Close"

	// General context names
	CtxMain = "Main"
)

// Data field keys
const (
	// Generation data fields
	DataURL       = "url"
	DataOut       = "out"
	DataFilename  = "filename"
	DataBoxSize   = "box_size"
	DataBorder    = "border"
	DataPath      = "path"
	DataVersion   = "version"
	DataModules   = "modules"
	DataWidth     = "width"
	DataHistoryDB = "history_db"

	// Database data fields
	DataElapsed = "elapsed"
	DataRows    = "rows"
	DataSQL     = "sql"
	DataData    = "data"
)

// Error message constants
const (
	ErrEmptyURL           = "URL cannot be empty."
	ErrURLScheme          = "URL must start with http:// or https://"
	ErrBoxSizeNotPositive = "box size must be a positive integer"
	ErrBorderNegative     = "border must be a non-negative integer"
	ErrFilenameHasPath    = "filename must not contain path separators"
	ErrImageTooLarge      = "box size and border give an image wider than 32768 pixels"
)

// URL schemes accepted by the validator
const (
	SchemeHTTP  = "http://"
	SchemeHTTPS = "https://"
)

// Defaults
const (
	DefaultURL       = "https://github.com/kaw393939"
	DefaultOutputDir = "./qr_codes"
	DefaultLogDir    = "./logs"
	DefaultLogLevel  = "INFO"
	DefaultBoxSize   = 10
	DefaultBorder    = 4
)

// Raster limits
const (
	// MaxImageSide bounds the rendered image in pixels per side
	MaxImageSide = 1 << 15
	// MaxModules is the module count of a version 40 symbol
	MaxModules = 177
)

// Environment variable names
const (
	EnvURL       = "URL"
	EnvOutputDir = "OUTPUT_DIR"
	EnvLogDir    = "LOG_DIR"
	EnvLogLevel  = "LOG_LEVEL"
	EnvHistoryDB = "HISTORY_DB"
)

// Output file naming
const (
	FilenamePrefix     = "qr_"
	FilenameExt        = ".png"
	FilenameTimeLayout = "20060102-150405"
	LogFileName        = "app.log"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
)

// Message constants for application
const (
	MsgStarting          = "Starting QR generation..."
	MsgParameters        = "Parameters"
	MsgSaved             = "QR Code saved to %s"
	MsgFailed            = "Failed to generate QR code"
	MsgOverwriting       = "Overwriting existing file"
	MsgRendered          = "QR code rendered"
	MsgHistoryRecorded   = "Generation recorded"
	MsgHistoryFailed     = "Failed to record generation history"
	MsgHistoryOpenFailed = "Failed to open history database"
	MsgValidationFailed  = "Input validation failed"
)
