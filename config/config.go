package config

import (
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/prasetyowira/qrgen/constant"
)

// ErrHelp is returned by Resolve when --help was requested
var ErrHelp = arg.ErrHelp

// RunConfig is the resolved parameter set for one invocation
type RunConfig struct {
	URL       string
	OutputDir string
	Filename  string
	BoxSize   int
	Border    int
	LogDir    string
	LogLevel  string
	HistoryDB string
}

// flags holds the command-line surface. go-arg applies the default tag first,
// then the env var, then the flag itself.
type flags struct {
	URL      string `arg:"--url,env:URL" default:"https://github.com/kaw393939" help:"the URL/text to encode into a QR code"`
	Out      string `arg:"--out,env:OUTPUT_DIR" default:"./qr_codes" help:"output directory for generated QR files"`
	Filename string `arg:"--filename" help:"optional output filename (e.g. qr.png); a timestamped name is used when omitted"`
	BoxSize  int    `arg:"--box-size" default:"10" help:"pixel size of each QR box"`
	Border   int    `arg:"--border" default:"4" help:"border width in boxes"`
}

func (flags) Description() string {
	return "QR Code Generator"
}

func (flags) Epilogue() string {
	return "Environment: LOG_DIR (default ./logs), LOG_LEVEL (default INFO), HISTORY_DB (optional SQLite history file)."
}

// Resolve builds a RunConfig from built-in defaults, environment variables
// and the command-line arguments (without the program name).
func Resolve(args []string) (RunConfig, error) {
	var f flags
	p, err := newParser(&f)
	if err != nil {
		return RunConfig{}, err
	}
	if err := p.Parse(args); err != nil {
		return RunConfig{}, err
	}

	return RunConfig{
		URL:       f.URL,
		OutputDir: f.Out,
		Filename:  f.Filename,
		BoxSize:   f.BoxSize,
		Border:    f.Border,
		LogDir:    getEnv(constant.EnvLogDir, constant.DefaultLogDir),
		LogLevel:  getEnv(constant.EnvLogLevel, constant.DefaultLogLevel),
		HistoryDB: getEnv(constant.EnvHistoryDB, ""),
	}, nil
}

// Usage writes the command-line help to w
func Usage(w io.Writer) {
	var f flags
	p, err := newParser(&f)
	if err != nil {
		return
	}
	p.WriteHelp(w)
}

func newParser(dest *flags) (*arg.Parser, error) {
	return arg.NewParser(arg.Config{Program: "qrgen"}, dest)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
