package generator

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/prasetyowira/qrgen/constant"
)

// InvalidInputError reports a request rejected before any image work
type InvalidInputError struct {
	Code    string
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// IsInvalidInput reports whether err is, or wraps, an InvalidInputError
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

func invalid(code, message string) error {
	return &InvalidInputError{Code: code, Message: message}
}

// ValidateURL rejects empty input and anything that is not an http(s) URL.
// The scheme check is case-insensitive.
func ValidateURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return invalid(constant.ErrCodeEmptyURL, constant.ErrEmptyURL)
	}

	lowered := strings.ToLower(url)
	if !strings.HasPrefix(lowered, constant.SchemeHTTP) && !strings.HasPrefix(lowered, constant.SchemeHTTPS) {
		return invalid(constant.ErrCodeURLScheme, constant.ErrURLScheme)
	}

	return nil
}

// ValidateRequest checks the URL and the rendering/output parameters of req
func ValidateRequest(req Request) error {
	if err := ValidateURL(req.URL); err != nil {
		return err
	}

	if req.BoxSize <= 0 {
		return invalid(constant.ErrCodeBoxSize, constant.ErrBoxSizeNotPositive)
	}

	if req.Border < 0 {
		return invalid(constant.ErrCodeBorder, constant.ErrBorderNegative)
	}

	// Checked against the largest symbol so rendering never allocates past the limit.
	if _, ok := ImageSide(constant.MaxModules, req.BoxSize, req.Border); !ok {
		return invalid(constant.ErrCodeImageSize, constant.ErrImageTooLarge)
	}

	if req.Filename != "" && !isBareFilename(req.Filename) {
		return invalid(constant.ErrCodeFilename, constant.ErrFilenameHasPath)
	}

	return nil
}

// ImageSide returns the pixel side of a symbol of the given module count
// painted at boxSize with border quiet-zone modules. ok is false when the
// parameters are out of range or the side would exceed constant.MaxImageSide.
func ImageSide(modules, boxSize, border int) (side int, ok bool) {
	limit := constant.MaxImageSide
	if modules <= 0 || modules > limit || boxSize <= 0 || border < 0 || border > limit {
		return 0, false
	}

	span := modules + 2*border
	if span > limit/boxSize {
		return 0, false
	}

	return span * boxSize, true
}

// isBareFilename keeps the resolved output path inside the output directory
func isBareFilename(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
