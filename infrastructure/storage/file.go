package storage

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/generator"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

// FileWriter saves rasters as PNG files
type FileWriter struct {
	log *logger.Logger
	now func() time.Time
}

// NewFileWriter creates a writer. now names files when no filename is given;
// nil means time.Now.
func NewFileWriter(log *logger.Logger, now func() time.Time) *FileWriter {
	if now == nil {
		now = time.Now
	}
	return &FileWriter{
		log: log,
		now: now,
	}
}

// Save creates dir if needed and writes img to dir/filename as PNG. An empty
// filename gets a timestamped name. An existing file is overwritten.
func (w *FileWriter) Save(ctx context.Context, img image.Image, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.logFailure(ctx, constant.ErrCodeMkdir, dir, err)
		return "", errors.Wrap(err, "create output directory")
	}

	if filename == "" {
		filename = generator.DefaultFilename(w.now())
	}
	path := filepath.Join(dir, filename)

	if _, err := os.Stat(path); err == nil {
		w.log.CtxWarn(ctx, constant.MsgOverwriting, logger.LoggerInfo{
			ContextFunction: constant.CtxSave,
			Data: map[string]interface{}{
				constant.DataPath: path,
			},
		})
	}

	if err := writePNG(path, img); err != nil {
		w.logFailure(ctx, constant.ErrCodeWrite, path, err)
		return "", err
	}

	w.log.CtxDebug(ctx, "PNG written", logger.LoggerInfo{
		ContextFunction: constant.CtxSave,
		Data: map[string]interface{}{
			constant.DataPath: path,
		},
	})

	return path, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "encode png")
	}

	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close output file")
	}

	return nil
}

func (w *FileWriter) logFailure(ctx context.Context, code, path string, err error) {
	w.log.CtxError(ctx, "Failed to write QR code", logger.LoggerInfo{
		ContextFunction: constant.CtxSave,
		Error: &logger.CustomError{
			Code:    code,
			Message: err.Error(),
			Type:    constant.ErrTypeStorage,
		},
		Data: map[string]interface{}{
			constant.DataPath: path,
		},
	})
}
