package generator

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

// Request is one QR generation job
type Request struct {
	URL       string
	OutputDir string
	Filename  string
	BoxSize   int
	Border    int
}

// QRImage is a rendered QR symbol
type QRImage struct {
	Raster  image.Image
	Version int
	Modules int
}

// Record is a history entry for a saved QR code
type Record struct {
	ID        uint      `json:"id"`
	RunID     string    `json:"run_id"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	Version   int       `json:"version"`
	BoxSize   int       `json:"box_size"`
	Border    int       `json:"border"`
	CreatedAt time.Time `json:"created_at"`
}

// Renderer turns text into a QR raster
type Renderer interface {
	Render(text string, boxSize, border int) (*QRImage, error)
}

// Writer persists a raster and returns the path it was written to
type Writer interface {
	Save(ctx context.Context, img image.Image, dir, filename string) (string, error)
}

// Recorder stores generation history
type Recorder interface {
	Record(ctx context.Context, rec *Record) error
}

// Service runs the validate, render, save pipeline
type Service struct {
	renderer Renderer
	writer   Writer
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new generator service. recorder may be nil.
func NewService(renderer Renderer, writer Writer, recorder Recorder, log *logger.Logger) *Service {
	return &Service{
		renderer: renderer,
		writer:   writer,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// WithClock sets the clock used for default file names and history
// timestamps. nil keeps the current clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// DefaultFilename returns the file name used when none is given, e.g.
// qr_20240131-154502.png
func DefaultFilename(t time.Time) string {
	return constant.FilenamePrefix + t.Format(constant.FilenameTimeLayout) + constant.FilenameExt
}

// Generate validates req, renders the QR code and saves it, returning the
// path of the written file. One clock reading names the file and stamps the
// history entry.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	at := s.now()

	if err := ValidateRequest(req); err != nil {
		code := ""
		var ie *InvalidInputError
		if errors.As(err, &ie) {
			code = ie.Code
		}
		// the caller reports the failure; keep this entry for debugging only
		s.log.CtxDebug(ctx, constant.MsgValidationFailed, logger.LoggerInfo{
			ContextFunction: constant.CtxValidate,
			Error: &logger.CustomError{
				Code:    code,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataURL: req.URL,
			},
		})
		return "", err
	}

	img, err := s.renderer.Render(req.URL, req.BoxSize, req.Border)
	if err != nil {
		s.log.CtxError(ctx, "Failed to encode QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxRender,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEncode,
				Message: err.Error(),
				Type:    constant.ErrTypeEncoding,
			},
			Data: map[string]interface{}{
				constant.DataURL: req.URL,
			},
		})
		return "", err
	}

	s.log.CtxDebug(ctx, constant.MsgRendered, logger.LoggerInfo{
		ContextFunction: constant.CtxRender,
		Data: map[string]interface{}{
			constant.DataVersion: img.Version,
			constant.DataModules: img.Modules,
			constant.DataWidth:   img.Raster.Bounds().Dx(),
		},
	})

	filename := req.Filename
	if filename == "" {
		filename = DefaultFilename(at)
	}

	path, err := s.writer.Save(ctx, img.Raster, req.OutputDir, filename)
	if err != nil {
		return "", err
	}

	s.record(ctx, req, img, path, at)

	return path, nil
}

// record appends a history entry; failures are logged and otherwise ignored
// because the image is already on disk.
func (s *Service) record(ctx context.Context, req Request, img *QRImage, path string, at time.Time) {
	if s.recorder == nil {
		return
	}

	rec := &Record{
		RunID:     logger.RequestID(ctx),
		URL:       req.URL,
		Path:      path,
		Version:   img.Version,
		BoxSize:   req.BoxSize,
		Border:    req.Border,
		CreatedAt: at,
	}

	if err := s.recorder.Record(ctx, rec); err != nil {
		s.log.CtxWarn(ctx, constant.MsgHistoryFailed, logger.LoggerInfo{
			ContextFunction: constant.CtxRecord,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistory,
				Message: err.Error(),
				Type:    constant.ErrTypeHistory,
			},
			Data: map[string]interface{}{
				constant.DataPath: path,
			},
		})
		return
	}

	s.log.CtxDebug(ctx, constant.MsgHistoryRecorded, logger.LoggerInfo{
		ContextFunction: constant.CtxRecord,
		Data: map[string]interface{}{
			constant.DataPath: path,
		},
	})
}
