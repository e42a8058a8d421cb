// Package app wires the configuration, logger and generator pipeline into a
// single command invocation.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/prasetyowira/qrgen/config"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/generator"
	"github.com/prasetyowira/qrgen/infrastructure/db"
	appLogger "github.com/prasetyowira/qrgen/infrastructure/logger"
	"github.com/prasetyowira/qrgen/infrastructure/qrcode"
	"github.com/prasetyowira/qrgen/infrastructure/storage"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Run resolves the configuration from args and the environment, generates one
// QR code and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Resolve(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			config.Usage(stdout)
			return ExitOK
		}
		printError(stderr, err)
		return ExitFailure
	}

	log, err := appLogger.New(appLogger.Options{
		LogDir:  cfg.LogDir,
		Level:   cfg.LogLevel,
		Console: stdout,
	})
	if err != nil {
		printError(stderr, errors.Wrap(err, "initialize logger"))
		return ExitFailure
	}
	defer log.Close()

	ctx := appLogger.NewRunContext()

	log.CtxInfo(ctx, constant.MsgStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})
	log.CtxInfo(ctx, constant.MsgParameters, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataURL:      cfg.URL,
			constant.DataOut:      cfg.OutputDir,
			constant.DataFilename: cfg.Filename,
			constant.DataBoxSize:  cfg.BoxSize,
			constant.DataBorder:   cfg.Border,
		},
	})

	recorder, closeRecorder := openRecorder(ctx, cfg, log)
	defer closeRecorder()

	now := time.Now
	service := generator.NewService(qrcode.NewRenderer(), storage.NewFileWriter(log, now), recorder, log).
		WithClock(now)

	path, err := service.Generate(ctx, generator.Request{
		URL:       cfg.URL,
		OutputDir: cfg.OutputDir,
		Filename:  cfg.Filename,
		BoxSize:   cfg.BoxSize,
		Border:    cfg.Border,
	})
	if err != nil {
		log.CtxError(ctx, constant.MsgFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error:           classify(err),
			Cause:           err,
		})
		printError(stderr, err)
		return ExitFailure
	}

	saved := fmt.Sprintf(constant.MsgSaved, path)
	log.CtxInfo(ctx, saved, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataPath: path,
		},
	})
	fmt.Fprintln(stdout, saved)

	return ExitOK
}

// openRecorder opens the history database when HISTORY_DB is set. A database
// that cannot be opened disables history for this run.
func openRecorder(ctx context.Context, cfg config.RunConfig, log *appLogger.Logger) (generator.Recorder, func()) {
	if cfg.HistoryDB == "" {
		return nil, func() {}
	}

	repo, err := db.NewSQLiteRepository(ctx, cfg.HistoryDB, log)
	if err != nil {
		log.CtxWarn(ctx, constant.MsgHistoryOpenFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Cause:           err,
			Data: map[string]interface{}{
				constant.DataHistoryDB: cfg.HistoryDB,
			},
		})
		return nil, func() {}
	}

	return repo, func() { _ = repo.Close() }
}

func classify(err error) *appLogger.CustomError {
	var invalid *generator.InvalidInputError
	if errors.As(err, &invalid) {
		return &appLogger.CustomError{
			Code:    invalid.Code,
			Message: invalid.Message,
			Type:    constant.ErrTypeValidation,
		}
	}
	return &appLogger.CustomError{
		Code:    constant.ErrCodeAppFailure,
		Message: err.Error(),
		Type:    constant.ErrTypeApp,
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "ERROR: %s\n", err)
}
