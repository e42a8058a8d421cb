package db

import (
	"context"
	"time"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/generator"
	appLogger "github.com/prasetyowira/qrgen/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteRepository implements generator.Recorder on top of SQLite
type SQLiteRepository struct {
	db  *gorm.DB
	log *appLogger.Logger
}

// GenerationModel is the GORM model for a history entry
type GenerationModel struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"index"`
	URL       string `gorm:"not null"`
	Path      string `gorm:"not null"`
	Version   int
	BoxSize   int
	Border    int
	CreatedAt time.Time
}

// GormLogger routes GORM's logs through the application logger
type GormLogger struct {
	log *appLogger.Logger
}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.log.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.log.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.log.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations at debug level
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		l.log.CtxWarn(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	l.log.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteRepository opens (creating if needed) the history database at dbPath
func NewSQLiteRepository(ctx context.Context, dbPath string, log *appLogger.Logger) (*SQLiteRepository, error) {
	log.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{log: log},
	})
	if err != nil {
		log.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	if err := db.WithContext(ctx).AutoMigrate(&GenerationModel{}); err != nil {
		log.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	return &SQLiteRepository{db: db, log: log}, nil
}

// Record persists a history entry and sets its ID
func (r *SQLiteRepository) Record(ctx context.Context, rec *generator.Record) error {
	model := GenerationModel{
		RunID:     rec.RunID,
		URL:       rec.URL,
		Path:      rec.Path,
		Version:   rec.Version,
		BoxSize:   rec.BoxSize,
		Border:    rec.Border,
		CreatedAt: rec.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.CtxError(ctx, "Failed to insert generation record", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStore,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: rec.Path,
			},
		})
		return err
	}

	rec.ID = model.ID
	return nil
}

// List returns the most recent history entries, newest first. limit <= 0
// returns everything.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]generator.Record, error) {
	var models []GenerationModel

	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		r.log.CtxError(ctx, "Failed to list generation records", appLogger.LoggerInfo{
			ContextFunction: constant.CtxList,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	records := make([]generator.Record, 0, len(models))
	for _, m := range models {
		records = append(records, generator.Record{
			ID:        m.ID,
			RunID:     m.RunID,
			URL:       m.URL,
			Path:      m.Path,
			Version:   m.Version,
			BoxSize:   m.BoxSize,
			Border:    m.Border,
			CreatedAt: m.CreatedAt,
		})
	}

	return records, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		r.log.CtxError(context.Background(), "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	return sqlDB.Close()
}
