package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/blescope/blescope/internal/core/domain"
)

// SQLiteExporter implements ports.RecordExporter using GORM and SQLite.
// It is a write-only export sink: sessions are never read back.
type SQLiteExporter struct {
	db *gorm.DB
}

// PacketModel is the GORM model for exported packet records. Optional
// fields map to nullable columns.
type PacketModel struct {
	ID           uint   `gorm:"primaryKey"`
	SessionID    string `gorm:"index"`
	ScanCycle    *int
	RXUnixMs     *int64
	TXCounter    *int
	TXUnixMs     *int64
	DeltaMs      *int64
	RSSIDbm      int
	TXDeviceName string
}

// NewSQLiteExporter opens (or creates) the export database and migrates
// the schema.
func NewSQLiteExporter(path string) (*SQLiteExporter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to enable gorm tracing: %w", err)
	}

	if err := db.AutoMigrate(&PacketModel{}); err != nil {
		return nil, err
	}

	return &SQLiteExporter{db: db}, nil
}

// SaveSession writes the session's records in one batched insert.
func (e *SQLiteExporter) SaveSession(ctx context.Context, s domain.Session, deviceName string) error {
	if len(s.Records) == 0 {
		return nil
	}

	models := make([]PacketModel, 0, len(s.Records))
	for _, r := range s.Records {
		if r.RSSIDbm == nil {
			// Incomplete records never reach an exporter; guard anyway
			// so a bad caller cannot violate the column constraint.
			continue
		}
		models = append(models, PacketModel{
			SessionID:    s.ID,
			ScanCycle:    r.ScanCycle,
			RXUnixMs:     r.RXUnixMs,
			TXCounter:    r.TXCounter,
			TXUnixMs:     r.TXUnixMs,
			DeltaMs:      r.DeltaMs,
			RSSIDbm:      *r.RSSIDbm,
			TXDeviceName: deviceName,
		})
	}
	if len(models) == 0 {
		return nil
	}

	return e.db.WithContext(ctx).CreateInBatches(models, 200).Error
}

// Close closes the underlying database handle.
func (e *SQLiteExporter) Close() error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
