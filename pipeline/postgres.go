package pipeline

import (
	"fmt"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productRow is the persisted form of a ProductRecord.
type productRow struct {
	ID             int             `gorm:"primaryKey;autoIncrement"`
	Retailer       string          `gorm:"type:text;not null;index"`
	Brand          string          `gorm:"type:text"`
	Name           string          `gorm:"type:text;not null"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	URL            string          `gorm:"type:text;not null;uniqueIndex"`
	VolumeLiters   float64
	AlcoholPercent string `gorm:"type:text"`
	StandardDrinks float64
	Efficiency     float64   `gorm:"index"`
	ImageURL       string    `gorm:"type:text"`
	ScrapedAt      time.Time `gorm:"type:timestamp with time zone"`
}

func (productRow) TableName() string {
	return "products"
}

var upsertColumns = []string{
	"retailer", "brand", "name", "price", "volume_liters",
	"alcohol_percent", "standard_drinks", "efficiency", "image_url", "scraped_at",
}

// PostgresWriter persists records through gorm. In populate mode rows are
// appended; in update mode existing rows are updated by URL.
type PostgresWriter struct {
	db        *gorm.DB
	mode      string
	batchSize int
}

// NewPostgresWriter connects to dsn and migrates the products table.
func NewPostgresWriter(dsn, mode string, batchSize int) (*PostgresWriter, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&productRow{}); err != nil {
		return nil, fmt.Errorf("migrate products: %w", err)
	}
	return newPostgresWriter(db, mode, batchSize), nil
}

func newPostgresWriter(db *gorm.DB, mode string, batchSize int) *PostgresWriter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &PostgresWriter{db: db, mode: mode, batchSize: batchSize}
}

func (pw *PostgresWriter) Write(records []*models.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]productRow, len(records))
	for i, r := range records {
		rows[i] = productRow{
			Retailer:       r.Retailer.String(),
			Brand:          r.Brand,
			Name:           r.Name,
			Price:          r.Price,
			URL:            r.URL,
			VolumeLiters:   r.VolumeLiters,
			AlcoholPercent: r.AlcoholPercent,
			StandardDrinks: r.StandardDrinks,
			Efficiency:     r.Efficiency,
			ImageURL:       r.ImageURL,
			ScrapedAt:      r.ScrapedAt,
		}
	}

	tx := pw.db
	if pw.mode == config.ModeUpdate {
		tx = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		})
	}
	if err := tx.CreateInBatches(rows, pw.batchSize).Error; err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	sqlDB, err := pw.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	return sqlDB.Close()
}

// Validate checks the database is still reachable.
func (pw *PostgresWriter) Validate() error {
	sqlDB, err := pw.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
