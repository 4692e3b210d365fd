package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dataset-manifest/core/database"
	"dataset-manifest/core/dataset"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize is the number of rows per INSERT statement.
const DefaultBatchSize = 500

// ErrNotFound is returned when no row matches a lookup.
var ErrNotFound = errors.New("image not found")

// Catalog reads and writes the images table.
type Catalog struct {
	db        *gorm.DB
	batchSize int
}

// New creates a catalog on db.
func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db, batchSize: DefaultBatchSize}
}

// WithBatchSize returns a copy of c that inserts n rows per statement.
func (c *Catalog) WithBatchSize(n int) *Catalog {
	if n < 1 {
		n = DefaultBatchSize
	}
	return &Catalog{db: c.db, batchSize: n}
}

// Migrate creates or updates the images table.
func (c *Catalog) Migrate(ctx context.Context) error {
	if err := c.db.WithContext(ctx).AutoMigrate(&Image{}); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return nil
}

// Verify checks that the images table has every catalog column.
func (c *Catalog) Verify(ctx context.Context) error {
	missing, err := database.MissingColumns(c.db.WithContext(ctx), Image{}.TableName(), Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table images is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Upsert inserts records, replacing rows with the same image id. Unmatched
// records are ignored. It returns the number of rows written.
func (c *Catalog) Upsert(ctx context.Context, records []dataset.Record) (int, error) {
	rows := make([]Image, 0, len(records))
	for _, r := range records {
		if !r.Matched() {
			continue
		}
		row, err := fromRecord(r)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(&rows, c.batchSize).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %d images: %w", len(rows), err)
	}
	return len(rows), nil
}

// ByID returns the record of one image.
func (c *Catalog) ByID(ctx context.Context, id int64) (dataset.Record, error) {
	var row Image
	err := c.db.WithContext(ctx).Where(map[string]any{"image_id": id}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dataset.Record{}, ErrNotFound
	}
	if err != nil {
		return dataset.Record{}, fmt.Errorf("failed to load image %d: %w", id, err)
	}
	return row.Record()
}

// ByHash returns every record whose file has the given fingerprint.
func (c *Catalog) ByHash(ctx context.Context, hash string) ([]dataset.Record, error) {
	return c.find(ctx, map[string]any{"file_hash": strings.ToLower(hash)})
}

// ByPartition returns the records of one partition.
func (c *Catalog) ByPartition(ctx context.Context, partition string) ([]dataset.Record, error) {
	return c.find(ctx, map[string]any{"partition": partition})
}

func (c *Catalog) find(ctx context.Context, cond map[string]any) ([]dataset.Record, error) {
	var rows []Image
	if err := c.db.WithContext(ctx).Where(cond).Order("image_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	out := make([]dataset.Record, 0, len(rows))
	for _, row := range rows {
		r, err := row.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
