package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
	"github.com/okian/runboard/pkg/metrics"
)

const (
	tableName            = "leaderboard"
	defaultSeedBatchSize = 100
	defaultMaxOpenConns  = 10
	defaultSlowThreshold = 200 * time.Millisecond
	nanosPerMillisecond  = 1e6
)

// entryRow is the persisted shape of an entry.
type entryRow struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string  `gorm:"column:name;type:text;not null"`
	Link     *string `gorm:"column:link;type:text"`
	Time     int64   `gorm:"column:time;not null;index:idx_leaderboard_order,priority:1"`
	Items    int     `gorm:"column:items;not null;default:0;index:idx_leaderboard_order,priority:2"`
	Hardmode bool    `gorm:"column:hardmode;not null;default:false"`
}

func (entryRow) TableName() string { return tableName }

func toRow(e types.Entry) entryRow {
	return entryRow{
		Name:     e.Name,
		Link:     e.Link,
		Time:     e.Time,
		Items:    e.Items,
		Hardmode: e.Hardmode,
	}
}

func (r entryRow) entry() types.Entry {
	return types.Entry{
		ID:       r.ID,
		Name:     r.Name,
		Link:     r.Link,
		Time:     r.Time,
		Items:    r.Items,
		Hardmode: r.Hardmode,
	}
}

// leaderboardOrder sorts by time then items. id is a final tie-break so that
// consecutive pages never overlap or skip rows.
var leaderboardOrder = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "time"}},
	{Column: clause.Column{Name: "items"}},
	{Column: clause.Column{Name: "id"}},
}}

// SQLStore is a Store backed by a relational database through gorm.
// Every value derived from a request is bound as a statement parameter.
type SQLStore struct {
	db            *gorm.DB
	driver        string
	seed          []types.Entry
	seedBatchSize int
	maxOpenConns  int
	slowThreshold time.Duration
	logger        logger.Logger
}

var _ Store = (*SQLStore)(nil)

// Open connects to the database selected by driver and dsn. The schema is
// not touched until Initialize is called.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	const op = "repository.open"

	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	s := &SQLStore{
		driver:        name,
		seedBatchSize: defaultSeedBatchSize,
		maxOpenConns:  defaultMaxOpenConns,
		slowThreshold: defaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("repository")
	}

	db, err := gorm.Open(dialector(name, dsn), &gorm.Config{
		Logger: newSQLLogger(s.logger, s.slowThreshold),
	})
	if err != nil {
		return nil, newStorageError(op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, newStorageError(op, err)
	}
	if name == DriverSQLite {
		// One connection serializes writers and keeps the file lock simple.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(s.maxOpenConns)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, newStorageError(op, err)
	}

	s.db = db
	s.logger.Info(ctx, "database opened", logger.String("driver", name))
	return s, nil
}

// Driver returns the normalized driver name.
func (s *SQLStore) Driver() string { return s.driver }

// Initialize creates or migrates the leaderboard table and seeds it if empty.
func (s *SQLStore) Initialize(ctx context.Context) error {
	const op = "repository.initialize"

	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&entryRow{}); err != nil {
		return newStorageError(op, err)
	}
	if len(s.seed) == 0 {
		return nil
	}

	var count int64
	if err := db.Model(&entryRow{}).Count(&count).Error; err != nil {
		return newStorageError(op, err)
	}
	if count > 0 {
		s.logger.Debug(ctx, "table not empty; skipping seed", logger.Int64("entries", count))
		return nil
	}

	rows := make([]entryRow, len(s.seed))
	for i, e := range s.seed {
		rows[i] = toRow(e)
	}
	if err := db.CreateInBatches(rows, s.seedBatchSize).Error; err != nil {
		return newStorageError(op, err)
	}
	metrics.RecordEntriesSeeded(len(rows))
	s.logger.Info(ctx, "leaderboard seeded", logger.Int("entries", len(rows)))
	return nil
}

// AddEntry inserts one row.
func (s *SQLStore) AddEntry(ctx context.Context, e types.Entry) error {
	const op = "repository.add_entry"
	start := time.Now()

	row := toRow(e)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return newStorageError(op, err)
	}
	metrics.RecordStoreWriteLatency(float64(time.Since(start).Nanoseconds()) / nanosPerMillisecond)
	return nil
}

// GetEntries returns one ordered page.
func (s *SQLStore) GetEntries(ctx context.Context, page types.Page) ([]types.Entry, error) {
	const op = "repository.get_entries"

	if page.Limit < 0 || page.Offset < 0 {
		return nil, fmt.Errorf("%s: %w: limit=%d offset=%d", op, ErrInvalidPage, page.Limit, page.Offset)
	}
	if page.Limit == 0 {
		return []types.Entry{}, nil
	}
	return s.find(op, s.ordered(ctx, page.Filter).Limit(page.Limit).Offset(page.Offset))
}

// GetAllEntries returns every matching entry in order.
func (s *SQLStore) GetAllEntries(ctx context.Context, f types.Filter) ([]types.Entry, error) {
	const op = "repository.get_all_entries"
	return s.find(op, s.ordered(ctx, f))
}

// Count returns the number of matching entries.
func (s *SQLStore) Count(ctx context.Context, f types.Filter) (int64, error) {
	const op = "repository.count"

	var n int64
	if err := s.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, newStorageError(op, err)
	}
	return n, nil
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	const op = "repository.ping"

	sqlDB, err := s.db.DB()
	if err != nil {
		return newStorageError(op, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return newStorageError(op, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	const op = "repository.close"

	sqlDB, err := s.db.DB()
	if err != nil {
		return newStorageError(op, err)
	}
	if err := sqlDB.Close(); err != nil {
		return newStorageError(op, err)
	}
	return nil
}

func (s *SQLStore) filtered(ctx context.Context, f types.Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&entryRow{})
	if f.HardmodeOnly {
		q = q.Where(clause.Eq{Column: clause.Column{Name: "hardmode"}, Value: true})
	}
	return q
}

func (s *SQLStore) ordered(ctx context.Context, f types.Filter) *gorm.DB {
	return s.filtered(ctx, f).Order(leaderboardOrder)
}

func (s *SQLStore) find(op string, q *gorm.DB) ([]types.Entry, error) {
	start := time.Now()

	var rows []entryRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, newStorageError(op, err)
	}
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Nanoseconds()) / nanosPerMillisecond)

	entries := make([]types.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}
