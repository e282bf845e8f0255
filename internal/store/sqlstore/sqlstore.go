// Package sqlstore implements the store contract on a relational database
// via GORM: Postgres in production, SQLite in tests. All documents live in
// one table keyed (collection, scope, id) with a JSON payload column, so a
// transaction and its embedded lines are written and read as one row.
package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ledgerbook/internal/store"
)

// document is the GORM model backing every collection.
type document struct {
	Collection string         `gorm:"primaryKey;size:64"`
	Scope      string         `gorm:"primaryKey;size:64"`
	ID         string         `gorm:"primaryKey;size:64;column:id"`
	Version    int64          `gorm:"not null"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (document) TableName() string { return "documents" }

type sqlStore struct {
	db *gorm.DB
}

// New wraps an open GORM handle as a store.Store.
func New(db *gorm.DB) store.Store {
	return &sqlStore{db: db}
}

// AutoMigrate creates the documents table. Used by the SQLite test setup;
// production schemas are managed by SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&document{})
}

func (s *sqlStore) Get(ctx context.Context, collection, scope, id string) (*store.Doc, error) {
	var row document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND scope = ? AND id = ?", collection, scope, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &store.Doc{ID: row.ID, Scope: row.Scope, Version: row.Version, Data: []byte(row.Data)}, nil
}

func (s *sqlStore) List(ctx context.Context, collection, scope string) ([]store.Doc, error) {
	q := s.db.WithContext(ctx).Where("collection = ?", collection)
	if scope != "" {
		q = q.Where("scope = ?", scope)
	}

	var rows []document
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]store.Doc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, store.Doc{ID: row.ID, Scope: row.Scope, Version: row.Version, Data: []byte(row.Data)})
	}
	return docs, nil
}

func (s *sqlStore) Create(ctx context.Context, collection string, doc *store.Doc) error {
	row := document{
		Collection: collection,
		Scope:      doc.Scope,
		ID:         doc.ID,
		Version:    1,
		Data:       datatypes.JSON(doc.Data),
	}

	// OnConflict DoNothing keeps the duplicate check portable across
	// Postgres and SQLite without parsing driver error strings.
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrConflict
	}
	doc.Version = 1
	return nil
}

func (s *sqlStore) Update(ctx context.Context, collection string, doc *store.Doc) error {
	newVersion := doc.Version + 1
	res := s.db.WithContext(ctx).Model(&document{}).
		Where("collection = ? AND scope = ? AND id = ? AND version = ?",
			collection, doc.Scope, doc.ID, doc.Version).
		Updates(map[string]interface{}{
			"version": newVersion,
			"data":    datatypes.JSON(doc.Data),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a stale version from a missing document.
		if _, err := s.Get(ctx, collection, doc.Scope, doc.ID); err != nil {
			return err
		}
		return store.ErrVersionConflict
	}
	doc.Version = newVersion
	return nil
}

func (s *sqlStore) Delete(ctx context.Context, collection, scope, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND scope = ? AND id = ?", collection, scope, id).
		Delete(&document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *sqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
