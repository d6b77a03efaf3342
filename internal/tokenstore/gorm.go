package tokenstore

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// row mirrors the k/v/e layout of the gofiber/storage SQL backends.
type row struct {
	Key     string `gorm:"column:k;primaryKey;size:64"`
	Value   []byte `gorm:"column:v"`
	Expires int64  `gorm:"column:e;not null;index"`
}

func (row) TableName() string { return table }

// Gorm is a fiber.Storage kept in a table of the application database.
// It serves engines without a gofiber/storage backend in use, SQLite in particular.
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGorm migrates the table and returns the storage.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if db == nil {
		return nil, ErrStorageNil
	}

	if err := db.AutoMigrate(&row{}); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Gorm{db: db, now: time.Now}, nil
}

// Get returns nil for missing or expired keys.
func (s *Gorm) Get(key string) ([]byte, error) {
	var r row

	res := s.db.Where("k = ?", key).Limit(1).Find(&r)
	if res.Error != nil {
		return nil, res.Error //nolint:wrapcheck
	}

	if res.RowsAffected == 0 || (r.Expires != 0 && r.Expires <= s.now().Unix()) {
		return nil, nil
	}

	return r.Value, nil
}

// Set stores val, exp zero means no expiry. Expired rows are purged on the way.
func (s *Gorm) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	now := s.now()

	r := row{Key: key, Value: val}
	if exp > 0 {
		r.Expires = now.Add(exp).Unix()
	}

	if err := s.db.Where("e <> 0 AND e <= ?", now.Unix()).Delete(&row{}).Error; err != nil {
		return err //nolint:wrapcheck
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v", "e"}),
	}).Create(&r).Error //nolint:wrapcheck
}

// Delete removes key.
func (s *Gorm) Delete(key string) error {
	return s.db.Where("k = ?", key).Delete(&row{}).Error
}

// Reset removes every key.
func (s *Gorm) Reset() error {
	return s.db.Where("1 = 1").Delete(&row{}).Error
}

// Close leaves the shared database open.
func (s *Gorm) Close() error { return nil }
