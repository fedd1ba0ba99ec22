package lookuplog

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	LogLookup(ctx context.Context, record LookupRecord) error
	GetRecentLookup(ctx context.Context, locationKey string) (*LookupRecord, error)
}

type LookupSQLRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *LookupSQLRepository {
	return &LookupSQLRepository{db: db}
}

func (r *LookupSQLRepository) LogLookup(ctx context.Context, record LookupRecord) error {
	record.ID = 0
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	return r.db.WithContext(ctx).Create(&record).Error
}

// GetRecentLookup returns gorm.ErrRecordNotFound when the key was never looked up.
func (r *LookupSQLRepository) GetRecentLookup(ctx context.Context, locationKey string) (*LookupRecord, error) {
	var record LookupRecord
	err := r.db.WithContext(ctx).Where("location_key = ?", locationKey).Order("created_at DESC").First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
