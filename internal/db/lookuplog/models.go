package lookuplog

import (
	"time"
)

// LookupRecord is one successful weather lookup.
type LookupRecord struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	LocationKey string    `json:"location_key" gorm:"index:idx_location_key;index:idx_location_key_created_at"`
	City        string    `json:"city"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Units       string    `json:"units"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_created_at;index:idx_location_key_created_at"`
}

func (LookupRecord) TableName() string {
	return "lookup_records"
}
