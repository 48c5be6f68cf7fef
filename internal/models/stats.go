package models

import "time"

// APICallStat is the running request count for one (method, endpoint)
// pair. Rows are created on first observation and only ever incremented.
type APICallStat struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	Method    string    `gorm:"size:16;not null;uniqueIndex:idx_method_endpoint" json:"method"`
	Endpoint  string    `gorm:"size:255;not null;uniqueIndex:idx_method_endpoint" json:"endpoint"`
	Requests  int64     `gorm:"not null;default:0" json:"requests"`
	UpdatedAt time.Time `json:"-"`
}

func (APICallStat) TableName() string {
	return "api_call_stats"
}
