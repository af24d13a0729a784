package model

import "time"

// Interaction is the audit record persisted for each answered
// question. It carries metadata only, never the generated answer text.
type Interaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Question     string    `gorm:"size:128;not null" json:"question"`
	Category     string    `gorm:"size:16;not null;index" json:"category"`
	WebEnhanced  bool      `gorm:"not null" json:"web_enhanced"`
	SourceCount  int       `gorm:"not null" json:"source_count"`
	ProcessingMS int64     `gorm:"not null" json:"processing_ms"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

type UsageStats struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
	LastHour   int64            `json:"last_hour"`
}
