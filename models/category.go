package models

// Category is a topic grouping for questions. Categories are seeded at boot
// and read-only through the API.
type Category struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:64;not null" json:"name"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}
