package models

import "time"

// Category groups blogs under a single topic.
// Table: categories
// Title is unique; the slug is recomputed from the title on every save and is
// not uniqueness-guarded beyond what transliteration yields.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:150;not null;uniqueIndex:uk_categories_title" json:"title"`
	Slug      string    `gorm:"size:170;index:idx_categories_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_categories_created_at" json:"created_at"`

	Blogs []Blog `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string { return "categories" }

// CategoryFilter represents filter criteria for category queries
type CategoryFilter struct {
	ID            *uint
	Title         *string
	Slug          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
