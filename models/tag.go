package models

import "time"

// Tag is a free-form label attached to blogs.
// Table: tags
// Titles are not unique at schema level; the application dedupes via
// get-or-create and garbage-collects tags with zero remaining blog references.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:150;not null;index:idx_tags_title" json:"title"`
	Slug      string    `gorm:"size:170;index:idx_tags_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_tags_created_at" json:"created_at"`

	Blogs []Blog `gorm:"many2many:blog_tags;" json:"-"`
}

func (Tag) TableName() string { return "tags" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID            *uint
	Title         *string
	Slug          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
