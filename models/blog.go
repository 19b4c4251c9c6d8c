package models

import "time"

// Blog is the central entity: a post owned by exactly one author, belonging to
// one category, carrying zero or more tags.
// Table: blogs
// Slug is unique across all blogs and regenerated when the title changes.
// Deleting a blog cascades to its favourites and reviews.
type Blog struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"not null;index:idx_blogs_user_id" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CategoryID uint     `gorm:"not null;index:idx_blogs_category_id" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Tags       []Tag    `gorm:"many2many:blog_tags;" json:"tags,omitempty"`

	Title       string    `gorm:"size:250;not null" json:"title"`
	Slug        string    `gorm:"size:270;not null;uniqueIndex:uk_blogs_slug" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Banner      *string   `gorm:"size:512" json:"banner,omitempty"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_blogs_created_at" json:"created_at"`

	Favourites []Favourite `gorm:"foreignKey:BlogID" json:"-"`
	Reviews    []Review    `gorm:"foreignKey:BlogID" json:"reviews,omitempty"`

	// IsFavourited is a read-time annotation computed per caller; never stored.
	IsFavourited bool `gorm:"-" json:"is_favourited"`
}

func (Blog) TableName() string { return "blogs" }

// BlogFilter represents filter criteria for blog queries
type BlogFilter struct {
	ID            *uint
	UserID        *uint
	CategoryID    *uint
	Slug          *string
	TagTitles     []string // blog qualifies when it carries at least one of these
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
