package models

import "time"

// Review rating bounds, inclusive.
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a free-text comment with an optional 1..5 rating left on a blog.
// Reviews are create-only: never updated or deleted through the API.
// Table: reviews
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_reviews_user_id" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	BlogID    uint      `gorm:"not null;index:idx_reviews_blog_id" json:"blog_id"`
	Blog      Blog      `gorm:"foreignKey:BlogID;references:ID;constraint:OnDelete:CASCADE" json:"blog,omitempty"`
	Comment   string    `gorm:"size:500;not null" json:"comment"`
	Rating    *int      `gorm:"check:rating >= 1 AND rating <= 5" json:"rating,omitempty"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_reviews_created_at" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }

// RatingValid reports whether the rating is absent or within bounds.
func (r *Review) RatingValid() bool {
	return r.Rating == nil || (*r.Rating >= MinReviewRating && *r.Rating <= MaxReviewRating)
}

// ReviewFilter represents filter criteria for review queries
type ReviewFilter struct {
	ID            *uint
	UserID        *uint
	BlogID        *uint
	Rating        *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
