package models

import "time"

// Favourite is the (user, blog) join entity; a pair appears at most once.
// Table: favourites
type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uk_favourites_user_blog;index:idx_favourites_user_id" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	BlogID    uint      `gorm:"not null;uniqueIndex:uk_favourites_user_blog;index:idx_favourites_blog_id" json:"blog_id"`
	Blog      Blog      `gorm:"foreignKey:BlogID;references:ID;constraint:OnDelete:CASCADE" json:"blog,omitempty"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Favourite) TableName() string { return "favourites" }

// FavouriteFilter represents filter criteria for favourite queries
type FavouriteFilter struct {
	ID            *uint
	UserID        *uint
	BlogID        *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
