package dto

// CreateReviewRequest represents the payload for posting a review on a blog
type CreateReviewRequest struct {
	Comment string `json:"comment" validate:"required,min=1,max=500"`
	Rating  *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// ReviewDTO represents a review in API responses
type ReviewDTO struct {
	ID        uint   `json:"id"`
	Comment   string `json:"comment"`
	Rating    *int   `json:"rating,omitempty"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}
