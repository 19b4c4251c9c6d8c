// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToAuthUserDTO converts a user model to AuthUserDTO for authentication responses
func ToAuthUserDTO(user models.User) dto.AuthUserDTO {
	return dto.AuthUserDTO{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func ToUserSessionDTO(session models.UserSession) dto.UserSessionDTO {
	refresh := ""
	if session.RefreshToken != nil {
		refresh = *session.RefreshToken
	}
	return dto.UserSessionDTO{
		SessionToken: session.SessionToken,
		RefreshToken: refresh,
		ExpiresIn:    int(time.Until(session.ExpiresAt).Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
}

// ToCategoryDTO converts a category model to its response shape
func ToCategoryDTO(category models.Category) dto.CategoryDTO {
	return dto.CategoryDTO{
		ID:    category.ID,
		Title: category.Title,
		Slug:  category.Slug,
	}
}

// ToTagDTO converts a tag model to its response shape
func ToTagDTO(tag models.Tag) dto.TagDTO {
	return dto.TagDTO{
		ID:    tag.ID,
		Title: tag.Title,
		Slug:  tag.Slug,
	}
}

// ToReviewDTO converts a review model to its response shape
func ToReviewDTO(review models.Review) dto.ReviewDTO {
	d := dto.ReviewDTO{
		ID:        review.ID,
		Comment:   review.Comment,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
	if review.User.ID != 0 {
		d.Username = review.User.Username
	}
	return d
}

// ToBlogDTO converts a blog model with its preloaded relations to the response shape
func ToBlogDTO(blog models.Blog) dto.BlogDTO {
	d := dto.BlogDTO{
		ID:           blog.ID,
		Title:        blog.Title,
		Slug:         blog.Slug,
		Description:  blog.Description,
		Banner:       blog.Banner,
		IsFavourited: blog.IsFavourited,
		CreatedAt:    blog.CreatedAt.Format(time.RFC3339),
	}
	if blog.Category.ID != 0 {
		d.Category = ToCategoryDTO(blog.Category)
	}
	if blog.User.ID != 0 {
		d.Author = blog.User.Username
	}
	for _, t := range blog.Tags {
		d.Tags = append(d.Tags, ToTagDTO(t))
	}
	return d
}

// ToBlogDetailDTO is ToBlogDTO plus the reviews of the blog
func ToBlogDetailDTO(blog models.Blog) dto.BlogDetailDTO {
	d := dto.BlogDetailDTO{
		BlogDTO: ToBlogDTO(blog),
	}
	for _, r := range blog.Reviews {
		d.Reviews = append(d.Reviews, ToReviewDTO(r))
	}
	return d
}

// ToBlogDTOs converts a slice of blog models
func ToBlogDTOs(blogs []*models.Blog) []dto.BlogDTO {
	out := make([]dto.BlogDTO, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, ToBlogDTO(*b))
	}
	return out
}
