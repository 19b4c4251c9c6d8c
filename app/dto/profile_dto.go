package dto

// ProfileResponse represents the authenticated user's profile
type ProfileResponse struct {
	User  AuthUserDTO `json:"user"`
	Blogs []BlogDTO   `json:"blogs"`
}

// UpdateProfileRequest represents editable profile fields
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}
