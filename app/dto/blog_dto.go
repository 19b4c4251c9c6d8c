package dto

// CreateBlogRequest represents the payload for creating a blog post.
// Tags is a single comma-separated string, e.g. "go, web, api".
type CreateBlogRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	CategoryID  uint    `json:"category_id" validate:"required"`
	Tags        string  `json:"tags" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Banner      *string `json:"banner,omitempty" validate:"omitempty,max=500"`
}

// UpdateBlogRequest represents the payload for updating a blog post.
// All fields are optional; absent fields keep their stored values.
type UpdateBlogRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	CategoryID  *uint   `json:"category_id,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	Description *string `json:"description,omitempty"`
	Banner      *string `json:"banner,omitempty" validate:"omitempty,max=500"`
}

// BlogDTO represents a blog post in list and detail responses
type BlogDTO struct {
	ID           uint        `json:"id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Description  string      `json:"description"`
	Banner       *string     `json:"banner,omitempty"`
	Author       string      `json:"author"`
	Category     CategoryDTO `json:"category"`
	Tags         []TagDTO    `json:"tags"`
	IsFavourited bool        `json:"is_favourited"`
	CreatedAt    string      `json:"created_at"`
}

// BlogDetailDTO is BlogDTO plus the blog's reviews and related posts
type BlogDetailDTO struct {
	BlogDTO
	Reviews []ReviewDTO `json:"reviews"`
	Related []BlogDTO   `json:"related,omitempty"`
}

// BlogListResponse represents a paginated list of blogs
type BlogListResponse struct {
	Blogs    []BlogDTO `json:"blogs"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// CreateCategoryRequest represents the payload for creating a category
type CreateCategoryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}
