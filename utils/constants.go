package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// Pagination defaults for public blog listings
const (
	// DefaultPageSize is the number of blogs per page when the client does not ask for more
	DefaultPageSize = 2

	// MaxPageSize caps the page_size query parameter
	MaxPageSize = 100
)

// Cache keys for the blog listing cache
const (
	// LatestBlogsCacheKey stores the serialized latest-N public blog listing
	LatestBlogsCacheKey = "blogs:latest"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
