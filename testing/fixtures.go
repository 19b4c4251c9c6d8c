package testing

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a test user with a unique email and username
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	user := &models.User{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("jane.doe.%s@example.com", randomDigits),
		Username:     fmt.Sprintf("jane_%s", randomDigits),
		FirstName:    "Jane",
		LastName:     "Doe",
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	err = tf.DB.DB.Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestCategory creates a test category with a unique title
func (tf *TestFixtures) CreateTestCategory(title string) (*models.Category, error) {
	if title == "" {
		title = fmt.Sprintf("Category %d", rand.Intn(10000000))
	}

	category := &models.Category{
		Title: title,
		Slug:  slug.Make(title),
	}

	err := tf.DB.DB.Create(category).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test category: %w", err)
	}

	return category, nil
}

// CreateTestTag creates a test tag
func (tf *TestFixtures) CreateTestTag(title string) (*models.Tag, error) {
	if title == "" {
		title = fmt.Sprintf("tag-%d", rand.Intn(10000000))
	}

	tag := &models.Tag{
		Title: title,
		Slug:  slug.Make(title),
	}

	err := tf.DB.DB.Create(tag).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test tag: %w", err)
	}

	return tag, nil
}

// CreateTestBlog creates a test blog for the given author and category,
// optionally attaching tags
func (tf *TestFixtures) CreateTestBlog(userID, categoryID uint, title string, tags ...*models.Tag) (*models.Blog, error) {
	if title == "" {
		title = fmt.Sprintf("Test Blog %d", rand.Intn(10000000))
	}

	blog := &models.Blog{
		UserID:      userID,
		CategoryID:  categoryID,
		Title:       title,
		Slug:        fmt.Sprintf("%s-%d", slug.Make(title), rand.Intn(10000000)),
		Description: "A body of test prose long enough to exercise listing and detail views.",
	}

	err := tf.DB.DB.Create(blog).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test blog: %w", err)
	}

	if len(tags) > 0 {
		tagValues := make([]models.Tag, 0, len(tags))
		for _, t := range tags {
			tagValues = append(tagValues, *t)
		}
		err = tf.DB.DB.Model(blog).Association("Tags").Replace(tagValues)
		if err != nil {
			return nil, fmt.Errorf("failed to attach tags to test blog: %w", err)
		}
	}

	return blog, nil
}

// CreateTestFavourite marks a blog as favourited by a user
func (tf *TestFixtures) CreateTestFavourite(userID, blogID uint) (*models.Favourite, error) {
	favourite := &models.Favourite{
		UserID: userID,
		BlogID: blogID,
	}

	err := tf.DB.DB.Create(favourite).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test favourite: %w", err)
	}

	return favourite, nil
}

// CreateTestReview creates a test review on a blog
func (tf *TestFixtures) CreateTestReview(userID, blogID uint, rating *int) (*models.Review, error) {
	review := &models.Review{
		UserID:  userID,
		BlogID:  blogID,
		Comment: "A thoughtful test review.",
		Rating:  rating,
	}

	err := tf.DB.DB.Create(review).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test review: %w", err)
	}

	return review, nil
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates a test user session
func (tf *TestFixtures) CreateTestSession(userID uint) (*models.UserSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.UserSession{
		CorrelationID: uuid.New(),
		UserID:        userID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	err = tf.DB.DB.Create(session).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}
