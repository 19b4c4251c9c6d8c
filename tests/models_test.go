// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/amirphl/Kusanagi/models"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFullName(t *testing.T) {
	user := models.User{Username: "jdoe"}
	assert.Equal(t, "jdoe", user.FullName())

	user.FirstName = "Jane"
	assert.Equal(t, "Jane", user.FullName())

	user.LastName = "Doe"
	assert.Equal(t, "Jane Doe", user.FullName())
}

func TestReviewRatingValid(t *testing.T) {
	review := models.Review{Comment: "fine"}
	assert.True(t, review.RatingValid(), "absent rating is valid")

	review.Rating = utils.ToPtr(1)
	assert.True(t, review.RatingValid())

	review.Rating = utils.ToPtr(5)
	assert.True(t, review.RatingValid())

	review.Rating = utils.ToPtr(0)
	assert.False(t, review.RatingValid())

	review.Rating = utils.ToPtr(6)
	assert.False(t, review.RatingValid())
}

func TestUserSessionValidity(t *testing.T) {
	session := models.UserSession{
		IsActive:  utils.ToPtr(true),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	assert.False(t, session.IsExpired())
	assert.True(t, session.IsValid())

	session.ExpiresAt = time.Now().Add(-time.Hour)
	assert.True(t, session.IsExpired())
	assert.False(t, session.IsValid())

	session.ExpiresAt = time.Now().Add(time.Hour)
	session.IsActive = utils.ToPtr(false)
	assert.False(t, session.IsValid())
}

func TestModelPersistence(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("UserUniqueEmail", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			assert.NotZero(t, user.ID)

			dup := *user
			dup.ID = 0
			dup.Username = user.Username + "x"
			err = testDB.DB.Create(&dup).Error
			assert.Error(t, err, "duplicate email must be rejected")
		})

		t.Run("FavouritePairUnique", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			category, err := fixtures.CreateTestCategory("")
			require.NoError(t, err)
			blog, err := fixtures.CreateTestBlog(user.ID, category.ID, "")
			require.NoError(t, err)

			_, err = fixtures.CreateTestFavourite(user.ID, blog.ID)
			require.NoError(t, err)

			_, err = fixtures.CreateTestFavourite(user.ID, blog.ID)
			assert.Error(t, err, "same (user, blog) pair must be rejected")
		})

		t.Run("ReviewRatingCheckConstraint", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			category, err := fixtures.CreateTestCategory("")
			require.NoError(t, err)
			blog, err := fixtures.CreateTestBlog(user.ID, category.ID, "")
			require.NoError(t, err)

			_, err = fixtures.CreateTestReview(user.ID, blog.ID, utils.ToPtr(3))
			require.NoError(t, err)

			_, err = fixtures.CreateTestReview(user.ID, blog.ID, utils.ToPtr(9))
			assert.Error(t, err, "rating above 5 must be rejected")
		})

		t.Run("BlogSlugUnique", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			category, err := fixtures.CreateTestCategory("")
			require.NoError(t, err)
			blog, err := fixtures.CreateTestBlog(user.ID, category.ID, "")
			require.NoError(t, err)

			dup := models.Blog{
				UserID:      user.ID,
				CategoryID:  category.ID,
				Title:       "Other title",
				Slug:        blog.Slug,
				Description: "body",
			}
			err = testDB.DB.Create(&dup).Error
			assert.Error(t, err, "duplicate slug must be rejected")
		})

		return nil
	})
	require.NoError(t, err)
}
