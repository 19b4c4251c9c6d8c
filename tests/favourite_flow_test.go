package tests

import (
	"testing"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavouriteFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewFavouriteFlow(
			repository.NewFavouriteRepository(testDB.DB),
			repository.NewBlogRepository(testDB.DB),
			testDB.DB,
		)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("")
		require.NoError(t, err)
		blog, err := fixtures.CreateTestBlog(user.ID, category.ID, "Pinned")
		require.NoError(t, err)

		t.Run("Add", func(t *testing.T) {
			require.NoError(t, flow.AddFavourite(ctx, user.ID, blog.ID))
		})

		t.Run("AddTwiceConflicts", func(t *testing.T) {
			err := flow.AddFavourite(ctx, user.ID, blog.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsAlreadyInFavourites(err))
		})

		t.Run("AddUnknownBlog", func(t *testing.T) {
			err := flow.AddFavourite(ctx, user.ID, 99999)
			require.Error(t, err)
			assert.True(t, businessflow.IsBlogNotFound(err))
		})

		t.Run("List", func(t *testing.T) {
			blogs, err := flow.ListFavourites(ctx, user.ID)
			require.NoError(t, err)
			require.Len(t, blogs, 1)
			assert.Equal(t, blog.ID, blogs[0].ID)
			assert.True(t, blogs[0].IsFavourited)
		})

		t.Run("Remove", func(t *testing.T) {
			require.NoError(t, flow.RemoveFavourite(ctx, user.ID, blog.ID))

			blogs, err := flow.ListFavourites(ctx, user.ID)
			require.NoError(t, err)
			assert.Empty(t, blogs)
		})

		t.Run("RemoveAbsent", func(t *testing.T) {
			err := flow.RemoveFavourite(ctx, user.ID, blog.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotInFavourites(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestReviewFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewReviewFlow(
			repository.NewReviewRepository(testDB.DB),
			repository.NewBlogRepository(testDB.DB),
			repository.NewUserRepository(testDB.DB),
			testDB.DB,
		)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("")
		require.NoError(t, err)
		blog, err := fixtures.CreateTestBlog(user.ID, category.ID, "Reviewed")
		require.NoError(t, err)

		t.Run("CreateWithRating", func(t *testing.T) {
			review, err := flow.CreateReview(ctx, user.ID, blog.Slug, &dto.CreateReviewRequest{
				Comment: "Loved it",
				Rating:  utils.ToPtr(5),
			})
			require.NoError(t, err)
			assert.Equal(t, "Loved it", review.Comment)
			assert.Equal(t, user.Username, review.Username)
		})

		t.Run("CreateWithoutRating", func(t *testing.T) {
			review, err := flow.CreateReview(ctx, user.ID, blog.Slug, &dto.CreateReviewRequest{
				Comment: "No stars from me",
			})
			require.NoError(t, err)
			assert.Nil(t, review.Rating)
		})

		t.Run("RatingOutOfRange", func(t *testing.T) {
			_, err := flow.CreateReview(ctx, user.ID, blog.Slug, &dto.CreateReviewRequest{
				Comment: "Too good",
				Rating:  utils.ToPtr(6),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsRatingOutOfRange(err))
		})

		t.Run("UnknownBlog", func(t *testing.T) {
			_, err := flow.CreateReview(ctx, user.ID, "no-such-slug", &dto.CreateReviewRequest{
				Comment: "Lost",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsBlogNotFound(err))
		})

		t.Run("ListNewestFirst", func(t *testing.T) {
			reviews, err := flow.ListReviews(ctx, blog.Slug)
			require.NoError(t, err)
			assert.Len(t, reviews, 2)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCategoryFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewCategoryFlow(
			repository.NewCategoryRepository(testDB.DB),
			repository.NewTagRepository(testDB.DB),
			testDB.DB,
		)
		ctx := testingutil.CreateTestContext()

		t.Run("CreateAndList", func(t *testing.T) {
			created, err := flow.CreateCategory(ctx, &dto.CreateCategoryRequest{Title: "World Travel"})
			require.NoError(t, err)
			assert.Equal(t, "world-travel", created.Slug)

			categories, err := flow.ListCategories(ctx)
			require.NoError(t, err)
			assert.Len(t, categories, 1)
		})

		t.Run("CreateIsIdempotentByTitle", func(t *testing.T) {
			again, err := flow.CreateCategory(ctx, &dto.CreateCategoryRequest{Title: "World Travel"})
			require.NoError(t, err)

			categories, err := flow.ListCategories(ctx)
			require.NoError(t, err)
			assert.Len(t, categories, 1, "existing title returns the stored row")
			assert.Equal(t, categories[0].ID, again.ID)
		})

		t.Run("ListTags", func(t *testing.T) {
			_, err := fixtures.CreateTestTag("go")
			require.NoError(t, err)
			_, err = fixtures.CreateTestTag("docker")
			require.NoError(t, err)

			tags, err := flow.ListTags(ctx)
			require.NoError(t, err)
			assert.Len(t, tags, 2)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProfileFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewProfileFlow(
			repository.NewUserRepository(testDB.DB),
			repository.NewBlogRepository(testDB.DB),
			testDB.DB,
		)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		other, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("")
		require.NoError(t, err)
		_, err = fixtures.CreateTestBlog(user.ID, category.ID, "Mine")
		require.NoError(t, err)
		_, err = fixtures.CreateTestBlog(other.ID, category.ID, "Theirs")
		require.NoError(t, err)

		t.Run("GetProfileOwnBlogsOnly", func(t *testing.T) {
			profile, err := flow.GetProfile(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.Email, profile.User.Email)
			require.Len(t, profile.Blogs, 1)
			assert.Equal(t, "Mine", profile.Blogs[0].Title)
		})

		t.Run("UpdateProfile", func(t *testing.T) {
			profile, err := flow.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
				FirstName: utils.ToPtr("Janet"),
			})
			require.NoError(t, err)
			assert.Equal(t, "Janet", profile.User.FirstName)
		})

		t.Run("UpdateEmailTaken", func(t *testing.T) {
			_, err := flow.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
				Email: utils.ToPtr(other.Email),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("UnknownUser", func(t *testing.T) {
			_, err := flow.GetProfile(ctx, 99999)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
