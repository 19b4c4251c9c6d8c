package tests

import (
	"testing"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogFlow(testDB *testingutil.TestDB) businessflow.BlogFlow {
	tagRepo := repository.NewTagRepository(testDB.DB)
	return businessflow.NewBlogFlow(
		repository.NewBlogRepository(testDB.DB),
		repository.NewCategoryRepository(testDB.DB),
		businessflow.NewTagResolver(tagRepo, false),
		nil, // no cache in tests
		false,
		utils.DefaultPageSize,
		utils.MaxPageSize,
		testDB.DB,
	)
}

func TestCreateBlog(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newBlogFlow(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Technology")
		require.NoError(t, err)

		t.Run("SlugFromTitle", func(t *testing.T) {
			blog, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Hello World!",
				CategoryID:  category.ID,
				Tags:        "go, web",
				Description: "body",
			})
			require.NoError(t, err)
			assert.Equal(t, "hello-world", blog.Slug)
			assert.Len(t, blog.Tags, 2)
		})

		t.Run("CollidingTitlesGetSuffixes", func(t *testing.T) {
			second, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Hello World!!!",
				CategoryID:  category.ID,
				Tags:        "go",
				Description: "body",
			})
			require.NoError(t, err)
			assert.Equal(t, "hello-world-2", second.Slug)

			third, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "hello; WORLD",
				CategoryID:  category.ID,
				Tags:        "go",
				Description: "body",
			})
			require.NoError(t, err)
			assert.Equal(t, "hello-world-3", third.Slug)
		})

		t.Run("UnknownCategoryRejected", func(t *testing.T) {
			_, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Stray",
				CategoryID:  99999,
				Tags:        "go",
				Description: "body",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUpdateBlog(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		tagRepo := repository.NewTagRepository(testDB.DB)
		flow := newBlogFlow(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Technology")
		require.NoError(t, err)

		t.Run("EquivalentTitleKeepsSlug", func(t *testing.T) {
			blog, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Stable Post",
				CategoryID:  category.ID,
				Tags:        "go",
				Description: "body",
			})
			require.NoError(t, err)
			require.Equal(t, "stable-post", blog.Slug)

			// Punctuation-only change normalizes to the same slug, so the
			// stored slug must not move.
			updated, err := flow.UpdateBlog(ctx, author.ID, blog.ID, &dto.UpdateBlogRequest{
				Title: utils.ToPtr("Stable, Post!"),
			})
			require.NoError(t, err)
			assert.Equal(t, "Stable, Post!", updated.Title)
			assert.Equal(t, "stable-post", updated.Slug)
		})

		t.Run("ChangedTitleRegeneratesSlug", func(t *testing.T) {
			blog, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Before Rename",
				CategoryID:  category.ID,
				Tags:        "go",
				Description: "body",
			})
			require.NoError(t, err)

			updated, err := flow.UpdateBlog(ctx, author.ID, blog.ID, &dto.UpdateBlogRequest{
				Title: utils.ToPtr("After Rename"),
			})
			require.NoError(t, err)
			assert.Equal(t, "after-rename", updated.Slug)
		})

		t.Run("NotOwnerDenied", func(t *testing.T) {
			blog, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Guarded",
				CategoryID:  category.ID,
				Tags:        "go",
				Description: "body",
			})
			require.NoError(t, err)

			_, err = flow.UpdateBlog(ctx, stranger.ID, blog.ID, &dto.UpdateBlogRequest{
				Title: utils.ToPtr("Hijacked"),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsBlogAccessDenied(err))
		})

		t.Run("RetagReclaimsOrphans", func(t *testing.T) {
			blog, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Retagged",
				CategoryID:  category.ID,
				Tags:        "soon-orphan, keeper",
				Description: "body",
			})
			require.NoError(t, err)

			// Attach "keeper" to a second blog so it survives the retag
			_, err = flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       "Keeper Holder",
				CategoryID:  category.ID,
				Tags:        "keeper",
				Description: "body",
			})
			require.NoError(t, err)

			_, err = flow.UpdateBlog(ctx, author.ID, blog.ID, &dto.UpdateBlogRequest{
				Tags: utils.ToPtr("fresh"),
			})
			require.NoError(t, err)

			orphan, err := tagRepo.ByTitle(ctx, "soon-orphan", false)
			require.NoError(t, err)
			assert.Nil(t, orphan, "tag without remaining blogs is reclaimed")

			keeper, err := tagRepo.ByTitle(ctx, "keeper", false)
			require.NoError(t, err)
			assert.NotNil(t, keeper, "tag still referenced elsewhere survives")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDeleteBlog(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		tagRepo := repository.NewTagRepository(testDB.DB)
		flow := newBlogFlow(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		reader, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Technology")
		require.NoError(t, err)

		blog, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
			Title:       "Doomed",
			CategoryID:  category.ID,
			Tags:        "solo-tag",
			Description: "body",
		})
		require.NoError(t, err)

		_, err = fixtures.CreateTestFavourite(reader.ID, blog.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestReview(reader.ID, blog.ID, utils.ToPtr(4))
		require.NoError(t, err)

		t.Run("NotOwnerDenied", func(t *testing.T) {
			err := flow.DeleteBlog(ctx, reader.ID, blog.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsBlogAccessDenied(err))
		})

		t.Run("CascadesAndReclaims", func(t *testing.T) {
			require.NoError(t, flow.DeleteBlog(ctx, author.ID, blog.ID))

			var favourites int64
			require.NoError(t, testDB.DB.Model(&models.Favourite{}).Where("blog_id = ?", blog.ID).Count(&favourites).Error)
			assert.Zero(t, favourites)

			var reviews int64
			require.NoError(t, testDB.DB.Model(&models.Review{}).Where("blog_id = ?", blog.ID).Count(&reviews).Error)
			assert.Zero(t, reviews)

			tag, err := tagRepo.ByTitle(ctx, "solo-tag", false)
			require.NoError(t, err)
			assert.Nil(t, tag)
		})

		t.Run("MissingBlog", func(t *testing.T) {
			err := flow.DeleteBlog(ctx, author.ID, 99999)
			require.Error(t, err)
			assert.True(t, businessflow.IsBlogNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListBlogs(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newBlogFlow(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Technology")
		require.NoError(t, err)

		titles := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
		for _, title := range titles {
			_, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
				Title:       title,
				CategoryID:  category.ID,
				Tags:        "common",
				Description: "body",
			})
			require.NoError(t, err)
		}

		t.Run("DefaultPageSize", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{})
			require.NoError(t, err)
			assert.Len(t, resp.Blogs, utils.DefaultPageSize)
			assert.Equal(t, int64(5), resp.Total)
			assert.Equal(t, 1, resp.Page)
			assert.Equal(t, utils.DefaultPageSize, resp.PageSize)
		})

		t.Run("ExplicitPage", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{Page: 2, PageSize: 3})
			require.NoError(t, err)
			assert.Len(t, resp.Blogs, 2)
			assert.Equal(t, int64(5), resp.Total)
		})

		t.Run("PageSizeClamped", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{PageSize: 5000})
			require.NoError(t, err)
			assert.Equal(t, utils.MaxPageSize, resp.PageSize)
		})

		t.Run("LatestBypassesPagination", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{Latest: "3", Page: 2, PageSize: 1})
			require.NoError(t, err)
			assert.Len(t, resp.Blogs, 3)
		})

		t.Run("LatestZeroReturnsEmpty", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{Latest: "0"})
			require.NoError(t, err)
			assert.Empty(t, resp.Blogs, "zero is a valid N and yields exactly zero rows")
			assert.Zero(t, resp.Total)
		})

		t.Run("LatestNegativeIgnored", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{Latest: "-3"})
			require.NoError(t, err)
			assert.Len(t, resp.Blogs, utils.DefaultPageSize, "negative latest falls back to pagination")
		})

		t.Run("LatestNonNumericIgnored", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{Latest: "many"})
			require.NoError(t, err)
			assert.Len(t, resp.Blogs, utils.DefaultPageSize, "malformed latest falls back to pagination")
		})

		t.Run("CategoryFilterFailsClosed", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{FilterByCategory: true, Category: "not-a-number"})
			require.NoError(t, err)
			assert.Empty(t, resp.Blogs)

			resp, err = flow.ListBlogs(ctx, businessflow.ListBlogsParams{FilterByCategory: true, Category: ""})
			require.NoError(t, err)
			assert.Empty(t, resp.Blogs)
		})

		t.Run("TagFilterFailsClosed", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{FilterByTags: true, Tags: " , ,"})
			require.NoError(t, err)
			assert.Empty(t, resp.Blogs)
		})

		t.Run("EmptySearchReturnsAll", func(t *testing.T) {
			resp, err := flow.ListBlogs(ctx, businessflow.ListBlogsParams{Search: "", PageSize: 100})
			require.NoError(t, err)
			assert.Len(t, resp.Blogs, 5)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGetBlogBySlug(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newBlogFlow(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Technology")
		require.NoError(t, err)

		blog, err := flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
			Title:       "Main Story",
			CategoryID:  category.ID,
			Tags:        "go",
			Description: "body",
		})
		require.NoError(t, err)

		_, err = flow.CreateBlog(ctx, author.ID, &dto.CreateBlogRequest{
			Title:       "Side Story",
			CategoryID:  category.ID,
			Tags:        "go",
			Description: "body",
		})
		require.NoError(t, err)

		t.Run("DetailWithRelated", func(t *testing.T) {
			detail, err := flow.GetBlogBySlug(ctx, blog.Slug, nil)
			require.NoError(t, err)
			assert.Equal(t, blog.ID, detail.ID)
			require.Len(t, detail.Related, 1)
			assert.Equal(t, "side-story", detail.Related[0].Slug)
		})

		t.Run("UnknownSlug", func(t *testing.T) {
			_, err := flow.GetBlogBySlug(ctx, "no-such-slug", nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsBlogNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
