package tests

import (
	"testing"

	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByEmail", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			found, err := repo.ByEmail(ctx, user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("ByEmailNotFound", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, "nonexistent@example.com")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByUsername", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			found, err := repo.ByUsername(ctx, user.Username)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("UpdateLastLogin", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			require.Nil(t, user.LastLoginAt)

			err = repo.UpdateLastLogin(ctx, user.ID)
			require.NoError(t, err)

			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			assert.NotNil(t, found.LastLoginAt)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTagRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByTitleExactMatch", func(t *testing.T) {
			_, err := fixtures.CreateTestTag("golang")
			require.NoError(t, err)

			found, err := repo.ByTitle(ctx, "golang", false)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "golang", found.Title)

			// Exact matching keeps differently cased titles distinct
			found, err = repo.ByTitle(ctx, "Golang", false)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByTitleCaseFolded", func(t *testing.T) {
			_, err := fixtures.CreateTestTag("Docker")
			require.NoError(t, err)

			found, err := repo.ByTitle(ctx, "docker", true)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Docker", found.Title)
		})

		t.Run("BlogRefCount", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			category, err := fixtures.CreateTestCategory("")
			require.NoError(t, err)
			tag, err := fixtures.CreateTestTag("shared")
			require.NoError(t, err)

			refs, err := repo.BlogRefCount(ctx, tag.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), refs)

			_, err = fixtures.CreateTestBlog(user.ID, category.ID, "First", tag)
			require.NoError(t, err)
			_, err = fixtures.CreateTestBlog(user.ID, category.ID, "Second", tag)
			require.NoError(t, err)

			refs, err = repo.BlogRefCount(ctx, tag.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), refs)
		})

		t.Run("Delete", func(t *testing.T) {
			tag, err := fixtures.CreateTestTag("ephemeral")
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, tag.ID))

			found, err := repo.ByID(ctx, tag.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestBlogRepositorySlugExists(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewBlogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("")
		require.NoError(t, err)

		blog := &models.Blog{
			UserID:      user.ID,
			CategoryID:  category.ID,
			Title:       "Hello World",
			Slug:        "hello-world",
			Description: "body",
		}
		require.NoError(t, testDB.DB.Create(blog).Error)

		t.Run("TakenSlug", func(t *testing.T) {
			exists, err := repo.SlugExists(ctx, "hello-world", 0, false)
			require.NoError(t, err)
			assert.True(t, exists)
		})

		t.Run("FreeSlug", func(t *testing.T) {
			exists, err := repo.SlugExists(ctx, "hello-world-2", 0, false)
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("ExcludesOwnRow", func(t *testing.T) {
			exists, err := repo.SlugExists(ctx, "hello-world", blog.ID, false)
			require.NoError(t, err)
			assert.False(t, exists, "a blog must not collide with its own slug")
		})

		t.Run("CaseFolding", func(t *testing.T) {
			exists, err := repo.SlugExists(ctx, "Hello-World", 0, false)
			require.NoError(t, err)
			assert.False(t, exists, "exact matching is case-sensitive")

			exists, err = repo.SlugExists(ctx, "Hello-World", 0, true)
			require.NoError(t, err)
			assert.True(t, exists, "folded matching ignores case")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestBlogRepositoryList(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewBlogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		reader, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		tech, err := fixtures.CreateTestCategory("Technology")
		require.NoError(t, err)
		travel, err := fixtures.CreateTestCategory("World Travel")
		require.NoError(t, err)

		goTag, err := fixtures.CreateTestTag("go")
		require.NoError(t, err)
		worldTag, err := fixtures.CreateTestTag("world")
		require.NoError(t, err)

		first, err := fixtures.CreateTestBlog(author.ID, tech.ID, "Hello World", goTag, worldTag)
		require.NoError(t, err)
		second, err := fixtures.CreateTestBlog(author.ID, travel.ID, "Postcards", worldTag)
		require.NoError(t, err)
		third, err := fixtures.CreateTestBlog(author.ID, tech.ID, "Channels in Go", goTag)
		require.NoError(t, err)

		_, err = fixtures.CreateTestFavourite(reader.ID, first.ID)
		require.NoError(t, err)

		t.Run("Unfiltered", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{})
			require.NoError(t, err)
			assert.Len(t, blogs, 3)
		})

		t.Run("AnonymousNeverFavourited", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{})
			require.NoError(t, err)
			for _, blog := range blogs {
				assert.False(t, blog.IsFavourited)
			}
		})

		t.Run("FavouriteAnnotation", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{ViewerID: &reader.ID})
			require.NoError(t, err)

			favourited := map[uint]bool{}
			for _, blog := range blogs {
				favourited[blog.ID] = blog.IsFavourited
			}
			assert.True(t, favourited[first.ID])
			assert.False(t, favourited[second.ID])
			assert.False(t, favourited[third.ID])
		})

		t.Run("CategoryFilter", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{CategoryID: &tech.ID})
			require.NoError(t, err)
			assert.Len(t, blogs, 2)
		})

		t.Run("NonexistentCategoryEmpty", func(t *testing.T) {
			missing := uint(99999)
			blogs, err := repo.List(ctx, repository.BlogQuery{CategoryID: &missing})
			require.NoError(t, err)
			assert.Empty(t, blogs)
		})

		t.Run("TagFilter", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{TagTitles: []string{"world"}})
			require.NoError(t, err)
			assert.Len(t, blogs, 2)
		})

		t.Run("TagFilterAnyOf", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{TagTitles: []string{"go", "world"}})
			require.NoError(t, err)
			// A blog carrying both tags still appears exactly once
			assert.Len(t, blogs, 3)
		})

		t.Run("SearchSpansTitleCategoryAndTags", func(t *testing.T) {
			// "world" hits the first blog via title AND tag, the second via
			// category title and tag; each row appears once.
			blogs, err := repo.List(ctx, repository.BlogQuery{SearchTerm: "world"})
			require.NoError(t, err)
			require.Len(t, blogs, 2)

			ids := map[uint]bool{}
			for _, blog := range blogs {
				require.False(t, ids[blog.ID], "duplicate row in search results")
				ids[blog.ID] = true
			}
			assert.True(t, ids[first.ID])
			assert.True(t, ids[second.ID])
		})

		t.Run("SearchCaseInsensitive", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{SearchTerm: "WORLD"})
			require.NoError(t, err)
			assert.Len(t, blogs, 2)
		})

		t.Run("CountList", func(t *testing.T) {
			count, err := repo.CountList(ctx, repository.BlogQuery{})
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)

			count, err = repo.CountList(ctx, repository.BlogQuery{CategoryID: &tech.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)

			// The first blog matches via both tags but counts once
			count, err = repo.CountList(ctx, repository.BlogQuery{TagTitles: []string{"go", "world"}})
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)

			count, err = repo.CountList(ctx, repository.BlogQuery{SearchTerm: "world"})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)

			// Limit and offset do not change the count
			count, err = repo.CountList(ctx, repository.BlogQuery{Limit: 1, Offset: 1})
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
		})

		t.Run("Pagination", func(t *testing.T) {
			pageOne, err := repo.List(ctx, repository.BlogQuery{Limit: 2, Offset: 0})
			require.NoError(t, err)
			assert.Len(t, pageOne, 2)

			pageTwo, err := repo.List(ctx, repository.BlogQuery{Limit: 2, Offset: 2})
			require.NoError(t, err)
			assert.Len(t, pageTwo, 1)
		})

		t.Run("AuthorFilter", func(t *testing.T) {
			blogs, err := repo.List(ctx, repository.BlogQuery{UserID: &reader.ID})
			require.NoError(t, err)
			assert.Empty(t, blogs)

			blogs, err = repo.List(ctx, repository.BlogQuery{UserID: &author.ID})
			require.NoError(t, err)
			assert.Len(t, blogs, 3)
		})

		t.Run("BySlug", func(t *testing.T) {
			blog, err := repo.BySlug(ctx, first.Slug, &reader.ID)
			require.NoError(t, err)
			require.NotNil(t, blog)
			assert.Equal(t, first.ID, blog.ID)
			assert.True(t, blog.IsFavourited)
			assert.Equal(t, "Technology", blog.Category.Title)
		})

		t.Run("ListRelated", func(t *testing.T) {
			related, err := repo.ListRelated(ctx, tech.ID, first.ID)
			require.NoError(t, err)
			require.Len(t, related, 1)
			assert.Equal(t, third.ID, related[0].ID)
		})

		t.Run("ListFavouritesOf", func(t *testing.T) {
			blogs, err := repo.ListFavouritesOf(ctx, reader.ID)
			require.NoError(t, err)
			require.Len(t, blogs, 1)
			assert.Equal(t, first.ID, blogs[0].ID)
			assert.True(t, blogs[0].IsFavourited)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestFavouriteRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewFavouriteRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("")
		require.NoError(t, err)
		blog, err := fixtures.CreateTestBlog(user.ID, category.ID, "")
		require.NoError(t, err)

		t.Run("ByUserAndBlogAbsent", func(t *testing.T) {
			favourite, err := repo.ByUserAndBlog(ctx, user.ID, blog.ID)
			require.NoError(t, err)
			assert.Nil(t, favourite)
		})

		t.Run("SaveAndLookup", func(t *testing.T) {
			_, err := fixtures.CreateTestFavourite(user.ID, blog.ID)
			require.NoError(t, err)

			favourite, err := repo.ByUserAndBlog(ctx, user.ID, blog.ID)
			require.NoError(t, err)
			require.NotNil(t, favourite)
			assert.Equal(t, blog.ID, favourite.BlogID)
		})

		t.Run("DeleteByUserAndBlog", func(t *testing.T) {
			affected, err := repo.DeleteByUserAndBlog(ctx, user.ID, blog.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), affected)

			affected, err = repo.DeleteByUserAndBlog(ctx, user.ID, blog.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), affected, "second delete finds nothing")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTagResolverAgainstStore(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		tagRepo := repository.NewTagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("GetOrCreate", func(t *testing.T) {
			resolver := businessflow.NewTagResolver(tagRepo, false)

			tags, err := resolver.Resolve(ctx, "go, docker, go")
			require.NoError(t, err)
			require.Len(t, tags, 2)

			// Resolving again reuses the stored rows
			again, err := resolver.Resolve(ctx, "docker,go")
			require.NoError(t, err)
			require.Len(t, again, 2)
			assert.ElementsMatch(t,
				[]uint{tags[0].ID, tags[1].ID},
				[]uint{again[0].ID, again[1].ID})
		})

		t.Run("CaseFoldingMergesTitles", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			exact := businessflow.NewTagResolver(tagRepo, false)
			tags, err := exact.Resolve(ctx, "Go")
			require.NoError(t, err)
			require.Len(t, tags, 1)

			// Exact matching treats "go" as a new tag
			more, err := exact.Resolve(ctx, "go")
			require.NoError(t, err)
			require.Len(t, more, 1)
			assert.NotEqual(t, tags[0].ID, more[0].ID)

			// Folded matching reuses whichever row exists
			folded := businessflow.NewTagResolver(tagRepo, true)
			merged, err := folded.Resolve(ctx, "GO")
			require.NoError(t, err)
			require.Len(t, merged, 1)
			assert.Contains(t, []uint{tags[0].ID, more[0].ID}, merged[0].ID)
		})

		t.Run("ReclaimOrphans", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			category, err := fixtures.CreateTestCategory("")
			require.NoError(t, err)

			orphan, err := fixtures.CreateTestTag("orphan")
			require.NoError(t, err)
			shared, err := fixtures.CreateTestTag("shared")
			require.NoError(t, err)

			_, err = fixtures.CreateTestBlog(user.ID, category.ID, "Keeper", shared)
			require.NoError(t, err)

			resolver := businessflow.NewTagResolver(tagRepo, false)
			err = resolver.ReclaimOrphans(ctx, []models.Tag{*orphan, *shared})
			require.NoError(t, err)

			gone, err := tagRepo.ByID(ctx, orphan.ID)
			require.NoError(t, err)
			assert.Nil(t, gone, "unreferenced tag is reclaimed")

			kept, err := tagRepo.ByID(ctx, shared.ID)
			require.NoError(t, err)
			assert.NotNil(t, kept, "referenced tag survives")
		})

		return nil
	})
	require.NoError(t, err)
}
