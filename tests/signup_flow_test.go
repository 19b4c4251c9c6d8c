package tests

import (
	"testing"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/services"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		15*time.Minute,
		24*time.Hour,
		"kusanagi-test",
		"kusanagi-test-clients",
		false,
		"", "",
		"test-secret-key-that-is-long-enough",
		nil,
	)
	require.NoError(t, err)
	return tokenService
}

func newSignupRequest(suffix string) *dto.SignupRequest {
	return &dto.SignupRequest{
		Username:        "writer" + suffix,
		Email:           "writer" + suffix + "@example.com",
		FirstName:       "Wren",
		LastName:        "Writer",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
	}
}

func TestSignupFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewSignupFlow(
			repository.NewUserRepository(testDB.DB),
			repository.NewUserSessionRepository(testDB.DB),
			newTestTokenService(t),
			testDB.DB,
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := testingutil.CreateTestContext()

		t.Run("Success", func(t *testing.T) {
			resp, err := flow.Signup(ctx, newSignupRequest("1"), metadata)
			require.NoError(t, err)
			assert.NotZero(t, resp.User.ID)
			assert.Equal(t, "writer1", resp.User.Username)
			assert.NotEmpty(t, resp.Session.SessionToken)
			assert.NotEmpty(t, resp.Session.RefreshToken)

			var user models.User
			require.NoError(t, testDB.DB.Where("email = ?", "writer1@example.com").First(&user).Error)
			assert.NotEqual(t, "SecurePass123!", user.PasswordHash, "password must be stored hashed")
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			req := newSignupRequest("2")
			_, err := flow.Signup(ctx, req, metadata)
			require.NoError(t, err)

			dup := newSignupRequest("2b")
			dup.Email = req.Email
			_, err = flow.Signup(ctx, dup, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			req := newSignupRequest("3")
			_, err := flow.Signup(ctx, req, metadata)
			require.NoError(t, err)

			dup := newSignupRequest("3b")
			dup.Username = req.Username
			_, err = flow.Signup(ctx, dup, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUsernameAlreadyExists(err))
		})

		return nil
	})
	require.NoError(t, err)
}
