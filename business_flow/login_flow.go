package businessflow

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/services"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// LoginFlow handles authentication of existing users
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionToken string) error
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.UserSessionRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates a user by email or username and issues a session
func (l *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	user, err := l.findUser(ctx, req.Identifier)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrUserNotFound)
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrIncorrectPassword)
	}

	var session *models.UserSession
	err = repository.WithTransaction(ctx, l.db, func(txCtx context.Context) error {
		var err error
		session, err = createSession(txCtx, l.sessionRepo, l.tokenService, user.ID, metadata)
		if err != nil {
			return err
		}
		return l.userRepo.UpdateLastLogin(txCtx, user.ID)
	})
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	return &dto.LoginResponse{
		Message: "Login successful",
		User:    ToAuthUserDTO(*user),
		Session: ToUserSessionDTO(*session),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new session
func (l *LoginFlowImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	claims, err := l.tokenService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", err)
	}
	if claims.TokenType != "refresh" {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", fmt.Errorf("token is not a refresh token"))
	}

	user, err := l.userRepo.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", ErrUserNotFound)
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", ErrAccountInactive)
	}

	var session *models.UserSession
	err = repository.WithTransaction(ctx, l.db, func(txCtx context.Context) error {
		// Retire the session the old refresh token belongs to.
		old, err := l.sessionRepo.ByRefreshToken(txCtx, req.RefreshToken)
		if err != nil {
			return err
		}
		if old != nil {
			if err := l.sessionRepo.ExpireSession(txCtx, old.ID); err != nil {
				return err
			}
		}

		session, err = createSession(txCtx, l.sessionRepo, l.tokenService, user.ID, metadata)
		return err
	})
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", err)
	}

	_ = l.tokenService.RevokeToken(req.RefreshToken)

	return &dto.LoginResponse{
		Message: "Token refreshed successfully",
		User:    ToAuthUserDTO(*user),
		Session: ToUserSessionDTO(*session),
	}, nil
}

// Logout expires the session and revokes its access token
func (l *LoginFlowImpl) Logout(ctx context.Context, sessionToken string) error {
	session, err := l.sessionRepo.BySessionToken(ctx, sessionToken)
	if err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if session != nil {
		if err := l.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
			return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
		}
	}

	_ = l.tokenService.RevokeToken(sessionToken)
	return nil
}

func (l *LoginFlowImpl) findUser(ctx context.Context, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		return l.userRepo.ByEmail(ctx, identifier)
	}
	return l.userRepo.ByUsername(ctx, identifier)
}
