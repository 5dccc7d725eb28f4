package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/internal/users"
	"github.com/sca-hospital/activos-backend/pkg/auth"
	"github.com/sca-hospital/activos-backend/pkg/auth/session"
	"github.com/sca-hospital/activos-backend/pkg/config"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/security"
	"gorm.io/gorm"
)

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// LoginResult is the token pair handed to a successfully authenticated user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Service handles authentication: credential checks, token minting and
// session lifecycle. Authorization decisions live elsewhere; an account
// without a role can still log in.
type Service struct {
	repo     users.Repository
	sessions sessionManager
	audits   audit.Recorder
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService wires the authentication service.
func NewService(repo users.Repository, sessions sessionManager, audits audit.Recorder, jwtCfg config.JWTConfig) (*Service, error) {
	if repo == nil || sessions == nil || audits == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth service dependencies missing")
	}
	return &Service{
		repo:     repo,
		sessions: sessions,
		audits:   audits,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

// Login verifies the credentials and mints an access/refresh token pair.
// Unknown usernames and wrong passwords produce the same error so the
// endpoint does not leak which accounts exist.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, invalidCredentials()
	}

	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	jti := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     roleOf(user),
		JTI:      jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, jti)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating session")
	}

	if _, err := s.audits.Record(ctx, &user.ID, enums.AuditActionLogin, map[string]any{
		"username": user.Username,
	}); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Logout revokes the session behind the presented access token.
func (s *Service) Logout(ctx context.Context, userID int64, username, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoking session")
	}
	_, err := s.audits.Record(ctx, &userID, enums.AuditActionLogout, map[string]any{
		"username": username,
	})
	return err
}

// Refresh rotates the refresh token and mints a fresh access token. The
// user record is re-read so a role change or deactivation since login takes
// effect on the new token.
func (s *Service) Refresh(ctx context.Context, userID int64, oldJTI, refreshToken string) (*LoginResult, error) {
	if strings.TrimSpace(oldJTI) == "" || strings.TrimSpace(refreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	newJTI, newRefresh, err := s.sessions.Rotate(ctx, oldJTI, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotating session")
	}

	accessToken, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     roleOf(user),
		JTI:      newJTI,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		User:         user,
	}, nil
}

func roleOf(user *models.User) *enums.Role {
	if user.Role == nil {
		return nil
	}
	role, err := enums.ParseRole(user.Role.Name)
	if err != nil {
		return nil
	}
	return &role
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
}
