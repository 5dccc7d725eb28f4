package auth

import (
	"context"
	"testing"

	"github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/internal/users"
	pkgauth "github.com/sca-hospital/activos-backend/pkg/auth"
	"github.com/sca-hospital/activos-backend/pkg/auth/session"
	"github.com/sca-hospital/activos-backend/pkg/config"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
	"github.com/sca-hospital/activos-backend/pkg/security"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	rows map[int64]*models.User
}

func (f *fakeUserRepo) WithTx(tx *gorm.DB) users.Repository { return f }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, row := range f.rows {
		if row.Username == username {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error          { return nil }
func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error)     { return nil, nil }

type fakeSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-token", nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	return "new-jti", "new-refresh-token", nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

type fakeRecorder struct {
	actions []enums.AuditAction
	actors  []*int64
}

func (f *fakeRecorder) WithTx(tx *gorm.DB) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, actorID *int64, action enums.AuditAction, detail map[string]any) (*models.AuditEntry, error) {
	f.actions = append(f.actions, action)
	f.actors = append(f.actors, actorID)
	return &models.AuditEntry{}, nil
}

func (f *fakeRecorder) List(ctx context.Context, params pagination.Params) ([]models.AuditEntry, error) {
	return nil, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "sca-test",
		ExpirationMinutes: 15,
	}
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hashing seed password: %v", err)
	}
	return &models.User{
		ID:           7,
		Username:     "jperez",
		FullName:     "Juana Perez",
		PasswordHash: hash,
		IsActive:     true,
		Role:         &models.Role{ID: 2, Name: string(enums.RoleTechnician)},
	}
}

func TestService_Login(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	sessions := &fakeSessions{}
	recorder := &fakeRecorder{}

	svc, err := NewService(repo, sessions, recorder, testJWTConfig())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	result, err := svc.Login(context.Background(), "jperez", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected tokens: %+v", result)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "jperez" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role == nil || *claims.Role != enums.RoleTechnician {
		t.Fatalf("unexpected role claim: %v", claims.Role)
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatalf("session not keyed by jti: %v vs %s", sessions.generated, claims.ID)
	}

	if len(recorder.actions) != 1 || recorder.actions[0] != enums.AuditActionLogin {
		t.Fatalf("unexpected audit actions: %v", recorder.actions)
	}
	if recorder.actors[0] == nil || *recorder.actors[0] != 7 {
		t.Fatalf("unexpected audit actor: %v", recorder.actors[0])
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	recorder := &fakeRecorder{}
	svc, _ := NewService(repo, &fakeSessions{}, recorder, testJWTConfig())

	_, err := svc.Login(context.Background(), "jperez", "wrong-password")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(recorder.actions) != 0 {
		t.Fatal("failed login must not record a LOGIN audit entry")
	}
}

func TestService_Login_UnknownUserSameError(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	svc, _ := NewService(repo, &fakeSessions{}, &fakeRecorder{}, testJWTConfig())

	_, unknownErr := svc.Login(context.Background(), "ghost", "correct-horse-battery")
	_, wrongErr := svc.Login(context.Background(), "jperez", "wrong-password")

	if unknownErr == nil || wrongErr == nil {
		t.Fatal("expected both logins to fail")
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

func TestService_Login_DisabledAccount(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	user.IsActive = false
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	svc, _ := NewService(repo, &fakeSessions{}, &fakeRecorder{}, testJWTConfig())

	_, err := svc.Login(context.Background(), "jperez", "correct-horse-battery")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestService_Logout(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	sessions := &fakeSessions{}
	recorder := &fakeRecorder{}
	svc, _ := NewService(repo, sessions, recorder, testJWTConfig())

	if err := svc.Logout(context.Background(), 7, "jperez", "some-jti"); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "some-jti" {
		t.Fatalf("session not revoked: %v", sessions.revoked)
	}
	if len(recorder.actions) != 1 || recorder.actions[0] != enums.AuditActionLogout {
		t.Fatalf("unexpected audit actions: %v", recorder.actions)
	}
}

func TestService_Refresh(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	svc, _ := NewService(repo, &fakeSessions{}, &fakeRecorder{}, testJWTConfig())

	result, err := svc.Refresh(context.Background(), 7, "old-jti", "refresh-token")
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if result.RefreshToken != "new-refresh-token" {
		t.Fatalf("unexpected refresh token: %s", result.RefreshToken)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if claims.ID != "new-jti" {
		t.Fatalf("access token not bound to rotated session: %s", claims.ID)
	}
}

func TestService_Refresh_InvalidToken(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	sessions := &fakeSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc, _ := NewService(repo, sessions, &fakeRecorder{}, testJWTConfig())

	_, err := svc.Refresh(context.Background(), 7, "old-jti", "stolen-token")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestService_Refresh_DisabledAccount(t *testing.T) {
	user := seedUser(t, "correct-horse-battery")
	user.IsActive = false
	repo := &fakeUserRepo{rows: map[int64]*models.User{7: user}}
	svc, _ := NewService(repo, &fakeSessions{}, &fakeRecorder{}, testJWTConfig())

	_, err := svc.Refresh(context.Background(), 7, "old-jti", "refresh-token")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
