package users

import (
	"context"
	"errors"
	"strings"

	"github.com/sca-hospital/activos-backend/internal/audit"
	"github.com/sca-hospital/activos-backend/internal/masterdata"
	"github.com/sca-hospital/activos-backend/pkg/config"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/security"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput carries the fields required to register a user account.
// RoleName is optional: accounts without a role authenticate but are denied
// everywhere by the authorization policy.
type CreateInput struct {
	Username string
	FullName string
	Email    string
	Password string
	RoleName string
}

// UpdateInput carries a partial account update. Nil fields keep their
// current value. An empty RoleName pointer clears the role.
type UpdateInput struct {
	FullName *string
	Email    *string
	Password *string
	RoleName *string
	IsActive *bool
}

// Service exposes account management operations.
type Service interface {
	Create(ctx context.Context, actorID int64, input CreateInput) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, actorID, id int64, input UpdateInput) (*models.User, error)
	Delete(ctx context.Context, actorID, id int64) error
	List(ctx context.Context) ([]models.User, error)
}

type service struct {
	runner      txRunner
	repo        Repository
	roles       masterdata.RoleRepository
	audits      audit.Recorder
	passwordCfg config.PasswordConfig
}

// NewService wires the account management service.
func NewService(runner txRunner, repo Repository, roles masterdata.RoleRepository, audits audit.Recorder, passwordCfg config.PasswordConfig) (Service, error) {
	if runner == nil || repo == nil || roles == nil || audits == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user service dependencies missing")
	}
	return &service{
		runner:      runner,
		repo:        repo,
		roles:       roles,
		audits:      audits,
		passwordCfg: passwordCfg,
	}, nil
}

func (s *service) Create(ctx context.Context, actorID int64, input CreateInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	roleID, err := s.resolveRole(ctx, input.RoleName)
	if err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Username:     input.Username,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		IsActive:     true,
		RoleID:       roleID,
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return err
		}
		_, err := s.audits.WithTx(tx).Record(ctx, &actorID, enums.AuditActionCreate, map[string]any{
			"entity":   "user",
			"user_id":  user.ID,
			"username": user.Username,
			"role":     input.RoleName,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, user.ID)
}

func (s *service) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return user, nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return user, nil
}

func (s *service) Update(ctx context.Context, actorID, id int64, input UpdateInput) (*models.User, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}

		var changed []string
		if input.FullName != nil {
			user.FullName = strings.TrimSpace(*input.FullName)
			changed = append(changed, "full_name")
		}
		if input.Email != nil {
			user.Email = strings.TrimSpace(*input.Email)
			changed = append(changed, "email")
		}
		if input.Password != nil {
			if len(*input.Password) < 8 {
				return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
			}
			hash, err := security.HashPassword(*input.Password, s.passwordCfg)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
			}
			user.PasswordHash = hash
			changed = append(changed, "password")
		}
		if input.RoleName != nil {
			roleID, err := s.resolveRole(ctx, *input.RoleName)
			if err != nil {
				return err
			}
			user.RoleID = roleID
			user.Role = nil
			changed = append(changed, "role")
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
			changed = append(changed, "is_active")
		}
		if len(changed) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
		}

		if err := repo.Update(ctx, user); err != nil {
			return err
		}

		_, err = s.audits.WithTx(tx).Record(ctx, &actorID, enums.AuditActionUpdate, map[string]any{
			"entity":         "user",
			"user_id":        user.ID,
			"username":       user.Username,
			"changed_fields": changed,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	return s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := repo.Delete(ctx, user.ID); err != nil {
			if pkgerrors.IsForeignKeyViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "user has recorded movements and cannot be deleted")
			}
			return err
		}
		_, err = s.audits.WithTx(tx).Record(ctx, &actorID, enums.AuditActionDelete, map[string]any{
			"entity":   "user",
			"user_id":  user.ID,
			"username": user.Username,
		})
		return err
	})
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// resolveRole maps a role name onto its id. An empty name clears the role.
func (s *service) resolveRole(ctx context.Context, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
		}
		return nil, err
	}
	return &role.ID, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return err
}
