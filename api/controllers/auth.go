package controllers

import (
	"net/http"

	"github.com/sca-hospital/activos-backend/api/middleware"
	"github.com/sca-hospital/activos-backend/api/responses"
	"github.com/sca-hospital/activos-backend/api/validators"
	authsvc "github.com/sca-hospital/activos-backend/internal/auth"
	"github.com/sca-hospital/activos-backend/pkg/db/models"
	pkgerrors "github.com/sca-hospital/activos-backend/pkg/errors"
	"github.com/sca-hospital/activos-backend/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive bool   `json:"is_active"`
}

func newUserResponse(user *models.User) userResponse {
	resp := userResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		IsActive: user.IsActive,
	}
	if user.Role != nil {
		resp.Role = user.Role.Name
	}
	return resp
}

// AuthLogin authenticates credentials and hands back a token pair.
func AuthLogin(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Username, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tokenResponse{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			User:         newUserResponse(result.User),
		})
	}
}

// AuthLogout revokes the current session.
func AuthLogout(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		ctx := r.Context()
		err := svc.Logout(ctx, middleware.UserIDFromContext(ctx), middleware.UsernameFromContext(ctx), middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged out"})
	}
}

// AuthRefresh rotates the refresh token and mints a new access token.
func AuthRefresh(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload refreshRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		result, err := svc.Refresh(ctx, middleware.UserIDFromContext(ctx), middleware.SessionIDFromContext(ctx), payload.RefreshToken)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, tokenResponse{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			User:         newUserResponse(result.User),
		})
	}
}
