package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/config"
	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
	"github.com/jamhive/jam-session-booking/internal/utils"
)

// OnboardingHandler finalizes new accounts by recording their role.
// A role is chosen exactly once: JAMMER accounts host and join jam
// sessions, VENUE_OWNER accounts list venues.  Switching later is not
// supported, so a second attempt is rejected.
type OnboardingHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewOnboardingHandler(cfg config.Config, u *repository.UserRepo) *OnboardingHandler {
	return &OnboardingHandler{Cfg: cfg, Users: u}
}

type roleReq struct {
	Role string `json:"role"` // JAMMER | VENUE_OWNER
}

// SetRole records the account role.  On success a fresh access token is
// returned so the client does not keep presenting a token whose role
// claim predates the choice.
func (h *OnboardingHandler) SetRole(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := normalizeRole(req.Role)
	if role == model.RoleUnset {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be JAMMER or VENUE_OWNER"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetRoleOnce(ctx, uid, role); err != nil {
		switch err {
		case repository.ErrRoleAlreadySet:
			return c.JSON(http.StatusConflict, echo.Map{"error": "role already set"})
		case repository.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set role failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":   userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}
