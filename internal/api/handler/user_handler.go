package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// UserHandler handles profile reads and mutations for the authenticated user.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type onboardingRequest struct {
	Role   string   `json:"role"   validate:"required,oneof=client technician"`
	Skills []string `json:"skills" validate:"max=20,dive,required"`
	Phone  string   `json:"phone"  validate:"max=30"`
	Bio    string   `json:"bio"    validate:"max=1000"`
}

type updateProfileRequest struct {
	Name      *string   `json:"name"`
	Phone     *string   `json:"phone"     validate:"omitempty,max=30"`
	Bio       *string   `json:"bio"       validate:"omitempty,max=1000"`
	Image     *string   `json:"image"`
	Role      *string   `json:"role"      validate:"omitempty,oneof=client technician"`
	Skills    *[]string `json:"skills"    validate:"omitempty,max=20,dive,required"`
	Available *bool     `json:"available"`
}

// Me handles GET /v1/users/me.
//
// @Summary      Get my profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Onboard handles POST /v1/users/onboarding — the one-time role selection.
// A fresh token must be issued afterwards for the role claim to take effect.
//
// @Summary      Choose my marketplace role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      onboardingRequest  true  "Role selection"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/onboarding [post]
func (h *UserHandler) Onboard(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req onboardingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Onboard(c.Request().Context(), caller, ports.OnboardingInput{
		Role:   req.Role,
		Skills: req.Skills,
		Phone:  req.Phone,
		Bio:    req.Bio,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /v1/users/me — a partial profile merge.
//
// @Summary      Update my profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), caller, ports.ProfilePatch{
		Name:      req.Name,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Image:     req.Image,
		Role:      req.Role,
		Skills:    req.Skills,
		Available: req.Available,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
