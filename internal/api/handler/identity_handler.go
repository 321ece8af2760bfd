package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/osmand-tracker/tracker/internal/api/metrics"
	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
)

// IdentityHandler issues and shows owner identities.
type IdentityHandler struct {
	service ports.IdentityService
}

func NewIdentityHandler(service ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// Register creates an identity and returns its secret. The secret is never
// retrievable again.
//
// @Summary      Register an owner
// @Tags         users
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Display name"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /users [post]
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}

	name := req.Name
	if name == "" {
		name = req.Username
	}

	reg, err := h.service.Register(c.Request().Context(), name)
	if err != nil {
		return err
	}
	metrics.IdentitiesRegisteredTotal.Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		UserID:    reg.Identity.ID.String(),
		Name:      reg.Identity.Name,
		Secret:    reg.Secret,
		CreatedAt: reg.Identity.CreatedAt,
	})
}

// Get handles GET /users/:id and GET /show?user_id=.
//
// @Summary      Show an owner
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "Owner id (ULID)"
// @Success      200  {object}  identityResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *IdentityHandler) Get(c echo.Context) error {
	raw := c.Param("id")
	if raw == "" {
		raw = c.QueryParam("user_id")
	}

	id, err := domain.ParseOwnerID(raw)
	if err != nil {
		return err
	}

	identity, err := h.service.Lookup(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}
