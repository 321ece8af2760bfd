package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/osmand-tracker/tracker/internal/api/metrics"
	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
)

// TripHandler serves the active trip of an owner.
type TripHandler struct {
	service ports.TripService
}

func NewTripHandler(service ports.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// Tracking handles GET /tracking.
//
// @Summary      Active trip of an owner, newest point first
// @Tags         tracking
// @Produce      json
// @Param        user_id           query  string   true   "Owner id (ULID)"
// @Param        later_than_epoch  query  integer  false  "Only points strictly after this epoch millisecond (default 0)"
// @Param        limit             query  integer  false  "Maximum number of points (default 2000)"
// @Success      200  {object}  trackingResponse
// @Failure      400  {object}  errorResponse
// @Router       /tracking [get]
func (h *TripHandler) Tracking(c echo.Context) error {
	req, err := bindTracking(c)
	if err == nil {
		err = c.Validate(&req)
	}
	if err != nil {
		return err
	}

	owner, err := domain.ParseOwnerID(req.UserID)
	if err != nil {
		return err
	}

	start := time.Now()
	points, err := h.service.ActiveTrip(c.Request().Context(), ports.TripQuery{
		Owner: owner,
		Since: req.LaterThanEpoch,
		Limit: req.Limit,
	})
	if err != nil {
		return err
	}
	metrics.TripQueryDuration.Observe(time.Since(start).Seconds())
	metrics.ActiveTripPoints.Observe(float64(len(points)))

	return c.JSON(http.StatusOK, toTrackingResponse(points))
}

func bindTracking(c echo.Context) (trackingRequest, error) {
	var req trackingRequest
	b := echo.QueryParamsBinder(c).MustString("user_id", &req.UserID)

	if c.QueryParam("later_than_epoch") != "" {
		var since int64
		b.Int64("later_than_epoch", &since)
		req.LaterThanEpoch = &since
	}
	if c.QueryParam("limit") != "" {
		var limit int
		b.Int("limit", &limit)
		req.Limit = &limit
	}

	if err := b.BindError(); err != nil {
		return req, bindingError(err)
	}
	return req, nil
}
