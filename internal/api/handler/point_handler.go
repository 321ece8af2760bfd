package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/osmand-tracker/tracker/internal/api/metrics"
	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
)

// PointHandler handles tracking point ingestion.
type PointHandler struct {
	service ports.PointService
}

func NewPointHandler(service ports.PointService) *PointHandler {
	return &PointHandler{service: service}
}

// Record handles GET|POST /record, the OsmAnd online tracking URL.
//
// @Summary      Record a tracking point
// @Tags         tracking
// @Produce      json
// @Param        user        query  string  true   "Owner id (ULID)"
// @Param        lat         query  number  true   "Latitude"
// @Param        lon         query  number  true   "Longitude"
// @Param        altitude    query  number  true   "Altitude"
// @Param        bearing     query  string  false  "Bearing, stored verbatim"
// @Param        speed       query  number  true   "Speed"
// @Param        hdop        query  number  false  "Horizontal dilution of precision"
// @Param        timestamp   query  integer true   "Device time, epoch milliseconds"
// @Param        record_key  query  string  true   "Owner secret"
// @Success      200
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Router       /record [get]
// @Router       /record [post]
func (h *PointHandler) Record(c echo.Context) error {
	req, err := bindRecord(c)
	if err == nil {
		err = c.Validate(&req)
	}
	if err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("validation").Inc()
		return err
	}

	owner, err := domain.ParseOwnerID(req.User)
	if err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("validation").Inc()
		return err
	}

	if err := h.service.Append(c.Request().Context(), toPointInput(owner, req), req.RecordKey); err != nil {
		metrics.IngestRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return err
	}

	metrics.PointsIngestedTotal.Inc()
	return c.NoContent(http.StatusOK)
}

// bindRecord reads parameters from the query string or a form body.
func bindRecord(c echo.Context) (recordRequest, error) {
	var req recordRequest
	err := echo.FormFieldBinder(c).
		MustString("user", &req.User).
		MustFloat64("lat", &req.Lat).
		MustFloat64("lon", &req.Lon).
		MustFloat64("altitude", &req.Altitude).
		String("bearing", &req.Bearing).
		MustFloat64("speed", &req.Speed).
		MustInt64("timestamp", &req.Timestamp).
		MustString("record_key", &req.RecordKey).
		BindError()
	if err != nil {
		return req, bindingError(err)
	}

	if c.FormValue("hdop") != "" {
		var hdop float64
		if err := echo.FormFieldBinder(c).Float64("hdop", &hdop).BindError(); err != nil {
			return req, bindingError(err)
		}
		req.HDOP = &hdop
	}
	return req, nil
}

func bindingError(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return fmt.Errorf("%w: invalid or missing parameter %q", domain.ErrValidation, be.Field)
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}
