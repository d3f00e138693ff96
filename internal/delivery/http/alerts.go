package http

import (
	"net/http"
	"strconv"

	"contentpilot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAlerts(base *echo.Group) {
	v1 := base.Group("/v1/alerts")
	{
		v1.GET("", h.ListAlerts)
	}
}

func (h *HttpAPIHandler) ListAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	unresolvedOnly, _ := strconv.ParseBool(c.QueryParam("unresolved"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	alerts, err := h.service.AlertService.ListAlerts(ctx, unresolvedOnly, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to list alerts", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", alerts))
}
