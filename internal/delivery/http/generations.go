package http

import (
	"errors"
	"net/http"

	"contentpilot/internal/dto"
	"contentpilot/internal/service"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupGenerations(base *echo.Group) {
	v1 := base.Group("/v1/generations")
	{
		v1.POST("", h.StartGeneration)
	}
}

// StartGeneration accepts the request, runs the quota check and returns the
// task id immediately; the client polls /api/v1/tasks/:id for the outcome.
func (h *HttpAPIHandler) StartGeneration(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.GenerateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.GenerationService.StartGeneration(ctx, *req)
	if err != nil {
		if errors.Is(err, service.ErrQuotaExceeded) {
			return c.JSON(http.StatusTooManyRequests, dto.NewBaseResponse(http.StatusTooManyRequests, err.Error(), nil))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to start generation", nil))
	}

	return c.JSON(http.StatusAccepted, dto.NewBaseResponse(http.StatusAccepted, "generation started", result))
}
