package http

import (
	"net/http"

	"contentpilot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTasks(base *echo.Group) {
	v1 := base.Group("/v1/tasks")
	{
		v1.GET("", h.TaskStats)
		v1.GET("/:id", h.GetTaskStatus)
	}
}

// GetTaskStatus is the polling endpoint. Unknown or evicted identifiers map
// to 404, everything else returns the raw snapshot.
func (h *HttpAPIHandler) GetTaskStatus(c echo.Context) error {
	taskID := c.Param("id")

	snapshot, found := h.service.TaskRegistry.GetStatus(taskID)
	if !found {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "task not found", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", snapshot))
}

func (h *HttpAPIHandler) TaskStats(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", h.service.TaskRegistry.Stats()))
}
