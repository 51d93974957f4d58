package http

import (
	"net/http"

	"alphadesk/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupRefresh(base *echo.Group) {
	v1 := base.Group("/v1/refresh")
	{
		v1.POST("/run", h.runRefresh)
	}
}

// runRefresh triggers the watchlist refresh outside its cron schedule.
func (h *HttpAPIHandler) runRefresh(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "Refresh completed", nil)
	if err := h.service.SchedulerService.RefreshAll(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}
