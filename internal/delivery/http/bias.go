package http

import (
	"net/http"

	"alphadesk/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBias(base *echo.Group) {
	v1 := base.Group("/v1/users/:user_id/bias-report")
	{
		v1.GET("", h.getBiasReport)
		v1.GET("/latest", h.getLatestBiasReport)
	}
}

func (h *HttpAPIHandler) getBiasReport(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	report := h.service.BiasService.Analyze(c.Request().Context(), userID)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Bias report", report))
}

func (h *HttpAPIHandler) getLatestBiasReport(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	record, err := h.service.BiasService.LatestReport(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to get bias report", nil))
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "no bias report recorded", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Latest bias report", record))
}
