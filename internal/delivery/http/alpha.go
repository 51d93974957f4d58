package http

import (
	"net/http"
	"strconv"

	"alphadesk/internal/dto"

	"github.com/labstack/echo/v4"
)

const defaultAlphaHistoryLimit = 20

func (h *HttpAPIHandler) SetupAlpha(base *echo.Group) {
	v1 := base.Group("/v1/alpha")
	{
		v1.GET("/:symbol", h.getAlphaSignature)
		v1.GET("/:symbol/history", h.getAlphaHistory)
		v1.POST("/refresh", h.refreshAlpha)
	}
}

// getAlphaSignature serves the latest stored signature, computing a fresh one
// when the symbol has never been scored.
func (h *HttpAPIHandler) getAlphaSignature(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("symbol is required"))
	}

	signature, err := h.service.AlphaService.Latest(ctx, symbol)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to get alpha signature", nil))
	}
	if signature == nil {
		signature = h.service.AlphaService.Compute(ctx, symbol)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Alpha signature", signature))
}

func (h *HttpAPIHandler) getAlphaHistory(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("symbol is required"))
	}

	limit := defaultAlphaHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("limit must be between 1 and 100"))
		}
		limit = parsed
	}

	history, err := h.service.AlphaService.History(c.Request().Context(), symbol, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to get alpha history", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Alpha history", history))
}

func (h *HttpAPIHandler) refreshAlpha(c echo.Context) error {
	req := new(dto.RefreshAlphaRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	h.service.AlphaService.UpdateAll(c.Request().Context(), req.Symbols)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Alpha signatures refreshed", nil))
}
