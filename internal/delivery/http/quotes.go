package http

import (
	"net/http"

	"alphadesk/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupQuotes(base *echo.Group) {
	v1 := base.Group("/v1/quotes")
	{
		v1.GET("/:symbol", h.getQuote)
		v1.GET("/:symbol/company", h.getCompanyInfo)
		v1.POST("/resolve", h.resolveMany)
	}
}

func (h *HttpAPIHandler) getQuote(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("symbol is required"))
	}

	quote := h.service.QuoteResolverService.Resolve(c.Request().Context(), symbol)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Quote resolved", quote))
}

func (h *HttpAPIHandler) getCompanyInfo(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("symbol is required"))
	}

	info := h.service.QuoteResolverService.CompanyInfo(c.Request().Context(), symbol)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Company info resolved", info))
}

func (h *HttpAPIHandler) resolveMany(c echo.Context) error {
	req := new(dto.ResolveManyRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	quotes := h.service.QuoteResolverService.ResolveMany(c.Request().Context(), req.Symbols)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Quotes resolved", quotes))
}
