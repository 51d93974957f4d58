package http

import (
	"net/http"
	"strconv"

	"alphadesk/internal/dto"

	"github.com/labstack/echo/v4"
)

const defaultNewsLimit = 10

func (h *HttpAPIHandler) SetupNews(base *echo.Group) {
	v1 := base.Group("/v1/news")
	{
		v1.GET("", h.getNews)
	}
}

func (h *HttpAPIHandler) getNews(c echo.Context) error {
	limit := defaultNewsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("limit must be between 1 and 50"))
		}
		limit = parsed
	}

	items := h.service.QuoteResolverService.News(c.Request().Context(), limit)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("News fetched", items))
}
