package http

import (
	"net/http"
	"strconv"

	"alphadesk/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPortfolio(base *echo.Group) {
	v1 := base.Group("/v1/users/:user_id")
	{
		v1.GET("/portfolio", h.getPortfolio)
		v1.POST("/holdings", h.addHolding)
		v1.DELETE("/holdings/:symbol", h.removeHolding)

		v1.GET("/transactions", h.getTransactions)
		v1.POST("/transactions", h.addTransaction)

		v1.GET("/watchlist", h.getWatchlist)
		v1.POST("/watchlist", h.addToWatchlist)
		v1.DELETE("/watchlist/:symbol", h.removeFromWatchlist)
	}
}

func userIDParam(c echo.Context) (uint, bool) {
	raw := c.Param("user_id")
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

func (h *HttpAPIHandler) getPortfolio(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	summary, err := h.service.PortfolioService.GetPortfolio(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to get portfolio", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Portfolio", summary))
}

func (h *HttpAPIHandler) addHolding(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	req := new(dto.AddHoldingRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	holding, err := h.service.PortfolioService.AddHolding(c.Request().Context(), userID, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to add holding", nil))
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Holding added", holding))
}

func (h *HttpAPIHandler) removeHolding(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("symbol is required"))
	}

	if err := h.service.PortfolioService.RemoveHolding(c.Request().Context(), userID, symbol); err != nil {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "holding not found", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Holding removed", nil))
}

func (h *HttpAPIHandler) getTransactions(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	transactions, err := h.service.PortfolioService.GetTransactions(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to get transactions", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Transactions", transactions))
}

func (h *HttpAPIHandler) addTransaction(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	req := new(dto.AddTransactionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	transaction, err := h.service.PortfolioService.AddTransaction(c.Request().Context(), userID, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to add transaction", nil))
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Transaction added", transaction))
}

func (h *HttpAPIHandler) getWatchlist(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	items, err := h.service.PortfolioService.GetWatchlist(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to get watchlist", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Watchlist", items))
}

func (h *HttpAPIHandler) addToWatchlist(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	req := new(dto.WatchlistAddRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	item, err := h.service.PortfolioService.AddToWatchlist(c.Request().Context(), userID, req.Symbol)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to add to watchlist", nil))
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Added to watchlist", item))
}

func (h *HttpAPIHandler) removeFromWatchlist(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("symbol is required"))
	}

	if err := h.service.PortfolioService.RemoveFromWatchlist(c.Request().Context(), userID, symbol); err != nil {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, "watchlist item not found", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Removed from watchlist", nil))
}
