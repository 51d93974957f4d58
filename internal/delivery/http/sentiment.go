package http

import (
	"net/http"

	"alphadesk/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSentiment(base *echo.Group) {
	v1 := base.Group("/v1/sentiment")
	{
		v1.POST("/score", h.scoreSentiment)
	}
}

// scoreSentiment scores the text and, when a symbol is attached, appends the
// result to that symbol's sentiment log.
func (h *HttpAPIHandler) scoreSentiment(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.ScoreSentimentRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if req.Symbol == "" {
		score := h.service.SentimentService.Score(ctx, req.Text, req.Symbol)
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("Sentiment scored", score))
	}

	record, err := h.service.SentimentService.ScoreAndRecord(ctx, req.Text, req.Symbol)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, "failed to record sentiment", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Sentiment scored", record))
}
