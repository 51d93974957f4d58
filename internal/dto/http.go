package dto

import "net/http"

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

type ResolveManyRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,required"`
}

type ScoreSentimentRequest struct {
	Text   string `json:"text" validate:"required,min=3"`
	Symbol string `json:"symbol" validate:"omitempty,max=12"`
}

type AddHoldingRequest struct {
	Symbol  string  `json:"symbol" validate:"required,max=12"`
	Shares  float64 `json:"shares" validate:"required,gt=0"`
	AvgCost float64 `json:"avg_cost" validate:"required,gt=0"`
}

type AddTransactionRequest struct {
	Symbol   string  `json:"symbol" validate:"required,max=12"`
	Type     string  `json:"type" validate:"required,oneof=buy sell"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

type WatchlistAddRequest struct {
	Symbol string `json:"symbol" validate:"required,max=12"`
}

type RefreshAlphaRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,required"`
}
