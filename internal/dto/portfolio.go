package dto

import "alphadesk/internal/model"

type PortfolioSummary struct {
	Holdings             []model.Holding `json:"holdings"`
	TotalValue           float64         `json:"total_value"`
	TotalCost            float64         `json:"total_cost"`
	TotalGain            float64         `json:"total_gain"`
	TotalGainPercent     float64         `json:"total_gain_percent"`
	DiversificationScore float64         `json:"diversification_score"`
}
