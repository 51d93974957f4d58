package dto

import "time"

// BiasFinding is a single detected cognitive-bias pattern.
type BiasFinding struct {
	BiasType       BiasType `json:"bias_type"`
	Severity       Severity `json:"severity"`
	Confidence     float64  `json:"confidence"`
	Score          float64  `json:"score"`
	Evidence       []string `json:"evidence"`
	Recommendation string   `json:"recommendation"`
}

// BiasNarrative is the free-text layer produced by the LLM, or a rule-based
// substitute when the LLM path fails.
type BiasNarrative struct {
	Recommendations  []string `json:"recommendations"`
	RiskLevel        string   `json:"risk_level"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// BiasReport combines all rule-based findings with the narrative layer.
type BiasReport struct {
	UserID               uint          `json:"user_id"`
	Findings             []BiasFinding `json:"findings"`
	DiversificationScore float64       `json:"diversification_score"`
	OverallScore         float64       `json:"overall_score"`
	Narrative            BiasNarrative `json:"narrative"`
	SyntheticLedger      bool          `json:"synthetic_ledger"`
	GeneratedAt          time.Time     `json:"generated_at"`
}
