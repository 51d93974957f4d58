package model

import (
	"time"

	"gorm.io/datatypes"
)

// BiasReportRecord keeps each generated report so users can track how their
// behavior changes between analyses. Findings and narrative are stored as-is.
type BiasReportRecord struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	UserID               uint           `gorm:"not null;index:idx_bias_report_user_ts" json:"user_id"`
	Findings             datatypes.JSON `json:"findings"`
	DiversificationScore float64        `gorm:"not null" json:"diversification_score"`
	OverallScore         float64        `gorm:"not null" json:"overall_score"`
	Narrative            datatypes.JSON `json:"narrative"`
	SyntheticLedger      bool           `gorm:"not null" json:"synthetic_ledger"`
	GeneratedAt          time.Time      `gorm:"not null;index:idx_bias_report_user_ts" json:"generated_at"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (BiasReportRecord) TableName() string {
	return "bias_report_records"
}
