package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/internal/model"
	"alphadesk/internal/repository"
	"alphadesk/pkg/logger"
	"alphadesk/pkg/utils"

	"gorm.io/datatypes"
)

const (
	minRoundTrips        = 3
	minAnchoringTrades   = 3
	minHerdingSentiments = 10

	quickWinGainPercent  = 5.0
	quickWinMaxHoldDays  = 30
	heldLoserLossPercent = -10.0
	heldLoserMinHoldDays = 90

	overconfidenceWindow = 90 // days

	sentimentLookback = 100
)

// BiasService runs the rule-based bias detectors over a user's ledger and
// portfolio. Analysis degrades instead of failing: missing data yields an
// empty or partial report and an LLM outage swaps in the static narrative.
type BiasService interface {
	Analyze(ctx context.Context, userID uint) *dto.BiasReport
	LatestReport(ctx context.Context, userID uint) (*model.BiasReportRecord, error)
}

type biasService struct {
	cfg             *config.Config
	log             *logger.Logger
	portfolioRepo   repository.PortfolioRepository
	transactionRepo repository.TransactionRepository
	biasReportRepo  repository.BiasReportRepository
	llmRepo         repository.LLMRepository
}

func NewBiasService(
	cfg *config.Config,
	log *logger.Logger,
	portfolioRepo repository.PortfolioRepository,
	transactionRepo repository.TransactionRepository,
	biasReportRepo repository.BiasReportRepository,
	llmRepo repository.LLMRepository,
) BiasService {
	return &biasService{
		cfg:             cfg,
		log:             log,
		portfolioRepo:   portfolioRepo,
		transactionRepo: transactionRepo,
		biasReportRepo:  biasReportRepo,
		llmRepo:         llmRepo,
	}
}

func (s *biasService) Analyze(ctx context.Context, userID uint) *dto.BiasReport {
	holdings, err := s.portfolioRepo.GetHoldings(ctx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get holdings for bias analysis",
			logger.IntField("user_id", int(userID)),
			logger.ErrorField(err),
		)
		holdings = nil
	}

	transactions, err := s.transactionRepo.GetByUser(ctx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get transactions for bias analysis",
			logger.IntField("user_id", int(userID)),
			logger.ErrorField(err),
		)
		transactions = nil
	}

	// Without a real ledger the detectors that need sells and repeat trades
	// cannot fire; synthesizing one buy per holding keeps the holdings-driven
	// heuristics alive and is flagged on the report.
	syntheticLedger := false
	if len(transactions) == 0 && len(holdings) > 0 {
		transactions = synthesizeLedger(userID, holdings)
		syntheticLedger = true
	}

	sentiments, err := s.portfolioRepo.GetRecentSentiments(ctx, sentimentLookback)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to get sentiment records for herding detection", logger.ErrorField(err))
		sentiments = nil
	}

	diversificationScore := DiversificationScore(holdings)

	var findings []dto.BiasFinding
	if f := s.detectLossAversion(transactions); f != nil {
		findings = append(findings, *f)
	}
	if f := s.detectOverconfidence(transactions, diversificationScore); f != nil {
		findings = append(findings, *f)
	}
	if f := s.detectAnchoring(transactions); f != nil {
		findings = append(findings, *f)
	}
	if f := s.detectHerding(transactions, sentiments); f != nil {
		findings = append(findings, *f)
	}
	if f := s.detectConfirmationBias(); f != nil {
		findings = append(findings, *f)
	}

	report := &dto.BiasReport{
		UserID:               userID,
		Findings:             findings,
		DiversificationScore: diversificationScore,
		OverallScore:         overallBiasScore(findings),
		Narrative:            s.narrative(ctx, holdings, transactions, findings),
		SyntheticLedger:      syntheticLedger,
		GeneratedAt:          time.Now(),
	}

	s.archiveReport(ctx, report)

	return report
}

func (s *biasService) LatestReport(ctx context.Context, userID uint) (*model.BiasReportRecord, error) {
	return s.biasReportRepo.GetLatestByUser(ctx, userID)
}

// archiveReport keeps the report history; a failed write degrades to a
// warning, the caller still gets the in-memory report.
func (s *biasService) archiveReport(ctx context.Context, report *dto.BiasReport) {
	findings, err := json.Marshal(report.Findings)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to marshal bias findings for archive", logger.ErrorField(err))
		return
	}
	narrative, err := json.Marshal(report.Narrative)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to marshal bias narrative for archive", logger.ErrorField(err))
		return
	}

	record := &model.BiasReportRecord{
		UserID:               report.UserID,
		Findings:             datatypes.JSON(findings),
		DiversificationScore: report.DiversificationScore,
		OverallScore:         report.OverallScore,
		Narrative:            datatypes.JSON(narrative),
		SyntheticLedger:      report.SyntheticLedger,
		GeneratedAt:          report.GeneratedAt,
	}

	if err := s.biasReportRepo.Append(ctx, record); err != nil {
		s.log.WarnContext(ctx, "Failed to archive bias report",
			logger.IntField("user_id", int(report.UserID)),
			logger.ErrorField(err),
		)
	}
}

// DiversificationScore weighs unique sectors and asset types, capped at 10.
func DiversificationScore(holdings []model.Holding) float64 {
	sectors := make(map[string]struct{})
	assetTypes := make(map[string]struct{})
	for _, h := range holdings {
		if h.Sector != "" {
			sectors[h.Sector] = struct{}{}
		}
		if h.AssetType != "" {
			assetTypes[h.AssetType] = struct{}{}
		}
	}
	return math.Min(10, float64(len(sectors))*2+float64(len(assetTypes))*1.5)
}

type roundTrip struct {
	symbol      string
	gainPercent float64
	holdDays    float64
}

// detectLossAversion matches each sell to its most recent prior buy of the
// same symbol and looks for quickly-sold winners and long-held losers.
func (s *biasService) detectLossAversion(transactions []model.Transaction) *dto.BiasFinding {
	lastBuy := make(map[string]*model.Transaction)
	var trips []roundTrip

	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case dto.TransactionTypeBuy:
			lastBuy[t.Symbol] = t
		case dto.TransactionTypeSell:
			buy, ok := lastBuy[t.Symbol]
			if !ok || buy.Price == 0 {
				continue
			}
			trips = append(trips, roundTrip{
				symbol:      t.Symbol,
				gainPercent: (t.Price - buy.Price) / buy.Price * 100,
				holdDays:    t.Timestamp.Sub(buy.Timestamp).Hours() / 24,
			})
		}
	}

	if len(trips) < minRoundTrips {
		return nil
	}

	var quickWins, heldLosers int
	for _, trip := range trips {
		if trip.gainPercent > quickWinGainPercent && trip.holdDays < quickWinMaxHoldDays {
			quickWins++
		}
		if trip.gainPercent < heldLoserLossPercent && trip.holdDays > heldLoserMinHoldDays {
			heldLosers++
		}
	}

	score := float64(quickWins+heldLosers) / float64(len(trips)) * 10
	if score <= 3 {
		return nil
	}

	return &dto.BiasFinding{
		BiasType:   dto.BiasLossAversion,
		Severity:   severityFromScore(score, 7, 5),
		Confidence: utils.Clamp(float64(len(trips))/10, 0.3, 0.9),
		Score:      score,
		Evidence: []string{
			fmt.Sprintf("%d of %d round trips sold winners within %d days of a >%.0f%% gain", quickWins, len(trips), quickWinMaxHoldDays, quickWinGainPercent),
			fmt.Sprintf("%d of %d round trips held losers beyond %d days at a loss below %.0f%%", heldLosers, len(trips), heldLoserMinHoldDays, heldLoserLossPercent),
		},
		Recommendation: "Set exit rules before entering a position and review losing positions on a fixed schedule instead of waiting for them to recover.",
	}
}

// detectOverconfidence combines recent trading frequency with the inverse of
// portfolio diversification.
func (s *biasService) detectOverconfidence(transactions []model.Transaction, diversificationScore float64) *dto.BiasFinding {
	cutoff := time.Now().AddDate(0, 0, -overconfidenceWindow)
	var recentTrades int
	for _, t := range transactions {
		if t.Timestamp.After(cutoff) {
			recentTrades++
		}
	}

	frequency := float64(recentTrades) / float64(overconfidenceWindow)
	score := frequency*2 + (10-diversificationScore)/2
	if score <= 4 {
		return nil
	}

	return &dto.BiasFinding{
		BiasType:   dto.BiasOverconfidence,
		Severity:   severityFromScore(score, 8, 6),
		Confidence: utils.Clamp(float64(recentTrades)/40, 0.3, 0.9),
		Score:      score,
		Evidence: []string{
			fmt.Sprintf("%d trades in the last %d days", recentTrades, overconfidenceWindow),
			fmt.Sprintf("diversification score %.1f of 10", diversificationScore),
		},
		Recommendation: "Reduce trading frequency and spread exposure across more sectors and asset types; frequent concentrated trading rarely beats the market after costs.",
	}
}

// detectAnchoring checks, per symbol with enough trades, whether most trade
// prices cluster within 5% of that symbol's mean trade price.
func (s *biasService) detectAnchoring(transactions []model.Transaction) *dto.BiasFinding {
	bySymbol := make(map[string][]float64)
	for _, t := range transactions {
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t.Price)
	}

	var qualifying, anchored int
	for _, prices := range bySymbol {
		if len(prices) < minAnchoringTrades {
			continue
		}
		qualifying++

		mean := utils.Mean(prices)
		if mean == 0 {
			continue
		}
		var near int
		for _, p := range prices {
			if math.Abs(p-mean)/mean <= 0.05 {
				near++
			}
		}
		if float64(near)/float64(len(prices)) >= 0.7 {
			anchored++
		}
	}

	if qualifying == 0 {
		return nil
	}

	score := float64(anchored) / float64(qualifying) * 10
	if score <= 3 {
		return nil
	}

	return &dto.BiasFinding{
		BiasType:   dto.BiasAnchoring,
		Severity:   severityFromScore(score, 7, 5),
		Confidence: utils.Clamp(float64(qualifying)/5, 0.3, 0.9),
		Score:      score,
		Evidence: []string{
			fmt.Sprintf("%d of %d symbols show trade prices clustered within 5%% of their mean trade price", anchored, qualifying),
		},
		Recommendation: "Base entries on current fundamentals and technicals rather than a remembered reference price.",
	}
}

// detectHerding flags buys that closely follow strongly positive sentiment.
func (s *biasService) detectHerding(transactions []model.Transaction, sentiments []model.SentimentRecord) *dto.BiasFinding {
	if len(sentiments) < minHerdingSentiments {
		return nil
	}

	var totalBuys, herdedBuys int
	for _, t := range transactions {
		if t.Type != dto.TransactionTypeBuy {
			continue
		}
		totalBuys++

		for _, rec := range sentiments {
			if rec.Symbol != t.Symbol || rec.Score <= 7 {
				continue
			}
			gap := t.Timestamp.Sub(rec.Timestamp)
			if gap < 0 {
				gap = -gap
			}
			if gap <= 24*time.Hour {
				herdedBuys++
				break
			}
		}
	}

	if totalBuys == 0 {
		return nil
	}

	score := float64(herdedBuys) / float64(totalBuys) * 10
	if score <= 4 {
		return nil
	}

	return &dto.BiasFinding{
		BiasType:   dto.BiasHerding,
		Severity:   severityFromScore(score, 7, 5),
		Confidence: utils.Clamp(float64(totalBuys)/20, 0.3, 0.9),
		Score:      score,
		Evidence: []string{
			fmt.Sprintf("%d of %d buys happened within 24h of strongly positive sentiment on the same symbol", herdedBuys, totalBuys),
		},
		Recommendation: "Wait out the first day of a hype cycle; if the thesis still holds after the crowd has moved, the entry is usually better.",
	}
}

// detectConfirmationBias needs an information-consumption source (articles
// read, searches) that this system does not collect, so it never produces a
// finding.
func (s *biasService) detectConfirmationBias() *dto.BiasFinding {
	return nil
}

func severityFromScore(score, highThreshold, mediumThreshold float64) dto.Severity {
	switch {
	case score > highThreshold:
		return dto.SeverityHigh
	case score > mediumThreshold:
		return dto.SeverityMedium
	default:
		return dto.SeverityLow
	}
}

// overallBiasScore is the mean of severityWeight x confidence over all
// findings, 2 when nothing was detected.
func overallBiasScore(findings []dto.BiasFinding) float64 {
	if len(findings) == 0 {
		return 2
	}
	var sum float64
	for _, f := range findings {
		sum += dto.SeverityWeight(f.Severity) * f.Confidence
	}
	return sum / float64(len(findings))
}

func synthesizeLedger(userID uint, holdings []model.Holding) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(holdings))
	for _, h := range holdings {
		transactions = append(transactions, model.Transaction{
			UserID:    userID,
			Symbol:    h.Symbol,
			Type:      dto.TransactionTypeBuy,
			Quantity:  h.Shares,
			Price:     h.AvgCost,
			Timestamp: h.CreatedAt,
		})
	}
	return transactions
}

const biasNarrativeSystemPrompt = `You are a behavioral-finance coach. Respond with strict JSON only, no markdown fences, no prose. The JSON object must have exactly these fields: "recommendations" (array of strings, max 5), "risk_level" (one of "low", "medium", "high"), "improvement_areas" (array of strings, max 5).`

func (s *biasService) narrative(ctx context.Context, holdings []model.Holding, transactions []model.Transaction, findings []dto.BiasFinding) dto.BiasNarrative {
	if !s.llmRepo.Configured() {
		return staticNarrative(findings)
	}

	labels := make([]string, 0, len(findings))
	for _, f := range findings {
		labels = append(labels, fmt.Sprintf("%s (%s)", f.BiasType, f.Severity))
	}

	prompt := fmt.Sprintf(
		"An investor holds %d positions and has %d recorded trades. Rule-based analysis detected these biases: %s. Produce practical recommendations, an overall risk level, and improvement areas.",
		len(holdings), len(transactions), labelsOrNone(labels),
	)

	var narrative dto.BiasNarrative
	if err := s.llmRepo.CompleteJSON(ctx, biasNarrativeSystemPrompt, prompt, &narrative); err != nil {
		s.log.WarnContext(ctx, "LLM narrative generation failed, using static narrative", logger.ErrorField(err))
		return staticNarrative(findings)
	}

	switch narrative.RiskLevel {
	case "low", "medium", "high":
	default:
		narrative.RiskLevel = staticRiskLevel(findings)
	}

	return narrative
}

// staticNarrative is the deterministic substitute derived from finding count
// and severity.
func staticNarrative(findings []dto.BiasFinding) dto.BiasNarrative {
	narrative := dto.BiasNarrative{
		RiskLevel: staticRiskLevel(findings),
	}

	if len(findings) == 0 {
		narrative.Recommendations = []string{
			"No significant behavioral biases detected; keep following your current process.",
			"Re-run the analysis after your next ten trades to keep the picture current.",
		}
		narrative.ImprovementAreas = []string{"trade journaling"}
		return narrative
	}

	for _, f := range findings {
		narrative.Recommendations = append(narrative.Recommendations, f.Recommendation)
		narrative.ImprovementAreas = append(narrative.ImprovementAreas, strings.ReplaceAll(string(f.BiasType), "_", " "))
	}

	return narrative
}

func staticRiskLevel(findings []dto.BiasFinding) string {
	level := "low"
	for _, f := range findings {
		switch f.Severity {
		case dto.SeverityHigh:
			return "high"
		case dto.SeverityMedium:
			level = "medium"
		}
	}
	if len(findings) >= 3 && level == "low" {
		level = "medium"
	}
	return level
}

func labelsOrNone(labels []string) string {
	if len(labels) == 0 {
		return "none"
	}
	return strings.Join(labels, ", ")
}
