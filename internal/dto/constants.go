package dto

type AssetType string

const (
	AssetTypeStock     AssetType = "stock"
	AssetTypeETF       AssetType = "etf"
	AssetTypeCrypto    AssetType = "crypto"
	AssetTypeCommodity AssetType = "commodity"
	AssetTypeForex     AssetType = "forex"
)

const (
	SignalStrongBuy  = "strong_buy"
	SignalBuy        = "buy"
	SignalHold       = "hold"
	SignalSell       = "sell"
	SignalStrongSell = "strong_sell"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

type BiasType string

const (
	BiasLossAversion     BiasType = "loss_aversion"
	BiasOverconfidence   BiasType = "overconfidence"
	BiasAnchoring        BiasType = "anchoring"
	BiasHerding          BiasType = "herding"
	BiasConfirmationBias BiasType = "confirmation_bias"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityWeight maps a finding severity to its contribution in the overall
// bias score.
func SeverityWeight(s Severity) float64 {
	switch s {
	case SeverityHigh:
		return 8
	case SeverityMedium:
		return 5
	default:
		return 2
	}
}

const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)
