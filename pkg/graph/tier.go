package graph

// RiskTier is the node risk bucket.
type RiskTier string

const (
	RiskCritical RiskTier = "critical"
	RiskHigh     RiskTier = "high"
	RiskMedium   RiskTier = "medium"
	RiskLow      RiskTier = "low"
)

// Rank orders tiers so that a higher rank means riskier.
func (t RiskTier) Rank() int {
	switch t {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// EdgeRiskTier is the relationship risk bucket. The zero value is untagged.
type EdgeRiskTier string

const (
	EdgeCritical  EdgeRiskTier = "critical"
	EdgeHigh      EdgeRiskTier = "high"
	EdgeMedium    EdgeRiskTier = "medium"
	EdgeLowMedium EdgeRiskTier = "low-medium"
	EdgeUntagged  EdgeRiskTier = ""
)

// Rank orders edge tiers; untagged is 0.
func (t EdgeRiskTier) Rank() int {
	switch t {
	case EdgeCritical:
		return 4
	case EdgeHigh:
		return 3
	case EdgeMedium:
		return 2
	case EdgeLowMedium:
		return 1
	default:
		return 0
	}
}

// NodeTier is derived by classification and overwritten on every pass.
type NodeTier struct {
	Risk           RiskTier
	HighCentrality bool
	Bridge         bool
}

// NodeStyle is a pure function of the node's tier and raw metrics.
type NodeStyle struct {
	Size        float64
	Color       string
	Shape       string
	BorderWidth float64
}

// EdgeTier groups the risk, value and confidence buckets of a relationship.
type EdgeTier struct {
	Risk       EdgeRiskTier
	Value      string
	Confidence string
}

// EdgeStyle is a pure function of the edge's tier and raw metrics.
type EdgeStyle struct {
	Width     float64
	Color     string
	LineStyle string
}
