// Package config defines thresholds, constants and tunables for the graph engine.
package config

// RiskThresholds are inclusive lower bounds of the node risk tiers (0-100 scale).
type RiskThresholds struct {
	Critical float64 `mapstructure:"critical"`
	High     float64 `mapstructure:"high"`
	Medium   float64 `mapstructure:"medium"`
}

// EdgeRiskThresholds are lower bounds applied to riskWeight*100. All are
// inclusive except LowMedium, which must be exceeded.
type EdgeRiskThresholds struct {
	Critical  float64 `mapstructure:"critical"`
	High      float64 `mapstructure:"high"`
	Medium    float64 `mapstructure:"medium"`
	LowMedium float64 `mapstructure:"low_medium"`
}

// SizeEnvelope bounds the rendered node size within a tier.
type SizeEnvelope struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// SizeEnvelopes holds one envelope per node risk tier.
type SizeEnvelopes struct {
	Low      SizeEnvelope `mapstructure:"low"`
	Medium   SizeEnvelope `mapstructure:"medium"`
	High     SizeEnvelope `mapstructure:"high"`
	Critical SizeEnvelope `mapstructure:"critical"`
}

// EdgeWidthConfig parameterises width = max(Min, min(Max, log(count+1)*Scale + bonus)).
type EdgeWidthConfig struct {
	Min   float64 `mapstructure:"min"`
	Max   float64 `mapstructure:"max"`
	Scale float64 `mapstructure:"scale"`
	// AmountCap bounds bonus = min(AmountCap, log(totalAmount+1)/AmountDivisor).
	AmountCap     float64 `mapstructure:"amount_cap"`
	AmountDivisor float64 `mapstructure:"amount_divisor"`
}

// ClassificationConfig drives tiering and derived styles.
type ClassificationConfig struct {
	NodeRisk       RiskThresholds     `mapstructure:"node_risk"`
	EdgeRisk       EdgeRiskThresholds `mapstructure:"edge_risk"`
	HighCentrality float64            `mapstructure:"high_centrality"`
	Bridge         float64            `mapstructure:"bridge"`
	NodeSize       SizeEnvelopes      `mapstructure:"node_size"`
	EdgeWidth      EdgeWidthConfig    `mapstructure:"edge_width"`
	HighValue      float64            `mapstructure:"high_value"`
	MediumValue    float64            `mapstructure:"medium_value"`
	HighConfidence float64            `mapstructure:"high_confidence"`
	LowConfidence  float64            `mapstructure:"low_confidence"`
}

// ConnectedRiskWeights blend own, average-neighbor and max-neighbor risk.
type ConnectedRiskWeights struct {
	Own         float64 `mapstructure:"own"`
	AvgNeighbor float64 `mapstructure:"avg_neighbor"`
	MaxNeighbor float64 `mapstructure:"max_neighbor"`
}

// AnalyticsConfig bounds the approximate metrics and tunes the detectors.
type AnalyticsConfig struct {
	// BetweennessSample caps the number of nodes whose pairs are sampled.
	BetweennessSample int `mapstructure:"betweenness_sample"`
	// CycleDepth bounds the circular-relationship search.
	CycleDepth int `mapstructure:"cycle_depth"`
	// HubMultiplier flags nodes whose degree exceeds multiplier * average degree.
	HubMultiplier float64 `mapstructure:"hub_multiplier"`
	// HighRiskScore is the neighbor risk that counts towards a high-risk cluster.
	HighRiskScore float64 `mapstructure:"high_risk_score"`
	// ClusterNeighbors is exclusive: more than this many risky neighbors form a cluster.
	ClusterNeighbors int                  `mapstructure:"cluster_neighbors"`
	ConnectedRisk    ConnectedRiskWeights `mapstructure:"connected_risk"`
	TopN             int                  `mapstructure:"top_n"`
}

// LayoutConfig holds the decision-list bounds of the layout selector.
type LayoutConfig struct {
	HierarchyTypes       []string `mapstructure:"hierarchy_types"`
	HierarchicalMaxNodes int      `mapstructure:"hierarchical_max_nodes"`
	RiskFocusedMaxNodes  int      `mapstructure:"risk_focused_max_nodes"`
	ConcentricMinNodes   int      `mapstructure:"concentric_min_nodes"`
	CircularMinNodes     int      `mapstructure:"circular_min_nodes"`
	CircularMaxNodes     int      `mapstructure:"circular_max_nodes"`
	CircularMinDensity   float64  `mapstructure:"circular_min_density"`
	HighRiskScore        float64  `mapstructure:"high_risk_score"`
	// HighRiskClusterMin is how many high-risk nodes make a cluster.
	HighRiskClusterMin int `mapstructure:"high_risk_cluster_min"`
}

// InteractionConfig tunes zoom level-of-detail and focus behaviour.
type InteractionConfig struct {
	LowZoom               float64 `mapstructure:"low_zoom"`
	MidZoom               float64 `mapstructure:"mid_zoom"`
	HighZoom              float64 `mapstructure:"high_zoom"`
	LabelCentralityCutoff float64 `mapstructure:"label_centrality_cutoff"`
	SelectDepth           int     `mapstructure:"select_depth"`
	FocusDepth            int     `mapstructure:"focus_depth"`
	FocusZoom             float64 `mapstructure:"focus_zoom"`
}

// RuleConfig is an analyst-defined CEL rule.
type RuleConfig struct {
	ID          string `mapstructure:"id"`
	Condition   string `mapstructure:"condition"`
	Severity    string `mapstructure:"severity"`
	Description string `mapstructure:"description"`
}

// Config is the root configuration.
type Config struct {
	Classification ClassificationConfig `mapstructure:"classification"`
	Analytics      AnalyticsConfig      `mapstructure:"analytics"`
	Layout         LayoutConfig         `mapstructure:"layout"`
	Interaction    InteractionConfig    `mapstructure:"interaction"`
	Rules          []RuleConfig         `mapstructure:"rules"`
}

// Default returns the complete default configuration.
func Default() Config {
	return Config{
		Classification: DefaultClassificationConfig(),
		Analytics:      DefaultAnalyticsConfig(),
		Layout:         DefaultLayoutConfig(),
		Interaction:    DefaultInteractionConfig(),
	}
}

// DefaultClassificationConfig returns default tier thresholds and style bounds.
func DefaultClassificationConfig() ClassificationConfig {
	return ClassificationConfig{
		NodeRisk: RiskThresholds{Critical: 90, High: 70, Medium: 40},
		EdgeRisk: EdgeRiskThresholds{Critical: 80, High: 60, Medium: 40, LowMedium: 20},

		HighCentrality: 0.7,
		Bridge:         0.5,
		NodeSize: SizeEnvelopes{
			Low:      SizeEnvelope{Min: 20, Max: 30},
			Medium:   SizeEnvelope{Min: 30, Max: 40},
			High:     SizeEnvelope{Min: 40, Max: 50},
			Critical: SizeEnvelope{Min: 50, Max: 60},
		},
		EdgeWidth: EdgeWidthConfig{
			Min:           1,
			Max:           10,
			Scale:         1.5,
			AmountCap:     3,
			AmountDivisor: 5,
		},
		HighValue:      1_000_000,
		MediumValue:    100_000,
		HighConfidence: 0.8,
		LowConfidence:  0.4,
	}
}

// DefaultAnalyticsConfig returns the analytics constants.
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		BetweennessSample: 20,
		CycleDepth:        3,
		HubMultiplier:     3,
		HighRiskScore:     70,
		ClusterNeighbors:  2,
		ConnectedRisk: ConnectedRiskWeights{
			Own:         0.6,
			AvgNeighbor: 0.3,
			MaxNeighbor: 0.1,
		},
		TopN: 5,
	}
}

// DefaultLayoutConfig returns the layout decision bounds.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		HierarchyTypes: []string{
			"director", "parent", "ubo", "subsidiary",
			"shareholder", "owner", "beneficial_owner",
		},
		HierarchicalMaxNodes: 50,
		RiskFocusedMaxNodes:  50,
		ConcentricMinNodes:   100,
		CircularMinNodes:     10,
		CircularMaxNodes:     100,
		CircularMinDensity:   0.3,
		HighRiskScore:        70,
		HighRiskClusterMin:   3,
	}
}

// DefaultInteractionConfig returns zoom and focus defaults.
func DefaultInteractionConfig() InteractionConfig {
	return InteractionConfig{
		LowZoom:               0.5,
		MidZoom:               1.0,
		HighZoom:              1.5,
		LabelCentralityCutoff: 0.5,
		SelectDepth:           1,
		FocusDepth:            2,
		FocusZoom:             1.6,
	}
}
