package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (AMLGRAPH_ANALYTICS_CYCLE_DEPTH, ...).
const EnvPrefix = "AMLGRAPH"

// Load reads a YAML config file over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations whose tiers would overlap or whose bounds are unusable.
func (c Config) Validate() error {
	var errs []error

	nr := c.Classification.NodeRisk
	if !(nr.Critical > nr.High && nr.High > nr.Medium && nr.Medium > 0) {
		errs = append(errs, fmt.Errorf("node risk thresholds must be strictly descending: %v/%v/%v", nr.Critical, nr.High, nr.Medium))
	}
	er := c.Classification.EdgeRisk
	if !(er.Critical > er.High && er.High > er.Medium && er.Medium > er.LowMedium && er.LowMedium > 0) {
		errs = append(errs, errors.New("edge risk thresholds must be strictly descending"))
	}
	for name, env := range map[string]SizeEnvelope{
		"low":      c.Classification.NodeSize.Low,
		"medium":   c.Classification.NodeSize.Medium,
		"high":     c.Classification.NodeSize.High,
		"critical": c.Classification.NodeSize.Critical,
	} {
		if env.Min > env.Max {
			errs = append(errs, fmt.Errorf("node size envelope %s has min > max", name))
		}
	}
	ew := c.Classification.EdgeWidth
	if ew.Min > ew.Max || ew.AmountDivisor <= 0 {
		errs = append(errs, errors.New("edge width bounds are invalid"))
	}
	if c.Analytics.BetweennessSample < 2 {
		errs = append(errs, errors.New("betweenness sample must be at least 2"))
	}
	if c.Analytics.CycleDepth < 2 {
		errs = append(errs, errors.New("cycle depth must be at least 2"))
	}
	iz := c.Interaction
	if !(iz.LowZoom < iz.MidZoom && iz.MidZoom < iz.HighZoom) {
		errs = append(errs, errors.New("zoom thresholds must be ascending"))
	}
	if iz.FocusDepth < 0 || iz.SelectDepth < 0 {
		errs = append(errs, errors.New("neighborhood depths must not be negative"))
	}
	for _, r := range c.Rules {
		if r.ID == "" || r.Condition == "" {
			errs = append(errs, errors.New("rules need an id and a condition"))
		}
	}
	return errors.Join(errs...)
}
