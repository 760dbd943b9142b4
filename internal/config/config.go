// Package config loads engine configuration. Every empirical tuning value
// (tolerance windows, severity weights, confidence constants) is a named,
// overridable setting with a documented default rather than a hard-coded
// constant, and the loaded Config is passed by reference into the engine,
// never mutated afterward.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Rules    RulesConfig    `yaml:"rules" mapstructure:"rules"`
	Score    ScoreConfig    `yaml:"score" mapstructure:"score"`
	Audit    AuditConfig    `yaml:"audit" mapstructure:"audit"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`

	// JurisdictionFile optionally overrides the built-in reference table.
	JurisdictionFile string `yaml:"jurisdiction_file" mapstructure:"jurisdiction_file"`
	// AliasFile optionally extends the built-in entity alias table.
	AliasFile string `yaml:"alias_file" mapstructure:"alias_file"`
}

// ResolverConfig tunes entity identity resolution.
type ResolverConfig struct {
	// SimilarityThreshold is the 0-100 fuzzy-match cutoff for "same entity".
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// RulesConfig tunes the single-account heuristics and the correlator.
type RulesConfig struct {
	// ToleranceDays bounds acceptable drift for removal-date and
	// cross-source date comparisons.
	ToleranceDays int `yaml:"tolerance_days" mapstructure:"tolerance_days"`
	// ReportingPeriodMonths is the FCRA reporting window measured from
	// DOFD (7 years 6 months).
	ReportingPeriodMonths int `yaml:"reporting_period_months" mapstructure:"reporting_period_months"`
	// ReagingMonths is how far an open date may trail the DOFD before the
	// re-aging rule fires (strictly greater fires).
	ReagingMonths int `yaml:"reaging_months" mapstructure:"reaging_months"`
	// LongTimelineYears is the opened-to-removal span beyond which the
	// timeline is impossible under a correctly anchored DOFD.
	LongTimelineYears int `yaml:"long_timeline_years" mapstructure:"long_timeline_years"`
	// RecentOpenYears marks a collection open date as "recent" for the
	// missing-DOFD heuristic.
	RecentOpenYears int `yaml:"recent_open_years" mapstructure:"recent_open_years"`
	// FutureSlackDays tolerates clock skew before the future-date rule fires.
	FutureSlackDays int `yaml:"future_slack_days" mapstructure:"future_slack_days"`
	// BalanceGrowthRatio is the current/original balance ratio considered
	// abusive on a collection account.
	BalanceGrowthRatio float64 `yaml:"balance_growth_ratio" mapstructure:"balance_growth_ratio"`
	// FeeBufferPct is added to the jurisdiction interest cap to absorb
	// legitimate one-time fees.
	FeeBufferPct float64 `yaml:"fee_buffer_pct" mapstructure:"fee_buffer_pct"`
}

// ScoreConfig tunes flag aggregation and risk classification.
type ScoreConfig struct {
	HighWeight   float64 `yaml:"high_weight" mapstructure:"high_weight"`
	MediumWeight float64 `yaml:"medium_weight" mapstructure:"medium_weight"`
	LowWeight    float64 `yaml:"low_weight" mapstructure:"low_weight"`

	ReagingCategoryWeight float64 `yaml:"reaging_category_weight" mapstructure:"reaging_category_weight"`
	FeeCategoryWeight     float64 `yaml:"fee_category_weight" mapstructure:"fee_category_weight"`

	CriticalThreshold float64 `yaml:"critical_threshold" mapstructure:"critical_threshold"`
	HighThreshold     float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	MediumThreshold   float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`

	ConfidenceBase float64 `yaml:"confidence_base" mapstructure:"confidence_base"`
	ConfidenceSpan float64 `yaml:"confidence_span" mapstructure:"confidence_span"`

	DefinitiveTier float64 `yaml:"definitive_tier" mapstructure:"definitive_tier"`
	StrongTier     float64 `yaml:"strong_tier" mapstructure:"strong_tier"`
	ModerateTier   float64 `yaml:"moderate_tier" mapstructure:"moderate_tier"`

	// SystemicHighCount is how many high-severity flags on one account
	// synthesize a systemic-violation flag.
	SystemicHighCount int `yaml:"systemic_high_count" mapstructure:"systemic_high_count"`
}

// AuditConfig tunes the engine facade.
type AuditConfig struct {
	// MaxConcurrency bounds parallel per-account rule evaluation.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the configuration defaults without consulting viper,
// for library callers and tests.
func Default() *Config {
	return &Config{
		Resolver: ResolverConfig{SimilarityThreshold: 85},
		Rules: RulesConfig{
			ToleranceDays:         180,
			ReportingPeriodMonths: 90,
			ReagingMonths:         24,
			LongTimelineYears:     8,
			RecentOpenYears:       2,
			FutureSlackDays:       1,
			BalanceGrowthRatio:    1.5,
			FeeBufferPct:          2.0,
		},
		Score: ScoreConfig{
			HighWeight:            25,
			MediumWeight:          15,
			LowWeight:             5,
			ReagingCategoryWeight: 1.4,
			FeeCategoryWeight:     1.15,
			CriticalThreshold:     80,
			HighThreshold:         60,
			MediumThreshold:       35,
			ConfidenceBase:        50,
			ConfidenceSpan:        40,
			DefinitiveTier:        95,
			StrongTier:            80,
			ModerateTier:          65,
			SystemicHighCount:     3,
		},
		Audit: AuditConfig{MaxConcurrency: 8},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRADELINE_AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	d := Default()
	v.SetDefault("resolver.similarity_threshold", d.Resolver.SimilarityThreshold)
	v.SetDefault("rules.tolerance_days", d.Rules.ToleranceDays)
	v.SetDefault("rules.reporting_period_months", d.Rules.ReportingPeriodMonths)
	v.SetDefault("rules.reaging_months", d.Rules.ReagingMonths)
	v.SetDefault("rules.long_timeline_years", d.Rules.LongTimelineYears)
	v.SetDefault("rules.recent_open_years", d.Rules.RecentOpenYears)
	v.SetDefault("rules.future_slack_days", d.Rules.FutureSlackDays)
	v.SetDefault("rules.balance_growth_ratio", d.Rules.BalanceGrowthRatio)
	v.SetDefault("rules.fee_buffer_pct", d.Rules.FeeBufferPct)
	v.SetDefault("score.high_weight", d.Score.HighWeight)
	v.SetDefault("score.medium_weight", d.Score.MediumWeight)
	v.SetDefault("score.low_weight", d.Score.LowWeight)
	v.SetDefault("score.reaging_category_weight", d.Score.ReagingCategoryWeight)
	v.SetDefault("score.fee_category_weight", d.Score.FeeCategoryWeight)
	v.SetDefault("score.critical_threshold", d.Score.CriticalThreshold)
	v.SetDefault("score.high_threshold", d.Score.HighThreshold)
	v.SetDefault("score.medium_threshold", d.Score.MediumThreshold)
	v.SetDefault("score.confidence_base", d.Score.ConfidenceBase)
	v.SetDefault("score.confidence_span", d.Score.ConfidenceSpan)
	v.SetDefault("score.definitive_tier", d.Score.DefinitiveTier)
	v.SetDefault("score.strong_tier", d.Score.StrongTier)
	v.SetDefault("score.moderate_tier", d.Score.ModerateTier)
	v.SetDefault("score.systemic_high_count", d.Score.SystemicHighCount)
	v.SetDefault("audit.max_concurrency", d.Audit.MaxConcurrency)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
