// Package config loads scenario files: market data locations, the
// selected benchmark maturity, portfolio parameter overrides and run
// options, in YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/almlib/marketdata"
)

// Scenario describes one engine run.
type Scenario struct {
	Name string `yaml:"name"`

	// Data holds the CSV paths for the four market data categories.
	// Relative paths resolve against DataDir.
	DataDir string `yaml:"data_dir"`
	Data    struct {
		ForwardRates     string `yaml:"forward_rates"`
		LiquidityPremium string `yaml:"liquidity_premium"`
		MortalityTable   string `yaml:"mortality_table"`
		RepurchaseRates  string `yaml:"repurchase_rates"`
	} `yaml:"data"`

	// Database holds a Postgres rates feed. When Conn is set, the curve
	// categories load from the feed instead of CSV files; the mortality
	// table still comes from its CSV.
	Database struct {
		Conn  string `yaml:"conn"`
		Table string `yaml:"table"`
	} `yaml:"database"`

	// Maturity selects the benchmark tenor column (e.g. "5Y").
	Maturity string `yaml:"maturity"`

	// Seed drives the stochastic stock path; 0 keeps the deterministic
	// expected-return path.
	Seed int64 `yaml:"seed"`

	// DBPath enables the SQLite run recorder when non-empty.
	DBPath string `yaml:"db_path"`

	// Parameters are portfolio overrides validated against the engine's
	// configuration schema.
	Parameters map[string]float64 `yaml:"parameters"`
}

// Load reads a scenario from a YAML file, then applies environment
// variable overrides (ALM_DATA_DIR, ALM_DB_PATH) and defaults.
func Load(path string) (*Scenario, error) {
	s := &Scenario{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if v := os.Getenv("ALM_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv("ALM_DB_PATH"); v != "" {
		s.DBPath = v
	}

	s.applyDefaults()
	return s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Name == "" {
		s.Name = "default"
	}
	if s.Maturity == "" {
		s.Maturity = "5Y"
	}
	if s.Data.ForwardRates == "" {
		s.Data.ForwardRates = "fwd_rates.csv"
	}
	if s.Data.LiquidityPremium == "" {
		s.Data.LiquidityPremium = "liquidity_premium.csv"
	}
	if s.Data.MortalityTable == "" {
		s.Data.MortalityTable = "mortality_table.csv"
	}
	if s.Data.RepurchaseRates == "" {
		s.Data.RepurchaseRates = "repurchase_rates.csv"
	}
}

// LoadStore reads the scenario's market data into a store.
//
// The forward-rate table is required; the other categories are optional
// and skipped when absent (the engine falls back to synthetic or scalar
// assumptions). A configured database connection replaces the CSV files
// for the curve categories.
func (s *Scenario) LoadStore() (*marketdata.Store, error) {
	if s.Database.Conn != "" {
		return s.loadStoreFromFeed()
	}

	store := &marketdata.Store{}

	required := map[marketdata.Kind]string{
		marketdata.ForwardRates: s.Data.ForwardRates,
	}
	optional := map[marketdata.Kind]string{
		marketdata.LiquidityPremium: s.Data.LiquidityPremium,
		marketdata.MortalityTable:   s.Data.MortalityTable,
		marketdata.RepurchaseRates:  s.Data.RepurchaseRates,
	}

	for kind, name := range required {
		if err := store.LoadCSV(s.resolve(name), kind); err != nil {
			return nil, fmt.Errorf("LoadStore: %w", err)
		}
	}
	for kind, name := range optional {
		path := s.resolve(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := store.LoadCSV(path, kind); err != nil {
			return nil, fmt.Errorf("LoadStore: %w", err)
		}
	}
	return store, nil
}

// loadStoreFromFeed pulls the curve categories from the Postgres rates
// feed. Liquidity premiums and repurchase rates are optional there too;
// the mortality table keeps its CSV source when the file exists.
func (s *Scenario) loadStoreFromFeed() (*marketdata.Store, error) {
	feed, err := marketdata.OpenPostgresFeed(s.Database.Conn, s.Database.Table)
	if err != nil {
		return nil, fmt.Errorf("LoadStore: %w", err)
	}
	defer feed.Close()

	store := &marketdata.Store{}
	if err := store.LoadFeed(feed, marketdata.ForwardRates); err != nil {
		return nil, fmt.Errorf("LoadStore: %w", err)
	}
	for _, kind := range []marketdata.Kind{marketdata.LiquidityPremium, marketdata.RepurchaseRates} {
		if err := store.LoadFeed(feed, kind); err != nil {
			if errors.Is(err, marketdata.ErrMissingCurveData) {
				continue
			}
			return nil, fmt.Errorf("LoadStore: %w", err)
		}
	}

	if path := s.resolve(s.Data.MortalityTable); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := store.LoadCSV(path, marketdata.MortalityTable); err != nil {
				return nil, fmt.Errorf("LoadStore: %w", err)
			}
		}
	}
	return store, nil
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) || s.DataDir == "" {
		return name
	}
	return filepath.Join(s.DataDir, name)
}
