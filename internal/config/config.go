package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server Server `yaml:"server"`
	Engine Engine `yaml:"engine"`
}

// Server holds settings for the service layers around the engine.
type Server struct {
	Addr        string        `yaml:"addr"`
	InputDir    string        `yaml:"input_dir"`
	FrontendDir string        `yaml:"frontend_dir"`
	LogLevel    string        `yaml:"log_level"`
	Development bool          `yaml:"development"`
	DatabaseURL string        `yaml:"database_url"`
	RedisAddr   string        `yaml:"redis_addr"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	MQTTBroker  string        `yaml:"mqtt_broker"`
	MQTTTopic   string        `yaml:"mqtt_topic_prefix"`
	MQTTClient  string        `yaml:"mqtt_client_id"`
	Workers     int           `yaml:"optimizer_workers"`
}

// Engine holds every default the simulation engine falls back to.
type Engine struct {
	Financial Financial `yaml:"financial"`
	Wind      Wind      `yaml:"wind"`
	Solar     Solar     `yaml:"solar"`
	// CO2FactorKgPerKWh converts generation to avoided emissions.
	CO2FactorKgPerKWh float64 `yaml:"co2_factor_kg_kwh"`
}

// Financial defaults. Rates are fractions.
type Financial struct {
	Years           int     `yaml:"years"`
	DiscountRate    float64 `yaml:"discount_rate"`
	CostOfEquity    float64 `yaml:"cost_of_equity"`
	DebtRatio       float64 `yaml:"debt_ratio"`
	InterestRate    float64 `yaml:"interest_rate"`
	LoanTermYears   int     `yaml:"loan_term_years"`
	Inflation       float64 `yaml:"inflation"`
	EnergyInflation float64 `yaml:"energy_inflation"`
	TaxRate         float64 `yaml:"tax_rate"`
	GridPrice       float64 `yaml:"grid_price_eur_kwh"`
	// RealDiscountRate treats DiscountRate as real and converts it to nominal
	// with the energy inflation.
	RealDiscountRate bool   `yaml:"real_discount_rate"`
	Scenario         string `yaml:"scenario"`
}

// Wind defaults.
type Wind struct {
	WeibullK         float64 `yaml:"weibull_k"`
	ShearExponent    float64 `yaml:"shear_exponent"`
	ReferenceHeightM float64 `yaml:"reference_height_m"`
	CutInMS          float64 `yaml:"cut_in_ms"`
	RatedSpeedMS     float64 `yaml:"rated_speed_ms"`
	CutOutMS         float64 `yaml:"cut_out_ms"`
	PowerCoefficient float64 `yaml:"power_coefficient"`
	IntegrationStep  float64 `yaml:"integration_step_ms"`
	Availability     float64 `yaml:"availability"`
	WakeLoss         float64 `yaml:"wake_loss"`
	Degradation      float64 `yaml:"degradation"`
	TemperatureC     float64 `yaml:"temperature_c"`
	// LargeTurbineKW is the size above which no energy is self-consumed.
	LargeTurbineKW float64 `yaml:"large_turbine_kw"`
}

// Solar defaults.
type Solar struct {
	PerformanceRatio    float64 `yaml:"performance_ratio"`
	BaseSpecificYield   float64 `yaml:"base_specific_yield_kwh_kwp"`
	OptimalTiltDeg      float64 `yaml:"optimal_tilt_deg"`
	OptimalAzimuthDeg   float64 `yaml:"optimal_azimuth_deg"`
	TiltPenalty         float64 `yaml:"tilt_penalty"`
	AzimuthPenalty      float64 `yaml:"azimuth_penalty"`
	MinOrientation      float64 `yaml:"min_orientation_factor"`
	Degradation         float64 `yaml:"degradation"`
	LifetimeYears       int     `yaml:"lifetime_years"`
	InverterReplacement int     `yaml:"inverter_replacement_year"`
	InverterCostShare   float64 `yaml:"inverter_cost_share"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:       ":8080",
			InputDir:   "input",
			LogLevel:   "info",
			CacheTTL:   time.Hour,
			MQTTTopic:  "renewsim",
			MQTTClient: "renewsim",
			Workers:    8,
		},
		Engine: DefaultEngine(),
	}
}

// DefaultEngine returns the built-in engine defaults.
func DefaultEngine() Engine {
	return Engine{
		Financial: Financial{
			Years:           25,
			DiscountRate:    0.05,
			CostOfEquity:    0.08,
			DebtRatio:       0.70,
			InterestRate:    0.045,
			LoanTermYears:   15,
			Inflation:       0.02,
			EnergyInflation: 0.015,
			TaxRate:         0.25,
			GridPrice:       0.15,
		},
		Wind: Wind{
			WeibullK:         2.0,
			ShearExponent:    0.143,
			ReferenceHeightM: 10,
			CutInMS:          3,
			RatedSpeedMS:     13,
			CutOutMS:         25,
			PowerCoefficient: 0.35,
			IntegrationStep:  0.5,
			Availability:     0.96,
			WakeLoss:         0.08,
			TemperatureC:     15,
			LargeTurbineKW:   100,
		},
		Solar: Solar{
			PerformanceRatio:    0.85,
			BaseSpecificYield:   1700,
			OptimalTiltDeg:      35,
			OptimalAzimuthDeg:   0,
			TiltPenalty:         1.4e-4,
			AzimuthPenalty:      2e-5,
			MinOrientation:      0.6,
			Degradation:         0.0055,
			LifetimeYears:       25,
			InverterReplacement: 12,
			InverterCostShare:   0.15,
		},
		CO2FactorKgPerKWh: 0.25,
	}
}

// Load builds a Config from defaults, an optional YAML file and the environment.
// A .env file in the working directory is loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"FINANCIAL_WACC", &c.Engine.Financial.DiscountRate},
		{"COST_OF_EQUITY", &c.Engine.Financial.CostOfEquity},
		{"DEFAULT_DEBT_RATIO", &c.Engine.Financial.DebtRatio},
		{"DEFAULT_INTEREST_RATE", &c.Engine.Financial.InterestRate},
		{"INFLATION_RATE", &c.Engine.Financial.Inflation},
		{"ENERGY_INFLATION", &c.Engine.Financial.EnergyInflation},
		{"TAX_RATE", &c.Engine.Financial.TaxRate},
		{"GRID_PRICE", &c.Engine.Financial.GridPrice},
		{"DEG_SOLAR", &c.Engine.Solar.Degradation},
		{"DEG_WIND", &c.Engine.Wind.Degradation},
	}
	for _, f := range floats {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("env %s: %w", f.key, err)
		}
		*f.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DEFAULT_LOAN_TERM", &c.Engine.Financial.LoanTermYears},
		{"SIMULATION_YEARS", &c.Engine.Financial.Years},
		{"OPTIMIZER_WORKERS", &c.Server.Workers},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", f.key, err)
		}
		*f.dst = parsed
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"HTTP_ADDR", &c.Server.Addr},
		{"INPUT_DIR", &c.Server.InputDir},
		{"LOG_LEVEL", &c.Server.LogLevel},
		{"DATABASE_URL", &c.Server.DatabaseURL},
		{"REDIS_ADDR", &c.Server.RedisAddr},
		{"MQTT_BROKER", &c.Server.MQTTBroker},
		{"MQTT_TOPIC_PREFIX", &c.Server.MQTTTopic},
		{"MQTT_CLIENT_ID", &c.Server.MQTTClient},
		{"FRONTEND_DIR", &c.Server.FrontendDir},
		{"SIMULATION_SCENARIO", &c.Engine.Financial.Scenario},
	}
	for _, f := range strs {
		if v, ok := lookup(f.key); ok && v != "" {
			*f.dst = v
		}
	}

	if v, ok := lookup("CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env CACHE_TTL: %w", err)
		}
		c.Server.CacheTTL = d
	}
	return nil
}

// Validate rejects defaults that would make every simulation fail.
func (c Config) Validate() error {
	f := c.Engine.Financial
	if f.Years < 1 || f.Years > 100 {
		return fmt.Errorf("financial.years must be in [1, 100], got %d", f.Years)
	}
	if f.DebtRatio < 0 || f.DebtRatio > 1 {
		return fmt.Errorf("financial.debt_ratio must be in [0, 1], got %v", f.DebtRatio)
	}
	if f.LoanTermYears < 0 {
		return fmt.Errorf("financial.loan_term_years must not be negative, got %d", f.LoanTermYears)
	}
	if f.TaxRate < 0 || f.TaxRate > 1 {
		return fmt.Errorf("financial.tax_rate must be in [0, 1], got %v", f.TaxRate)
	}
	w := c.Engine.Wind
	if !(w.CutInMS < w.RatedSpeedMS && w.RatedSpeedMS < w.CutOutMS) {
		return fmt.Errorf("wind speeds must satisfy cut-in < rated < cut-out, got %v/%v/%v", w.CutInMS, w.RatedSpeedMS, w.CutOutMS)
	}
	if w.IntegrationStep <= 0 {
		return fmt.Errorf("wind.integration_step_ms must be positive, got %v", w.IntegrationStep)
	}
	s := c.Engine.Solar
	if s.MinOrientation < 0 || s.MinOrientation > 1 {
		return fmt.Errorf("solar.min_orientation_factor must be in [0, 1], got %v", s.MinOrientation)
	}
	if c.Server.Workers < 1 {
		return fmt.Errorf("server.optimizer_workers must be at least 1, got %d", c.Server.Workers)
	}
	return nil
}
