package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string  `yaml:"mode"` // DRY_RUN or LIVE
	Symbol      string  `yaml:"symbol"`
	Quantity    float64 `yaml:"quantity"`
	PollSeconds int     `yaml:"poll_seconds"`
	Risk        struct {
		MaxPositionSize float64 `yaml:"max_position_size"`
		StopLossPct     float64 `yaml:"stop_loss_pct"`
		TakeProfitPct   float64 `yaml:"take_profit_pct"`
		MaxDailyTrades  int     `yaml:"max_daily_trades"`
	} `yaml:"risk"`
	Entry struct {
		DipPct float64 `yaml:"dip_pct"` // required drop below the last entry before re-buying
	} `yaml:"entry"`
	Feed struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"feed"`
	Broker struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"broker"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Database struct {
		URLEnv string `yaml:"url_env"` // env var holding the postgres URL; empty URL disables persistence
	} `yaml:"database"`
	Alerts struct {
		Events     []string `yaml:"events"` // event types to forward; empty forwards all
		WebhookURL string   `yaml:"webhook_url"`
		Email      struct {
			SMTPServer string `yaml:"smtp_server"`
			SMTPPort   int    `yaml:"smtp_port"`
			From       string `yaml:"from"`
			To         string `yaml:"to"`
		} `yaml:"email"`
	} `yaml:"alerts"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if c.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %g", c.Quantity)
	}
	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("risk.max_position_size must be positive, got %g", c.Risk.MaxPositionSize)
	}
	if c.Risk.StopLossPct <= 0 || c.Risk.StopLossPct > 100 {
		return fmt.Errorf("risk.stop_loss_pct must be between 0-100, got %.2f", c.Risk.StopLossPct)
	}
	if c.Risk.TakeProfitPct <= 0 {
		return fmt.Errorf("risk.take_profit_pct must be positive, got %.2f", c.Risk.TakeProfitPct)
	}
	if c.Risk.MaxDailyTrades <= 0 {
		return fmt.Errorf("risk.max_daily_trades must be positive, got %d", c.Risk.MaxDailyTrades)
	}
	if c.Entry.DipPct < 0 || c.Entry.DipPct > 100 {
		return fmt.Errorf("entry.dip_pct must be between 0-100, got %.2f", c.Entry.DipPct)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 60
	}
	if c.Entry.DipPct == 0 {
		c.Entry.DipPct = 2.0
	}
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = "https://api.binance.com"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Alerts.Email.SMTPPort == 0 {
		c.Alerts.Email.SMTPPort = 587
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
