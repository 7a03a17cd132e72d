package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Scraping ScrapingConfig `yaml:"scraping"`
	Database DatabaseConfig `yaml:"database"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	LogFile string `yaml:"log_file"`
	APIAddr string `yaml:"api_addr"`
}

type ScrapingConfig struct {
	Fetch           FetchConfig           `yaml:"fetch"`
	RateLimit       RateLimitConfig       `yaml:"rate_limit"`
	Property24      Property24Config      `yaml:"property24"`
	PrivateProperty PrivatePropertyConfig `yaml:"privateproperty"`
}

// FetchConfig drives the retrying GET.
type FetchConfig struct {
	Retries    int           `yaml:"retries"`
	Wait       time.Duration `yaml:"wait"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgents []string      `yaml:"user_agents"`
}

// RateLimitConfig bounds the random pause between listing pages.
type RateLimitConfig struct {
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
}

type Property24Config struct {
	IndexURL        string `yaml:"index_url"`
	CityURLTemplate string `yaml:"city_url_template"`
	OutputFile      string `yaml:"output_file"`
}

type PrivatePropertyConfig struct {
	BaseURL    string `yaml:"base_url"`
	Pages      int    `yaml:"pages"`
	OutputFile string `yaml:"output_file"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// Default returns the fixed tunables the scraper runs with when nothing
// overrides them.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "landscraper",
			LogFile: "scraper_log.log",
			APIAddr: ":8080",
		},
		Scraping: ScrapingConfig{
			Fetch: FetchConfig{
				Retries: 3,
				Wait:    2 * time.Second,
				Timeout: 10 * time.Second,
				UserAgents: []string{
					"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.88 Safari/537.36",
					"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.77 Safari/537.36",
					"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
				},
			},
			RateLimit: RateLimitConfig{
				MinDelay: 1 * time.Second,
				MaxDelay: 3 * time.Second,
			},
			Property24: Property24Config{
				IndexURL:        "https://www.property24.com/vacant-land-for-sale/all-cities/western-cape/9",
				CityURLTemplate: "https://www.property24.com/vacant-land-for-sale/%s/western-cape/%s",
				OutputFile:      "property24_listings.csv",
			},
			PrivateProperty: PrivatePropertyConfig{
				BaseURL:    "https://www.privateproperty.co.za/for-sale/western-cape",
				Pages:      5,
				OutputFile: "privateproperty_listings.csv",
			},
		},
	}
}

// LoadConfig builds the configuration from the defaults, the optional
// configs/app.yaml and configs/scraping.yaml files, and the .env file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("configs", ".env")
}

func LoadConfigFrom(dir, envFile string) (*Config, error) {
	cfg := Default()

	// Carrega arquivo YAML base
	if err := loadYAML(filepath.Join(dir, "app.yaml"), cfg); err != nil {
		return nil, err
	}

	// Carrega configurações específicas de scraping
	if err := loadYAML(filepath.Join(dir, "scraping.yaml"), &cfg.Scraping); err != nil {
		return nil, err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}
	if dsn := strings.TrimSpace(os.Getenv("PG_DSN")); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if addr := strings.TrimSpace(os.Getenv("API_ADDR")); addr != "" {
		cfg.App.APIAddr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML decodes path over out. A missing file leaves out untouched.
func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	f := c.Scraping.Fetch
	switch {
	case f.Retries < 1:
		return fmt.Errorf("fetch.retries must be at least 1, got %d", f.Retries)
	case f.Wait < 0:
		return fmt.Errorf("fetch.wait must not be negative, got %v", f.Wait)
	case f.Timeout <= 0:
		return fmt.Errorf("fetch.timeout must be positive, got %v", f.Timeout)
	case len(f.UserAgents) == 0:
		return errors.New("fetch.user_agents must not be empty")
	}

	rl := c.Scraping.RateLimit
	if rl.MinDelay < 0 || rl.MaxDelay < rl.MinDelay {
		return fmt.Errorf("rate_limit: invalid delay range %v-%v", rl.MinDelay, rl.MaxDelay)
	}
	if c.Scraping.PrivateProperty.Pages < 0 {
		return fmt.Errorf("privateproperty.pages must not be negative, got %d", c.Scraping.PrivateProperty.Pages)
	}
	if strings.Count(c.Scraping.Property24.CityURLTemplate, "%s") != 2 {
		return errors.New("property24.city_url_template needs exactly two %s verbs")
	}
	return nil
}
