package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config carries everything the processes read at startup. Missing required
// values fail the run immediately; nothing degrades silently at this layer.
type Config struct {
	DatabaseURL string
	RedisURL    string

	OpenAIAPIKey    string
	AnthropicAPIKey string
	FMPAPIKey       string
	FinnhubAPIKey   string

	SECUserAgent string

	// Directory maps ticker to canonical company name. It is the closed set
	// of entities the resolver will ever return.
	Directory map[string]string

	// Tickers is the ordered tracked-identifier list driving the market-data
	// and filing pollers.
	Tickers []string
}

// Load reads env vars plus the two config files. required lists the env vars
// this process cannot run without (each cmd has a different set).
func Load(configDir string, required ...string) (*Config, error) {
	for _, name := range required {
		if os.Getenv(name) == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", name)
		}
	}

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		FMPAPIKey:       os.Getenv("FMP_API_KEY"),
		FinnhubAPIKey:   os.Getenv("FINNHUB_API_KEY"),
		SECUserAgent:    os.Getenv("SEC_USER_AGENT"),
	}

	if cfg.SECUserAgent == "" {
		cfg.SECUserAgent = "FinancialNewsPlatform admin@example.com"
	}

	directory, err := loadDirectory(configDir + "/company_map.json")
	if err != nil {
		return nil, err
	}
	cfg.Directory = directory

	tickers, err := loadTickers(configDir + "/tickers.txt")
	if err != nil {
		return nil, err
	}
	cfg.Tickers = tickers

	return cfg, nil
}

func loadDirectory(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read company directory: %w", err)
	}

	directory := make(map[string]string)
	if err := json.Unmarshal(data, &directory); err != nil {
		return nil, fmt.Errorf("parse company directory: %w", err)
	}
	if len(directory) == 0 {
		return nil, fmt.Errorf("company directory %s is empty", path)
	}
	return directory, nil
}

func loadTickers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read ticker list: %w", err)
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ticker list: %w", err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker list %s is empty", path)
	}
	return tickers, nil
}
