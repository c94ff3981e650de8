package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/butler/pkg/adapter"
	"github.com/m-mizutani/butler/pkg/repository"
	"github.com/m-mizutani/butler/pkg/service/planner"
)

// config holds configuration values
type config struct {
	configPath string
	logLevel   string

	// Storage
	dataDir string

	// Oracle
	geminiProject  string
	geminiLocation string
	geminiModel    string

	// Task API keys
	weatherAPIKey string
	newsAPIKey    string
	stockAPIKey   string
	serperAPIKey  string

	// Assistant behavior
	inputMode  string
	alarmSound string
}

// fileConfig mirrors config for the optional YAML config file. Flags and
// environment variables take precedence over file values.
type fileConfig struct {
	LogLevel       string `yaml:"log_level"`
	DataDir        string `yaml:"data_dir"`
	GeminiProject  string `yaml:"gemini_project"`
	GeminiLocation string `yaml:"gemini_location"`
	GeminiModel    string `yaml:"gemini_model"`
	WeatherAPIKey  string `yaml:"weather_api_key"`
	NewsAPIKey     string `yaml:"news_api_key"`
	StockAPIKey    string `yaml:"stock_api_key"`
	SerperAPIKey   string `yaml:"serper_api_key"`
	InputMode      string `yaml:"input_mode"`
	AlarmSound     string `yaml:"alarm_sound"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("BUTLER_CONFIG"),
			Destination: &cfg.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("BUTLER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Aliases:     []string{"d"},
			Usage:       "Directory for reminders, alarms and the knowledge base",
			Value:       defaultDataDir(),
			Sources:     cli.EnvVars("BUTLER_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
	}
}

// oracleFlags returns flags for the planning oracle
func oracleFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// taskFlags returns flags for external task services
func taskFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "weather-api-key",
			Usage:       "OpenWeatherMap API key",
			Sources:     cli.EnvVars("OPENWEATHER_API_KEY"),
			Destination: &cfg.weatherAPIKey,
		},
		&cli.StringFlag{
			Name:        "news-api-key",
			Usage:       "NewsAPI key",
			Sources:     cli.EnvVars("NEWS_API_KEY"),
			Destination: &cfg.newsAPIKey,
		},
		&cli.StringFlag{
			Name:        "stock-api-key",
			Usage:       "Alpha Vantage API key",
			Sources:     cli.EnvVars("ALPHAVANTAGE_API_KEY"),
			Destination: &cfg.stockAPIKey,
		},
		&cli.StringFlag{
			Name:        "serper-api-key",
			Usage:       "Serper web search API key",
			Sources:     cli.EnvVars("SERPER_API_KEY"),
			Destination: &cfg.serperAPIKey,
		},
	}
}

// assistantFlags returns flags for assistant behavior
func assistantFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input-mode",
			Usage:       "Initial input mode (voice or text)",
			Value:       "voice",
			Sources:     cli.EnvVars("BUTLER_INPUT_MODE"),
			Destination: &cfg.inputMode,
		},
		&cli.StringFlag{
			Name:        "alarm-sound",
			Usage:       "Sound file played when an alarm fires",
			Sources:     cli.EnvVars("BUTLER_ALARM_SOUND"),
			Destination: &cfg.alarmSound,
		},
	}
}

// applyFile merges the YAML config file into unset fields. Flags and
// environment variables win.
func (cfg *config) applyFile() error {
	if cfg.configPath == "" {
		return nil
	}

	raw, err := os.ReadFile(cfg.configPath)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configPath))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configPath))
	}

	merge := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}
	merge(&cfg.geminiProject, fc.GeminiProject)
	merge(&cfg.geminiModel, fc.GeminiModel)
	merge(&cfg.weatherAPIKey, fc.WeatherAPIKey)
	merge(&cfg.newsAPIKey, fc.NewsAPIKey)
	merge(&cfg.stockAPIKey, fc.StockAPIKey)
	merge(&cfg.serperAPIKey, fc.SerperAPIKey)
	merge(&cfg.alarmSound, fc.AlarmSound)

	// flags with defaults only yield to the file when left at the default
	if fc.LogLevel != "" && cfg.logLevel == "info" {
		cfg.logLevel = fc.LogLevel
	}
	if fc.DataDir != "" && cfg.dataDir == defaultDataDir() {
		cfg.dataDir = fc.DataDir
	}
	if fc.GeminiLocation != "" && cfg.geminiLocation == "us-central1" {
		cfg.geminiLocation = fc.GeminiLocation
	}
	if fc.InputMode != "" && cfg.inputMode == "voice" {
		cfg.inputMode = fc.InputMode
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".butler"
	}
	return home + "/.butler"
}

// newRepository creates the local repository
func (cfg *config) newRepository() (repository.Repository, error) {
	if cfg.dataDir == "" {
		return nil, goerr.New("data-dir is required")
	}
	repo, err := repository.NewLocal(cfg.dataDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates the Gemini adapter
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithModel(cfg.geminiModel))
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newPlanner creates the planning oracle service
func (cfg *config) newPlanner(ctx context.Context) (*planner.Planner, error) {
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}
	return planner.New(gemini), nil
}
