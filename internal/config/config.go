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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	OCR      OCRConfig      `yaml:"ocr" mapstructure:"ocr"`
	Template TemplateConfig `yaml:"template" mapstructure:"template"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OCRConfig configures how page text and tables are pulled out of PDFs.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	ServiceURL    string `yaml:"service_url" mapstructure:"service_url"`
	ServiceToken  string `yaml:"service_token" mapstructure:"service_token"`
	// RequestsPerSecond throttles calls to the extraction service.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// TemplateConfig selects the extraction template.
type TemplateConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the extraction HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PRICELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "pricelist.db")
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.requests_per_second", 2.0)
	v.SetDefault("batch.max_concurrent_documents", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
