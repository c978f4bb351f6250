package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	defaultEnv            = EnvLocal
	defaultLogLevel       = "info"
	defaultAPIURL         = "http://localhost:8000"
	defaultConfigDir      = ".ssksadmin"
	defaultDataFile       = "data.db"
	defaultRequestTimeout = 30
	defaultCloudinaryURL  = "https://api.cloudinary.com/v1_1"
	defaultCloudName      = "diz0v7rws"
	defaultUploadPreset   = "ssks-architect"
	defaultUploadFolder   = "ssks-architect/project"
	defaultMaxImageBytes  = 5 << 20
)

type Config struct {
	Env            string        `mapstructure:"app_env"`
	LogLevel       string        `mapstructure:"log_level"`
	APIURL         string        `mapstructure:"api_url"`
	ConfigDir      string        `mapstructure:"config_dir"`
	DataPath       string        `mapstructure:"data_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout_seconds"`
	Media          Media
}

// Media - параметры загрузки изображений на Cloudinary
type Media struct {
	BaseURL       string `mapstructure:"cloudinary_api_url"`
	CloudName     string `mapstructure:"cloudinary_cloud_name"`
	UploadPreset  string `mapstructure:"cloudinary_upload_preset"`
	Folder        string `mapstructure:"cloudinary_folder"`
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
}

// Load читает .env (если есть), переменные окружения и уже прочитанный viper-конфиг.
func Load() (*Config, error) {
	// .env ищем рядом с местом запуска, затем в родительской директории
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("API_URL", defaultAPIURL)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	viper.SetDefault("CLOUDINARY_API_URL", defaultCloudinaryURL)
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", defaultCloudName)
	viper.SetDefault("CLOUDINARY_UPLOAD_PRESET", defaultUploadPreset)
	viper.SetDefault("CLOUDINARY_FOLDER", defaultUploadFolder)
	viper.SetDefault("MAX_IMAGE_BYTES", defaultMaxImageBytes)

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, defaultDataFile)
	}

	cfg := &Config{
		Env:            viper.GetString("APP_ENV"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
		APIURL:         NormalizeURL(viper.GetString("API_URL")),
		ConfigDir:      configDir,
		DataPath:       dataPath,
		RequestTimeout: time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		Media: Media{
			BaseURL:       NormalizeURL(viper.GetString("CLOUDINARY_API_URL")),
			CloudName:     viper.GetString("CLOUDINARY_CLOUD_NAME"),
			UploadPreset:  viper.GetString("CLOUDINARY_UPLOAD_PRESET"),
			Folder:        viper.GetString("CLOUDINARY_FOLDER"),
			MaxImageBytes: viper.GetInt64("MAX_IMAGE_BYTES"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NormalizeURL убирает пробелы и завершающие слэши, пути запросов добавляются с "/"
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", c.APIURL)
	}
	if c.Media.CloudName == "" {
		return fmt.Errorf("cloudinary_cloud_name must not be empty")
	}
	if c.Media.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	return nil
}

// EnsureDirs создает директорию конфигурации и директорию базы
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.ConfigDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.DataPath), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
