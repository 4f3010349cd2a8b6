package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config はアプリ全体の設定です。marumie_config.json に保存され、
// 一部は環境変数 (.env 含む) で上書きできます。
type Config struct {
	Port             string `json:"port"`
	DBPath           string `json:"dbPath"`
	StaticDir        string `json:"staticDir"`
	ImportFolderPath string `json:"importFolderPath"`
	EnableWatcher    bool   `json:"enableWatcher"`
	AnalyticsPath    string `json:"analyticsPath"`
	ShareBaseURL     string `json:"shareBaseURL"`
	ListingLoginURL  string `json:"listingLoginURL"`
	ListingUserID    string `json:"listingUserID"`
	ListingPassword  string `json:"listingPassword"`
}

var (
	cfg     Config
	mu      sync.RWMutex
	envOnce sync.Once
)

const configFilePath = "./marumie_config.json"

func defaults() Config {
	return Config{
		Port:             "8080",
		DBPath:           "./marumie.db",
		StaticDir:        "./static",
		ImportFolderPath: "./import",
		EnableWatcher:    true,
		AnalyticsPath:    "./analytics.yaml",
		ShareBaseURL:     "http://localhost:8080",
	}
}

// LoadConfig は設定ファイルと環境変数を読み込みます。ファイルが無い場合は
// 既定値を返します。
func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	envOnce.Do(func() {
		_ = godotenv.Load()
	})

	loaded := defaults()
	file, err := os.ReadFile(configFilePath)
	if err == nil {
		if err := json.Unmarshal(file, &loaded); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	applyEnvOverrides(&loaded)
	fillDefaults(&loaded)
	cfg = loaded

	if err := loadAnalytics(cfg.AnalyticsPath); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(c *Config) {
	setIfEnv(&c.Port, "PORT")
	setIfEnv(&c.DBPath, "DB_PATH")
	setIfEnv(&c.ImportFolderPath, "IMPORT_DIR")
	setIfEnv(&c.ShareBaseURL, "SHARE_BASE_URL")
	setIfEnv(&c.ListingLoginURL, "LISTING_LOGIN_URL")
	setIfEnv(&c.ListingUserID, "LISTING_USER_ID")
	setIfEnv(&c.ListingPassword, "LISTING_PASSWORD")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func fillDefaults(c *Config) {
	d := defaults()
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.StaticDir == "" {
		c.StaticDir = d.StaticDir
	}
	if c.ImportFolderPath == "" {
		c.ImportFolderPath = d.ImportFolderPath
	}
	if c.AnalyticsPath == "" {
		c.AnalyticsPath = d.AnalyticsPath
	}
	if c.ShareBaseURL == "" {
		c.ShareBaseURL = d.ShareBaseURL
	}
}

// SaveConfig は設定をファイルへ書き出し、メモリ上の設定も更新します。
func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	fillDefaults(&newCfg)
	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

// GetConfig は現在の設定を返します。
func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
