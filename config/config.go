package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database configuration
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"` // database name, or file name for sqlite
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig Web server configuration
type WebConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	BodyLimit    string   `yaml:"body_limit"`
	AllowOrigins []string `yaml:"allow_origins"`
	Metrics      bool     `yaml:"metrics"`    // expose prometheus metrics on /metrics
	RateLimit    float64  `yaml:"rate_limit"` // requests per second per client ip, 0 disables
}

// LogConfig Log configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// ImportConfig bulk import tuning
type ImportConfig struct {
	Workers int `yaml:"workers"`  // goroutines mapping rows in parallel
	MaxRows int `yaml:"max_rows"` // 0 means unlimited
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
	Import   ImportConfig `yaml:"import"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
}

// WebAddr returns the listen address of the api server
func (c *AppConfig) WebAddr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "SalesDash",
		Location: "UTC",
		Workdir:  "/var/salesdash",
		Debug:    true,
	},
	Web: WebConfig{
		Host:         "0.0.0.0",
		Port:         5000,
		BodyLimit:    "16M",
		AllowOrigins: []string{"*"},
		Metrics:      false,
		RateLimit:    0,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "sales_analytics",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  50,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/salesdash/logs/salesdash.log",
	},
	Import: ImportConfig{
		Workers: 8,
		MaxRows: 100000,
	},
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToIntE(evalue)
	if err == nil {
		*val = p
	}
}

func setEnvFloatValue(name string, val *float64) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToFloat64E(evalue)
	if err == nil {
		*val = p
	}
}

func setEnvSliceValue(name string, val *[]string) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	var items []string
	for _, s := range strings.Split(evalue, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	*val = items
}

// LoadConfig reads cfile when it exists, falls back to DefaultAppConfig otherwise
// and finally applies SALESDASH_* environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	cfg.Web.AllowOrigins = append([]string(nil), DefaultAppConfig.Web.AllowOrigins...)

	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfile, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfile, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// MustLoadConfig is LoadConfig for process startup.
func MustLoadConfig(cfile string) *AppConfig {
	cfg, err := LoadConfig(cfile)
	if err != nil {
		panic(err)
	}
	cfg.initDirs()
	return cfg
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("SALESDASH_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("SALESDASH_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("SALESDASH_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("SALESDASH_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("SALESDASH_WEB_PORT", &cfg.Web.Port)
	setEnvValue("SALESDASH_WEB_BODY_LIMIT", &cfg.Web.BodyLimit)
	setEnvSliceValue("SALESDASH_WEB_ALLOW_ORIGINS", &cfg.Web.AllowOrigins)
	setEnvBoolValue("SALESDASH_WEB_METRICS", &cfg.Web.Metrics)
	setEnvFloatValue("SALESDASH_WEB_RATE_LIMIT", &cfg.Web.RateLimit)

	setEnvValue("SALESDASH_DB_TYPE", &cfg.Database.Type)
	setEnvValue("SALESDASH_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("SALESDASH_DB_PORT", &cfg.Database.Port)
	setEnvValue("SALESDASH_DB_NAME", &cfg.Database.Name)
	setEnvValue("SALESDASH_DB_USER", &cfg.Database.User)
	setEnvValue("SALESDASH_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("SALESDASH_DB_MAX_CONN", &cfg.Database.MaxConn)
	setEnvIntValue("SALESDASH_DB_IDLE_CONN", &cfg.Database.IdleConn)
	setEnvBoolValue("SALESDASH_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("SALESDASH_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("SALESDASH_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("SALESDASH_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvIntValue("SALESDASH_IMPORT_WORKERS", &cfg.Import.Workers)
	setEnvIntValue("SALESDASH_IMPORT_MAX_ROWS", &cfg.Import.MaxRows)
}
