package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName   string `json:"appname" env:"APPNAME" envDefault:"Coffee Brokerage"`
	AppEnv    string `json:"appenv" env:"APPENV" envDefault:"development"`
	AppPort   uint16 `json:"appport" env:"APPPORT" envDefault:"8080"`
	GinMode   string `json:"ginmode" env:"GINMODE" envDefault:"debug"`
	LogLevel  string `json:"loglevel" env:"LOGLEVEL" envDefault:"info"`
	LogFormat string `json:"logformat" env:"LOGFORMAT" envDefault:"console"`

	// DBDriver is sqlite (default, in-memory) or mysql.
	DBDriver   string `json:"dbdriver" env:"DBDRIVER" envDefault:"sqlite"`
	SQLitePath string `json:"sqlitepath" env:"SQLITEPATH" envDefault:"file::memory:?cache=shared"`
	DBHost     string `json:"dbhost" env:"DBHOST" envDefault:"localhost"`
	DBPort     uint16 `json:"dbport" env:"DBPORT" envDefault:"3306"`
	DBName     string `json:"dbname" env:"DBNAME"`
	DBUSER     string `json:"dbuser" env:"DBUSER"`
	DBPass     string `json:"dbpass" env:"DBPASS"`

	RedisEnabled bool   `json:"redisenabled" env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr    string `json:"redisaddr" env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string `json:"-" env:"REDIS_PASSWORD"`
	RedisDB      int    `json:"redisdb" env:"REDIS_DB" envDefault:"0"`

	GeoIPDBPath string `json:"geoipdbpath" env:"GEOIP_DB_PATH"`
	// GeoIPDBURL, when set, is downloaded to GeoIPDBPath if that file is missing.
	GeoIPDBURL  string `json:"-" env:"GEOIP_DB_URL"`
	IPLookupURL string `json:"iplookupurl" env:"IP_LOOKUP_URL" envDefault:"https://api.ipify.org"`

	// AuditCapacity bounds the in-memory system log; 0 keeps every entry.
	AuditCapacity int `json:"auditcapacity" env:"AUDIT_CAPACITY" envDefault:"10000"`
	// AuditRetention drops entries older than this; 0 disables the job.
	AuditRetention         time.Duration `json:"auditretention" env:"AUDIT_RETENTION" envDefault:"0s"`
	AuditRetentionSchedule string        `json:"auditretentionschedule" env:"AUDIT_RETENTION_SCHEDULE" envDefault:"@every 10m"`
	AuditDBMirror          bool          `json:"auditdbmirror" env:"AUDIT_DB_MIRROR" envDefault:"false"`
	AuditRedisKey          string        `json:"auditrediskey" env:"AUDIT_REDIS_KEY" envDefault:"audit:logs"`
	AuditRedisMax          int64         `json:"auditredismax" env:"AUDIT_REDIS_MAX" envDefault:"1000"`

	// WriteRateLimit caps record writes per client IP and route in each window.
	WriteRateLimit  int           `json:"writeratelimit" env:"WRITE_RATE_LIMIT" envDefault:"120"`
	WriteRateWindow time.Duration `json:"writeratewindow" env:"WRITE_RATE_WINDOW" envDefault:"1m"`
}

// IsTest reports whether the app runs under APPENV=test.
func (c Config) IsTest() bool {
	return c.AppEnv == "test"
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf(":%d", c.AppPort)
}

var config *Config
var once sync.Once

// Load reads a .env file when present and parses the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadConfig returns the singleton Config, loading it on first use.
func LoadConfig() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		config = cfg
	})
	return config
}

// ConnectDB opens the records database. Under APPENV=test, or with the
// sqlite driver, it uses SQLite (in-memory unless SQLITEPATH says otherwise).
func ConnectDB() (*gorm.DB, error) {
	cfg := LoadConfig()
	return Open(cfg)
}

// Open connects using the given configuration.
func Open(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case cfg.IsTest() || cfg.DBDriver == "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case cfg.DBDriver == "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DBDRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
