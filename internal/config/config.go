package config

import (
	"strings"
	"time"

	"github.com/efidev/issuetracker/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr   = ":3000"
	DefaultStaticDir    = "./static"
	DefaultDatabasePath = "issue_tracker.db"
	DefaultUploadDir    = "./uploads"
	DefaultBackupDir    = "./backups"
)

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busyTimeout"`
}

type SessionConfig struct {
	SessionMaxAge  time.Duration `mapstructure:"sessionMaxAge"`
	CookieName     string        `mapstructure:"cookieName"`
	CookieHttpOnly bool          `mapstructure:"cookieHttpOnly"`
	CookieSecure   bool          `mapstructure:"cookieSecure"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	MaxSize int64  `mapstructure:"maxSize"`
}

type Config struct {
	Debug        bool           `mapstructure:"debug"`
	SiteName     string         `mapstructure:"siteName"`
	ListenAddr   string         `mapstructure:"listenAddr"`
	StaticDir    string         `mapstructure:"staticDir"`
	TemplateDir  string         `mapstructure:"templateDir"`
	BackupDir    string         `mapstructure:"backupDir"`
	AllowOrigins []string       `mapstructure:"allowOrigins"`
	Database     DatabaseConfig `mapstructure:"database"`
	Session      SessionConfig  `mapstructure:"session"`
	Upload       UploadConfig   `mapstructure:"upload"`
}

func (c *Config) Sanitize() error {
	if c.SiteName == "" {
		c.SiteName = "IT Issue Tracker"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.BackupDir == "" {
		c.BackupDir = DefaultBackupDir
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = params.DatabaseBusyTimeout
	}
	if c.Session.SessionMaxAge == 0 {
		c.Session.SessionMaxAge = params.DefaultSessionMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = params.SessionCookieName
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = DefaultUploadDir
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = params.UploadMaxSize
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
