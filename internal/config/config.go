package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		CookieSecret string `yaml:"cookie_secret"`
	} `yaml:"server"`
	API struct {
		Port        string   `yaml:"port"`
		BaseURL     string   `yaml:"base_url"`
		Timeout     string   `yaml:"timeout"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"api"`
	Storage struct {
		Driver   string `yaml:"driver"`
		TestsDir string `yaml:"tests_dir"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Session struct {
		IdleTTL       string `yaml:"idle_ttl"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"session"`
	Animation struct {
		FrameInterval string `yaml:"frame_interval"`
	} `yaml:"animation"`
}

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Default returns the settings used when no config file exists: file storage under
// data/tests, API on :8000, web UI on :8080.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.API.Port = "8000"
	cfg.API.BaseURL = "http://localhost:8000"
	cfg.API.Timeout = "10s"
	cfg.Storage.Driver = DriverFile
	cfg.Storage.TestsDir = "data/tests"
	cfg.SQLite.Path = "quiz-ladders.db"
	cfg.Quiz.TTL = "10m"
	cfg.Session.IdleTTL = "30m"
	cfg.Session.SweepInterval = "1m"
	cfg.Animation.FrameInterval = "16ms"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
