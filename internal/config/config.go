package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	AppDir         = "evcal"
	ConfigFileName = "config.yaml"
	DBFileName     = "evcal.db"

	defaultLookahead = 60
	defaultUpcoming  = 5
	defaultWeekStart = "sunday"
	defaultRefresh   = "* * * * *"
	defaultBuffer    = 64
	defaultLogLevel  = "info"
)

// Config is the on-disk configuration. Environment variables prefixed
// EVCAL_ override it at startup.
type Config struct {
	// DBPath is the SQLite file holding the key-value table.
	DBPath string `yaml:"db_path"`
	// LogFile receives log lines while the TUI owns the terminal. Empty
	// discards them.
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	DesktopNotifications bool `yaml:"desktop_notifications"`
	Sound                bool `yaml:"sound"`

	LookaheadMinutes int `yaml:"lookahead_minutes"`
	UpcomingCount    int `yaml:"upcoming_count"`

	// WeekStart is "sunday" or "monday".
	WeekStart string `yaml:"week_start"`

	// Refresh is a standard 5-field cron spec for redrawing relative times
	// and picking up a new day.
	Refresh string `yaml:"refresh"`

	SchedulerBuffer int `yaml:"scheduler_buffer"`
}

func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, AppDir)
	}
	return "." + AppDir
}

func DefaultPath() string {
	return filepath.Join(DefaultDir(), ConfigFileName)
}

func DefaultConfig() *Config {
	return &Config{
		DBPath:           filepath.Join(DefaultDir(), DBFileName),
		LogLevel:         defaultLogLevel,
		Sound:            true,
		LookaheadMinutes: defaultLookahead,
		UpcomingCount:    defaultUpcoming,
		WeekStart:        defaultWeekStart,
		Refresh:          defaultRefresh,
		SchedulerBuffer:  defaultBuffer,
	}
}

// Normalize replaces missing or unusable values with defaults.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = filepath.Join(DefaultDir(), DBFileName)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "error":
		c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.LookaheadMinutes <= 0 {
		c.LookaheadMinutes = defaultLookahead
	}
	if c.UpcomingCount <= 0 {
		c.UpcomingCount = defaultUpcoming
	}
	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "monday":
		c.WeekStart = "monday"
	default:
		c.WeekStart = defaultWeekStart
	}
	if _, err := cron.ParseStandard(c.Refresh); err != nil {
		c.Refresh = defaultRefresh
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = defaultBuffer
	}
}

func (c *Config) Lookahead() time.Duration {
	return time.Duration(c.LookaheadMinutes) * time.Minute
}

func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// RefreshSchedule parses Refresh, falling back to every minute.
func (c *Config) RefreshSchedule() cron.Schedule {
	if sched, err := cron.ParseStandard(c.Refresh); err == nil {
		return sched
	}
	sched, _ := cron.ParseStandard(defaultRefresh)
	return sched
}

// Load reads the YAML file at path. A missing file is created with
// defaults on first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			return cfg, Save(path, cfg)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".evcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ApplyEnv overrides fields from EVCAL_* variables. Unparseable values
// are ignored.
func (c *Config) ApplyEnv() {
	if v, ok := getEnvString("EVCAL_DB"); ok {
		c.DBPath = v
	}
	if v, ok := getEnvString("EVCAL_LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := getEnvString("EVCAL_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := getEnvBool("EVCAL_DESKTOP_NOTIFICATIONS"); ok {
		c.DesktopNotifications = v
	}
	if v, ok := getEnvBool("EVCAL_SOUND"); ok {
		c.Sound = v
	}
	if v, ok := getEnvInt("EVCAL_LOOKAHEAD_MINUTES"); ok && v > 0 {
		c.LookaheadMinutes = v
	}
	if v, ok := getEnvInt("EVCAL_UPCOMING_COUNT"); ok && v > 0 {
		c.UpcomingCount = v
	}
	if v, ok := getEnvString("EVCAL_WEEK_START"); ok {
		c.WeekStart = v
	}
	if v, ok := getEnvString("EVCAL_REFRESH"); ok {
		c.Refresh = v
	}
	if v, ok := getEnvInt("EVCAL_SCHEDULER_BUFFER"); ok && v > 0 {
		c.SchedulerBuffer = v
	}
	c.Normalize()
}

// LoadWithEnv loads path (EVCAL_CONFIG wins when set) and applies env
// overrides.
func LoadWithEnv(path string) (*Config, string, error) {
	if v, ok := getEnvString("EVCAL_CONFIG"); ok {
		path = v
	}
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := Load(path)
	if cfg == nil {
		return nil, path, err
	}
	cfg.ApplyEnv()
	return cfg, path, err
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
