package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	// DateLayout is the layout of every date in the config file
	DateLayout = "2006-01-02"

	DefaultTimeBudget = 30 * time.Second
	DefaultWorkers    = 1
)

// Inputs defines where the teacher and student tables are read from
type Inputs struct {
	Source        string `yaml:"source" validate:"required,oneof=csv sheets"`
	TeachersFile  string `yaml:"teachersFile,omitempty" validate:"required_if=Source csv"`
	StudentsFile  string `yaml:"studentsFile,omitempty" validate:"required_if=Source csv"`
	SpreadsheetID string `yaml:"spreadsheetID,omitempty" validate:"required_if=Source sheets"`
	TeachersTab   string `yaml:"teachersTab,omitempty" validate:"required_if=Source sheets"`
	StudentsTab   string `yaml:"studentsTab,omitempty" validate:"required_if=Source sheets"`
}

// Scheduling tunes the trial search
type Scheduling struct {
	TimeBudget                string   `yaml:"timeBudget,omitempty"`
	MaxTrials                 int      `yaml:"maxTrials,omitempty" validate:"min=0"`
	Seed                      int64    `yaml:"seed,omitempty"`
	Workers                   int      `yaml:"workers,omitempty" validate:"min=0,max=64"`
	ExclusivePreferredTeacher bool     `yaml:"exclusivePreferredTeacher,omitempty"`
	InstrumentPriority        []string `yaml:"instrumentPriority,omitempty" validate:"dive,required"`
}

// Budget returns the parsed time budget, or the default when none is set.
// The value is checked by Validate.
func (s Scheduling) Budget() time.Duration {
	if s.TimeBudget == "" {
		return DefaultTimeBudget
	}
	d, err := time.ParseDuration(s.TimeBudget)
	if err != nil {
		return DefaultTimeBudget
	}
	return d
}

// Output defines where results are written. Every destination is optional.
type Output struct {
	TimetableCSV string `yaml:"timetableCSV,omitempty"`
	TimetablePDF string `yaml:"timetablePDF,omitempty"`
	MetricsFile  string `yaml:"metricsFile,omitempty"`
	DatabaseURL  string `yaml:"databaseURL,omitempty" validate:"omitempty,url"`
}

// Term defines the teaching term used to date each weekly lesson
type Term struct {
	Start      string   `yaml:"start" validate:"required,datetime=2006-01-02"`
	End        string   `yaml:"end" validate:"required,datetime=2006-01-02"`
	Exclusions []string `yaml:"exclusions,omitempty" validate:"dive,datetime=2006-01-02"`

	// RRule overrides the default weekly rule, e.g. "FREQ=WEEKLY;INTERVAL=2"
	RRule string `yaml:"rrule,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Inputs     Inputs     `yaml:"inputs"`
	Scheduling Scheduling `yaml:"scheduling"`
	Output     Output     `yaml:"output"`
	Term       *Term      `yaml:"term,omitempty" validate:"omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from lesson_scheduler_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="test" will look for "lesson_scheduler_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scheduling.TimeBudget == "" {
		cfg.Scheduling.TimeBudget = DefaultTimeBudget.String()
	}
	if cfg.Scheduling.Workers == 0 {
		cfg.Scheduling.Workers = DefaultWorkers
	}
}

// Validate validates the configuration struct, the time budget and the term dates
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Scheduling.TimeBudget != "" {
		budget, err := time.ParseDuration(cfg.Scheduling.TimeBudget)
		if err != nil {
			return fmt.Errorf("invalid scheduling.timeBudget: %w", err)
		}
		if budget < 0 {
			return fmt.Errorf("invalid scheduling.timeBudget: must not be negative")
		}
	}

	if cfg.Term != nil {
		if err := validateTerm(cfg.Term); err != nil {
			return err
		}
	}

	return nil
}

func validateTerm(term *Term) error {
	start, _ := time.Parse(DateLayout, term.Start)
	end, _ := time.Parse(DateLayout, term.End)
	if end.Before(start) {
		return fmt.Errorf("invalid term: end %s is before start %s", term.End, term.Start)
	}

	if term.RRule != "" {
		if _, err := rrule.StrToRRule(term.RRule); err != nil {
			return fmt.Errorf("invalid rrule in term: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the config file for the environment
// If env is provided, it adds it as an extension (e.g., "lesson_scheduler_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "lesson_scheduler_config.yaml"
	if env != "" {
		configFileName = "lesson_scheduler_config." + env + ".yaml"
	}
	return locate(configFileName)
}

// locate looks for a file in the current directory first, then in the user's home directory
func locate(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
