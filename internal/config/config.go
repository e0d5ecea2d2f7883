// Package config loads runtime settings from defaults, an optional .env
// file, an optional adidaya.yaml and ADIDAYA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix = "ADIDAYA"
	fileName  = "adidaya"
)

// Config holds every setting the CLI reads at startup.
type Config struct {
	DBPath      string             `mapstructure:"db"`
	Workspace   string             `mapstructure:"workspace"`
	LogCalls    bool               `mapstructure:"log_calls"`
	Disciplines []DisciplineConfig `mapstructure:"disciplines"`
}

// DisciplineConfig is one catalog entry as written in adidaya.yaml.
type DisciplineConfig struct {
	Code   string `mapstructure:"code"`
	NameEn string `mapstructure:"name_en"`
	NameID string `mapstructure:"name_id"`
	Color  string `mapstructure:"color"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		DBPath:      defaultDBPath(),
		Disciplines: fromCatalog(domain.DefaultDisciplines()),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".adidaya", "adidaya.db")
	}
	return filepath.Join(home, ".adidaya", "adidaya.db")
}

// Load reads configuration from the working directory and ~/.adidaya.
func Load() (Config, error) {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".adidaya"))
	}
	return LoadFrom(dirs...)
}

// LoadFrom reads configuration, searching dirs in order for adidaya.yaml.
// Values from a .env file in the first dir sit just above the defaults;
// adidaya.yaml overrides them and the process environment overrides both.
func LoadFrom(dirs ...string) (Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", def.DBPath)
	v.SetDefault("workspace", def.Workspace)
	v.SetDefault("log_calls", def.LogCalls)

	if len(dirs) > 0 {
		if err := applyDotEnv(v, filepath.Join(dirs[0], ".env")); err != nil {
			return Config{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = def.DBPath
	}
	cfg.Workspace = strings.ToUpper(strings.TrimSpace(cfg.Workspace))
	if len(cfg.Disciplines) == 0 {
		cfg.Disciplines = def.Disciplines
	}
	return cfg, nil
}

// applyDotEnv layers ADIDAYA_* entries of path over the defaults. A missing
// file is not an error.
func applyDotEnv(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	prefix := envPrefix + "_"
	for k, val := range values {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		v.SetDefault(strings.ToLower(strings.TrimPrefix(k, prefix)), val)
	}
	return nil
}

// Catalog builds the discipline catalog from the configured entries.
func (c Config) Catalog() *domain.DisciplineCatalog {
	ds := make([]domain.Discipline, 0, len(c.Disciplines))
	for _, d := range c.Disciplines {
		ds = append(ds, domain.Discipline{Code: d.Code, NameEn: d.NameEn, NameID: d.NameID, Color: d.Color})
	}
	return domain.NewDisciplineCatalog(ds)
}

func fromCatalog(ds []domain.Discipline) []DisciplineConfig {
	out := make([]DisciplineConfig, 0, len(ds))
	for _, d := range ds {
		out = append(out, DisciplineConfig{Code: d.Code, NameEn: d.NameEn, NameID: d.NameID, Color: d.Color})
	}
	return out
}
