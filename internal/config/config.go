package config

import (
	"os"
	"strconv"
	"strings"

	"simlab/domain/simulation"
	"simlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Grid     simulation.GridConfig
	Database DatabaseConfig
	Server   ServerConfig
	Export   ExportConfig
}

// DatabaseConfig holds optional results persistence settings. Persistence is
// disabled when URL is empty; the core never requires it.
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds HTTP result server settings
type ServerConfig struct {
	Port string
}

// ExportConfig holds report output destinations
type ExportConfig struct {
	WorkbookPath string
	ReportPath   string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	grid, err := loadGridConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load grid configuration")
	}
	if err := grid.Validate(); err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	dbURL := os.Getenv("DATABASE_URL")
	cfg := &Config{
		Grid: grid,
		Database: DatabaseConfig{
			URL:     dbURL,
			Enabled: dbURL != "",
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Export: ExportConfig{
			WorkbookPath: getEnv("EXPORT_WORKBOOK", "outputs/simlab_results.xlsx"),
			ReportPath:   getEnv("EXPORT_REPORT", "outputs/simlab_report.md"),
		},
	}
	return cfg, nil
}

func loadGridConfig() (simulation.GridConfig, error) {
	grid := simulation.DefaultGridConfig()

	if v := os.Getenv("GRID_SAMPLE_SIZES"); v != "" {
		sizes, err := parseIntList(v)
		if err != nil {
			return grid, errors.Wrapf(err, "invalid GRID_SAMPLE_SIZES %q", v)
		}
		grid.SampleSizes = sizes
	}

	var err error
	if grid.Replicates, err = getEnvInt("GRID_REPLICATES", grid.Replicates); err != nil {
		return grid, err
	}
	if grid.RemediationReps, err = getEnvInt("GRID_REMEDIATION_REPLICATES", grid.RemediationReps); err != nil {
		return grid, err
	}
	if grid.BootstrapDraws, err = getEnvInt("GRID_BOOTSTRAP_DRAWS", grid.BootstrapDraws); err != nil {
		return grid, err
	}
	if grid.MixtureBreakdownN, err = getEnvInt("GRID_MIXTURE_BREAKDOWN_N", grid.MixtureBreakdownN); err != nil {
		return grid, err
	}
	if grid.Alpha, err = getEnvFloat("GRID_ALPHA", grid.Alpha); err != nil {
		return grid, err
	}
	if grid.TrimFraction, err = getEnvFloat("GRID_TRIM_FRACTION", grid.TrimFraction); err != nil {
		return grid, err
	}
	if grid.SeedStart, err = getEnvInt64("GRID_SEED_START", grid.SeedStart); err != nil {
		return grid, err
	}
	if grid.ConvergenceSeed, err = getEnvInt64("GRID_CONVERGENCE_SEED", grid.ConvergenceSeed); err != nil {
		return grid, err
	}
	if grid.EstimationSeed, err = getEnvInt64("GRID_ESTIMATION_SEED", grid.EstimationSeed); err != nil {
		return grid, err
	}

	if v := os.Getenv("GRID_DETERMINISTIC_RESAMPLING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return grid, errors.Wrapf(err, "invalid GRID_DETERMINISTIC_RESAMPLING %q", v)
		}
		grid.DeterministicResampling = b
	}
	return grid, nil
}

func parseIntList(v string) ([]int, error) {
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, errors.Wrapf(err, "invalid %s %q", key, v)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback, errors.Wrapf(err, "invalid %s %q", key, v)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, errors.Wrapf(err, "invalid %s %q", key, v)
	}
	return f, nil
}
