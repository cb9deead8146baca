package config

import (
	"github.com/DIMO-Network/shared"
	"github.com/tidwall/bessel"
)

// Settings are read from settings.yaml; an environment variable named after
// a yaml tag overrides the file.
type Settings struct {
	LogLevel string `yaml:"LOG_LEVEL"`
	Port     string `yaml:"PORT"`

	MaxIterations     int     `yaml:"MAX_ITERATIONS"`
	Tolerance         float64 `yaml:"TOLERANCE"` // arcseconds
	TruncateBeta      bool    `yaml:"TRUNCATE_BETA"`
	AzimuthSignsFromQ bool    `yaml:"AZIMUTH_SIGNS_FROM_Q"`

	BatchWorkers int `yaml:"BATCH_WORKERS"`
}

func Defaults() Settings {
	return Settings{
		LogLevel:      "info",
		Port:          "8080",
		MaxIterations: bessel.Krasovsky.MaxIterations(),
		Tolerance:     bessel.Krasovsky.Tolerance(),
		BatchWorkers:  4,
	}
}

// Load reads the file at path, which may be missing, and the environment.
// Fields left unset by both take their Defaults.
func Load(path string) (Settings, error) {
	s, err := shared.LoadConfig[Settings](path)
	if err != nil {
		return Defaults(), err
	}
	s.fill(Defaults())
	return s, nil
}

func (s *Settings) fill(d Settings) {
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.Port == "" {
		s.Port = d.Port
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.Tolerance <= 0 {
		s.Tolerance = d.Tolerance
	}
	if s.BatchWorkers <= 0 {
		s.BatchWorkers = d.BatchWorkers
	}
}

// Ellipsoid builds the solver the settings describe.
func (s Settings) Ellipsoid() *bessel.Ellipsoid {
	opts := []bessel.Option{
		bessel.WithMaxIterations(s.MaxIterations),
		bessel.WithTolerance(s.Tolerance),
	}
	if s.TruncateBeta {
		opts = append(opts, bessel.WithTruncatedBetaPrime())
	}
	if s.AzimuthSignsFromQ {
		opts = append(opts, bessel.WithAzimuthSignsFromQ())
	}
	return bessel.NewEllipsoid(opts...)
}
