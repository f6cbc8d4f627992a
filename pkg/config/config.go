// Package config loads chordkit settings from the environment
package config

import (
	"os"
	"strconv"

	"github.com/james-see/chordkit/pkg/converter"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        int
	Debug       bool

	// Observability
	SentryDSN string // Sentry DSN for error tracking; empty disables Sentry

	// MIDI rendering defaults
	Octave        int
	Tempo         float64
	Velocity      int
	BeatsPerChord int
}

// Load reads an optional .env file and then the environment.
// A missing .env file is not an error.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	return &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnvInt("PORT", 8080),
		Debug:         getEnv("CHORDKIT_DEBUG", "false") == "true",
		SentryDSN:     getEnv("SENTRY_DSN", ""),
		Octave:        getEnvInt("CHORDKIT_OCTAVE", 4),
		Tempo:         getEnvFloat("CHORDKIT_TEMPO", 120),
		Velocity:      getEnvInt("CHORDKIT_VELOCITY", 96),
		BeatsPerChord: getEnvInt("CHORDKIT_BEATS_PER_CHORD", 4),
	}
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Voicing returns the MIDI rendering settings, falling back to the
// converter defaults for out-of-range values
func (c *Config) Voicing() converter.Voicing {
	v := converter.DefaultVoicing()
	if c.Octave >= converter.MinOctave && c.Octave <= converter.MaxOctave {
		v.Octave = c.Octave
	}
	if c.Tempo > 0 {
		v.Tempo = c.Tempo
	}
	if c.Velocity > 0 && c.Velocity <= 127 {
		v.Velocity = uint8(c.Velocity)
	}
	if c.BeatsPerChord > 0 {
		v.BeatsPerChord = c.BeatsPerChord
	}
	return v
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}
