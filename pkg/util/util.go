// Package util collects small generic helpers shared across the engine:
// YAML configuration loading and clock-of-day parsing for the "HH:MM"
// time strings the constraint bundle and flight schedules are built from.
package util

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML file and unmarshals it into a struct of type T.
func LoadConfig[T any](filepath string) (*T, error) {
	// 1. Read the file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 2. Initialize an empty instance of T
	var config T

	// 3. Unmarshal the YAML data into the struct
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	log.Printf("Configuration loaded from %s", filepath)

	return &config, nil
}

// ParseHHMM parses a "HH:MM" clock-of-day string into minutes since
// midnight. It deliberately rejects seconds, fractional minutes, and a
// "24:00" sentinel so that callers can treat a malformed source rule as
// malformed rather than silently misinterpreting it.
func ParseHHMM(timeStr string) (int, error) {
	s := strings.TrimSpace(timeStr)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time-of-day %q: expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", timeStr, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", timeStr, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time-of-day %q out of range", timeStr)
	}
	return hour*60 + minute, nil
}

// LogWithLabel prefixes the given label (if non-empty) to the format and
// delegates to the standard logger. Use this when a flight number or
// batch index is in scope to make engine logs easier to correlate.
func LogWithLabel(label string, format string, args ...interface{}) {
	if label == "" {
		label = "------"
	}
	format = fmt.Sprintf("[%s] %s", label, format)
	log.Printf(format, args...)
}
