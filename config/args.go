package config

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

var (
	trueValues  = []string{"true", "1", "yes", "y", "on"}
	falseValues = []string{"false", "0", "no", "n", "off"}
)

// ApplyArgs applies the positional arguments
//
//	[timeout-seconds] [threshold] [mock] [verbose]
//
// to cfg. Each argument is independent: a missing or malformed one keeps
// the value cfg already has.
func (cfg *Config) ApplyArgs(args []string) {
	if len(args) > 0 {
		if secs, ok := parsePositive(args[0]); ok {
			cfg.Capture.Timeout = time.Duration(secs) * time.Second
		}
	}
	if len(args) > 1 {
		if n, err := strconv.Atoi(strings.TrimSpace(args[1])); err == nil {
			cfg.Capture.Threshold = n
		}
	}
	if len(args) > 2 {
		if b, ok := ParseBool(args[2]); ok {
			cfg.Mock.Enabled = b
		}
	}
	if len(args) > 3 {
		if b, ok := ParseBool(args[3]); ok {
			cfg.Log.Verbose = b
		}
	}
}

func parsePositive(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseBool accepts true/1/yes/y/on and false/0/no/n/off in any case.
func ParseBool(s string) (value, ok bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case slices.Contains(trueValues, v):
		return true, true
	case slices.Contains(falseValues, v):
		return false, true
	}
	return false, false
}
