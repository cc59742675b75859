// Package config carries the options the multiplexer is constructed with.
// One Options value is built per run, handed down explicitly, and discarded
// at exit; nothing here is global.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Options configures one multiplexer run. Environment variables with the
// PTYMUX_ prefix provide defaults; command-line flags override them.
type Options struct {
	// Verbose prints every formatted line plainly instead of the live
	// region.
	Verbose bool `envconfig:"VERBOSE"`
	// Raw passes all child bytes through untouched for the whole run.
	Raw bool `envconfig:"RAW"`
	// NoColor disables all styling.
	NoColor bool `envconfig:"NO_COLOR"`
	// Scrollback bounds the live region, spinner row included.
	Scrollback int `envconfig:"SCROLLBACK" default:"10"`
	// LogPath is where the raw child transcript goes.
	LogPath string `envconfig:"LOG"`
}

// FromEnv builds Options from PTYMUX_* environment variables.
func FromEnv() (Options, error) {
	var o Options
	if err := envconfig.Process("ptymux", &o); err != nil {
		return Options{}, err
	}
	if o.LogPath == "" {
		o.LogPath = defaultLogPath()
	}
	return o, nil
}

// Validate rejects option values the multiplexer cannot honor.
func (o Options) Validate() error {
	if o.Scrollback < 2 {
		return fmt.Errorf("scrollback must be at least 2 (one line plus the spinner row), got %d", o.Scrollback)
	}
	return nil
}

// defaultLogPath prefers the system log directory when running privileged,
// which is the common case for package installs.
func defaultLogPath() string {
	if os.Geteuid() == 0 {
		return "/var/log/ptymux/dpkg-debug.log"
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "ptymux", "dpkg-debug.log")
	}
	return filepath.Join(os.TempDir(), "ptymux-dpkg-debug.log")
}
