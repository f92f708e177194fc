package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Optional settings file.
 *
 * Description:	Everything here has a sensible default and can also be
 *		set on the command line, which takes priority.  The file
 *		is for people who always need, say, a lower silence
 *		threshold because their tape deck is quiet.
 *
 *		silence_threshold: 3000
 *		workers: 4
 *		log_level: debug
 *		output_suffix: .bin
 *		include_header: true
 *		timestamp_format: "%Y-%m-%d %H:%M:%S"
 *		capture:
 *		  sample_rate: 48000
 *		  seconds: 120
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type CaptureConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Seconds    int `yaml:"seconds"`
}

type Config struct {
	SilenceThreshold int           `yaml:"silence_threshold"`
	Workers          int           `yaml:"workers"`
	LogLevel         string        `yaml:"log_level"`
	OutputSuffix     string        `yaml:"output_suffix"`
	IncludeHeader    bool          `yaml:"include_header"`
	TimestampFormat  string        `yaml:"timestamp_format"`
	Capture          CaptureConfig `yaml:"capture"`
}

func DefaultConfig() Config {
	return Config{
		SilenceThreshold: DefaultSilenceThreshold,
		Workers:          1,
		LogLevel:         "info",
		OutputSuffix:     ".bin",
		IncludeHeader:    false,
		TimestampFormat:  "%Y-%m-%dT%H:%M:%S%z",
		Capture: CaptureConfig{
			SampleRate: DefaultCaptureRate,
			Seconds:    60,
		},
	}
}

// configSearchLocations is where LoadConfig looks when no path is given, in order.
func configSearchLocations() []string {
	var locations = []string{"cassette.yaml"}

	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "cassette", "cassette.yaml"))
	}

	return append(locations, "/etc/cassette.yaml")
}

// ParseConfig reads YAML on top of the defaults.
func ParseConfig(r io.Reader) (Config, error) {
	var cfg = DefaultConfig()

	var data, err = io.ReadAll(r)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

/*------------------------------------------------------------------
 *
 * Name:	LoadConfig
 *
 * Purpose:	Find and read the settings file.
 *
 * Inputs:	path	- Explicit file.  Must exist.
 *			  Empty string means try the usual places, and
 *			  use the defaults if there is nothing there.
 *
 * Returns:	Config, and the file it came from ("" for defaults).
 *
 *------------------------------------------------------------------*/

func LoadConfig(path string) (Config, string, error) {
	var candidates = []string{path}
	if path == "" {
		candidates = configSearchLocations()
	}

	for _, location := range candidates {
		var fp, err = os.Open(location)
		if errors.Is(err, fs.ErrNotExist) && path == "" {
			continue
		}
		if err != nil {
			return DefaultConfig(), "", err
		}

		var cfg, parseErr = ParseConfig(fp)
		fp.Close()
		if parseErr != nil {
			return cfg, location, fmt.Errorf("error parsing config file %s: %w", location, parseErr)
		}

		return cfg, location, nil
	}

	return DefaultConfig(), "", nil
}

func (c Config) Validate() error {
	// 1 keeps everything but exact zeros.  0 would be taken as "use the default".
	if c.SilenceThreshold < 1 || c.SilenceThreshold > 32767 {
		return fmt.Errorf("silence_threshold %d out of range 1..32767", c.SilenceThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative", c.Workers)
	}
	if c.Capture.SampleRate <= 0 {
		return fmt.Errorf("capture sample_rate %d must be positive", c.Capture.SampleRate)
	}
	if c.Capture.Seconds < 0 {
		return fmt.Errorf("capture seconds %d must not be negative", c.Capture.Seconds)
	}
	return nil
}

// Options for the decoder, minus the logger and callbacks.
func (c Config) Options() Options {
	return Options{ //nolint:exhaustruct
		SilenceThreshold: c.SilenceThreshold,
		Workers:          c.Workers,
	}
}
