package main

import (
    "errors"
    "fmt"
    "os"
    "strings"
    "time"

    "gopkg.in/yaml.v3"
)

// defaultConfigPath is the config filename used when --config is not given.
const defaultConfigPath = "powerstrip.yaml"

// maxPin is the highest BCM pin number accepted in the config.
const maxPin = 63

// LoadConfig reads configuration from path.  If the file does not exist, a
// default configuration with the four relay pins of the reference board is
// written there first.  Values are applied in order: defaults, file,
// environment.  The result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
    data, err := os.ReadFile(path)
    if err != nil {
        if !errors.Is(err, os.ErrNotExist) {
            return nil, fmt.Errorf("unable to read config: %w", err)
        }
        if err := SaveConfig(path, defaultConfig()); err != nil {
            return nil, fmt.Errorf("write default config: %w", err)
        }
        if data, err = os.ReadFile(path); err != nil {
            return nil, fmt.Errorf("unable to read config: %w", err)
        }
    }

    cfg := defaultConfig()
    // The defaults carry outlets; a file that lists its own must replace
    // them rather than merge into them.
    cfg.Outlets = nil
    if err := yaml.Unmarshal(data, cfg); err != nil {
        return nil, fmt.Errorf("invalid %s: %w", path, err)
    }
    applyEnvOverrides(cfg)
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

// SaveConfig writes cfg to path atomically via a temporary file.
func SaveConfig(path string, cfg *Config) error {
    bytes, err := yaml.Marshal(cfg)
    if err != nil {
        return err
    }
    tmpPath := path + ".tmp"
    if err := os.WriteFile(tmpPath, bytes, 0600); err != nil {
        return err
    }
    return os.Rename(tmpPath, path)
}

func defaultConfig() *Config {
    return &Config{
        HTTP: HTTPConfig{
            Listen:          "0.0.0.0:8000",
            ReadTimeout:     10 * time.Second,
            WriteTimeout:    10 * time.Second,
            ShutdownTimeout: 5 * time.Second,
        },
        GPIO: GPIOConfig{
            Driver:     DriverPeriph,
            ProbeState: true,
        },
        Outlets: []OutletConfig{
            {Name: "outlet 0", Pin: intPtr(4)},
            {Name: "outlet 1", Pin: intPtr(22)},
            {Name: "outlet 2", Pin: intPtr(6)},
            {Name: "outlet 3", Pin: intPtr(26)},
        },
        Logging: LoggingConfig{
            Level:  "info",
            Format: "text",
            Output: "stderr",
        },
    }
}

// applyEnvOverrides applies POWERSTRIP_* environment variables on top of the
// file values.
func applyEnvOverrides(cfg *Config) {
    if v := os.Getenv("POWERSTRIP_LISTEN"); v != "" {
        cfg.HTTP.Listen = v
    }
    if v := os.Getenv("POWERSTRIP_GPIO_DRIVER"); v != "" {
        cfg.GPIO.Driver = v
    }
    if v := os.Getenv("POWERSTRIP_LOG_LEVEL"); v != "" {
        cfg.Logging.Level = v
    }
    if v := os.Getenv("POWERSTRIP_METRICS_LISTEN"); v != "" {
        cfg.Metrics.Listen = v
    }
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
    var errs []string

    if strings.TrimSpace(c.HTTP.Listen) == "" {
        errs = append(errs, "http.listen is required")
    }
    if (c.HTTP.CertFile == "") != (c.HTTP.KeyFile == "") {
        errs = append(errs, "http.cert_file and http.key_file must be set together")
    }

    driver := strings.ToLower(c.GPIO.Driver)
    if driver != DriverPeriph && driver != DriverSim {
        errs = append(errs, fmt.Sprintf("gpio.driver must be %q or %q, got %q", DriverPeriph, DriverSim, c.GPIO.Driver))
    }

    if len(c.Outlets) == 0 {
        errs = append(errs, "at least one outlet is required")
    }
    seen := make(map[int]int)
    for i, o := range c.Outlets {
        if o.Pin == nil {
            if driver == DriverPeriph {
                errs = append(errs, fmt.Sprintf("outlets[%d]: pin is required with the periph driver", i))
            }
            continue
        }
        if *o.Pin < 0 || *o.Pin > maxPin {
            errs = append(errs, fmt.Sprintf("outlets[%d]: pin %d out of range 0-%d", i, *o.Pin, maxPin))
        }
        if prev, dup := seen[*o.Pin]; dup {
            errs = append(errs, fmt.Sprintf("outlets[%d]: pin %d already used by outlets[%d]", i, *o.Pin, prev))
        }
        seen[*o.Pin] = i
    }

    if !validLevel(c.Logging.Level) {
        errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
    }
    switch strings.ToLower(c.Logging.Format) {
    case "", "text", "json":
    default:
        errs = append(errs, fmt.Sprintf("logging.format %q is not text or json", c.Logging.Format))
    }

    if len(errs) > 0 {
        return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
    }
    return nil
}

// TLSEnabled reports whether the control listener serves HTTPS.
func (c *Config) TLSEnabled() bool {
    return c.HTTP.CertFile != "" && c.HTTP.KeyFile != ""
}

func intPtr(v int) *int { return &v }
