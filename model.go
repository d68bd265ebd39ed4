package main

import "time"

// Outlet is one switchable relay channel.  ID is assigned at startup in
// declaration order and never changes.  Pin is nil for outlets that exist
// only in simulation.  Active caches the last successfully commanded state;
// the relay could have been flipped out-of-band since then.
type Outlet struct {
    ID        uint   `json:"id"`
    Pin       *int   `json:"pin,omitempty"` // GPIO pin number (BCM numbering)
    Active    bool   `json:"active"`
    Name      string `json:"-"`
    ActiveLow bool   `json:"-"`
}

// OutletList is the payload returned by /status.
type OutletList struct {
    Outlets []Outlet `json:"outlets"`
}

// OutletConfig is one entry in the outlets section of the config file.
type OutletConfig struct {
    Name      string `yaml:"name,omitempty"`
    Pin       *int   `yaml:"pin,omitempty"`
    ActiveLow bool   `yaml:"active_low,omitempty"`
}

// Config is the top-level structure serialized to the YAML config file.  It
// is loaded once at startup and treated as immutable afterwards.
type Config struct {
    HTTP    HTTPConfig     `yaml:"http"`
    GPIO    GPIOConfig     `yaml:"gpio"`
    Outlets []OutletConfig `yaml:"outlets"`
    Logging LoggingConfig  `yaml:"logging"`
    Metrics MetricsConfig  `yaml:"metrics"`
}

// HTTPConfig controls the control listener.  TLS is enabled when both
// CertFile and KeyFile are set.
type HTTPConfig struct {
    Listen          string        `yaml:"listen"`
    CertFile        string        `yaml:"cert_file,omitempty"`
    KeyFile         string        `yaml:"key_file,omitempty"`
    ReadTimeout     time.Duration `yaml:"read_timeout"`
    WriteTimeout    time.Duration `yaml:"write_timeout"`
    ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GPIOConfig selects the pin driver.  Driver is "periph" for real hardware
// or "sim" for an in-memory simulation.
type GPIOConfig struct {
    Driver     string `yaml:"driver"`
    ProbeState bool   `yaml:"probe_state"`
    FirstID    uint   `yaml:"first_id"`
}

// LoggingConfig contains logging settings.  Output is "stdout", "stderr" or
// a file path that is opened in append mode.
type LoggingConfig struct {
    Level  string `yaml:"level"`
    Format string `yaml:"format"`
    Output string `yaml:"output"`
}

// MetricsConfig enables the Prometheus listener when Listen is non-empty.
type MetricsConfig struct {
    Listen string `yaml:"listen"`
}
