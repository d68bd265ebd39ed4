package main

// This file defines the hardware abstraction layer (HAL) for relay pins.
// Outlets never talk to GPIO directly: the controller goes through a
// PinDriver so that the service can run on a desktop machine with the
// simulated driver and so that tests can substitute a fake.  The real
// Raspberry Pi implementation lives in hal_rpi.go.

import (
    "fmt"
    "strings"
    "sync"
)

// Supported values for gpio.driver in the config file.
const (
    DriverPeriph = "periph"
    DriverSim    = "sim"
)

// PinDriver drives and reads the output level of GPIO pins.  SetLevel is
// expected to be short and synchronous; an error means the level was not
// applied.  Implementations must be safe for concurrent use.
type PinDriver interface {
    Name() string
    SetLevel(pin int, high bool) error
    Level(pin int) (bool, error)
}

// newPinDriver selects the driver named in the config.  The periph driver
// initialises the host once here; returning an error prevents startup.
func newPinDriver(cfg GPIOConfig) (PinDriver, error) {
    switch strings.ToLower(cfg.Driver) {
    case DriverSim:
        return NewSimDriver(), nil
    case DriverPeriph, "":
        return newPeriphDriver()
    default:
        return nil, fmt.Errorf("unknown gpio driver %q", cfg.Driver)
    }
}

// SimDriver keeps pin levels in memory.  Every pin starts low.  It is used
// for simulation deployments without relay hardware attached.
type SimDriver struct {
    mu     sync.Mutex
    levels map[int]bool
}

// NewSimDriver returns a simulated driver with all pins low.
func NewSimDriver() *SimDriver {
    return &SimDriver{levels: make(map[int]bool)}
}

// Name returns the driver name.
func (*SimDriver) Name() string { return DriverSim }

// SetLevel records the level for pin.
func (d *SimDriver) SetLevel(pin int, high bool) error {
    d.mu.Lock()
    defer d.mu.Unlock()
    d.levels[pin] = high
    return nil
}

// Level returns the last recorded level for pin, or low if it was never set.
func (d *SimDriver) Level(pin int) (bool, error) {
    d.mu.Lock()
    defer d.mu.Unlock()
    return d.levels[pin], nil
}
