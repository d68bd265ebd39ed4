//go:build !disablegpio
// +build !disablegpio

// This file provides the Raspberry Pi implementation of PinDriver using the
// periph.io library.  Build with the tag "disablegpio" to leave periph out of
// the binary entirely; hal_nogpio.go is used instead.

package main

import (
    "fmt"
    "sync"

    // Use the new periph module layout.  See https://periph.io/news/2020/a_new_start/
    "periph.io/x/conn/v3/gpio"
    "periph.io/x/conn/v3/gpio/gpioreg"
    "periph.io/x/host/v3"
)

// PeriphDriver drives relay pins through periph.io.  Pins are addressed by
// their BCM numbers and resolved lazily; resolved handles are cached.
type PeriphDriver struct {
    mu   sync.Mutex
    pins map[int]gpio.PinIO
}

// newPeriphDriver initialises periph host state.  host.Init can safely be
// called multiple times; subsequent calls are no-ops.
func newPeriphDriver() (PinDriver, error) {
    if _, err := host.Init(); err != nil {
        return nil, fmt.Errorf("periph host init: %w", err)
    }
    return &PeriphDriver{pins: make(map[int]gpio.PinIO)}, nil
}

// Name returns the driver name.
func (*PeriphDriver) Name() string { return DriverPeriph }

func (d *PeriphDriver) resolve(pin int) (gpio.PinIO, error) {
    d.mu.Lock()
    defer d.mu.Unlock()
    if p, ok := d.pins[pin]; ok {
        return p, nil
    }
    name := fmt.Sprintf("GPIO%d", pin)
    p := gpioreg.ByName(name)
    if p == nil {
        return nil, fmt.Errorf("pin %s not found", name)
    }
    d.pins[pin] = p
    return p, nil
}

// SetLevel switches the pin to output and drives it high or low.  The pin
// is left at that level afterwards.
func (d *PeriphDriver) SetLevel(pin int, high bool) error {
    p, err := d.resolve(pin)
    if err != nil {
        return err
    }
    level := gpio.Low
    if high {
        level = gpio.High
    }
    return p.Out(level)
}

// Level reads the current level of the pin without changing its function,
// so probing an output pin at startup does not switch the relay.
func (d *PeriphDriver) Level(pin int) (bool, error) {
    p, err := d.resolve(pin)
    if err != nil {
        return false, err
    }
    return p.Read() == gpio.High, nil
}
