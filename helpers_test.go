package main

import (
    "bytes"
    "errors"
    "sync"
    "testing"
)

// fakeDriver is a PinDriver whose writes and reads can be made to fail per
// pin.  It records every level written.
type fakeDriver struct {
    mu       sync.Mutex
    levels   map[int]bool
    writeErr map[int]error
    readErr  map[int]error
    writes   []pinWrite
}

type pinWrite struct {
    pin  int
    high bool
}

var errPinBusy = errors.New("pin busy")

func newFakeDriver() *fakeDriver {
    return &fakeDriver{
        levels:   make(map[int]bool),
        writeErr: make(map[int]error),
        readErr:  make(map[int]error),
    }
}

func (*fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) SetLevel(pin int, high bool) error {
    d.mu.Lock()
    defer d.mu.Unlock()
    if err := d.writeErr[pin]; err != nil {
        return err
    }
    d.levels[pin] = high
    d.writes = append(d.writes, pinWrite{pin: pin, high: high})
    return nil
}

func (d *fakeDriver) Level(pin int) (bool, error) {
    d.mu.Lock()
    defer d.mu.Unlock()
    if err := d.readErr[pin]; err != nil {
        return false, err
    }
    return d.levels[pin], nil
}

func (d *fakeDriver) failWrites(pin int, err error) {
    d.mu.Lock()
    defer d.mu.Unlock()
    d.writeErr[pin] = err
}

func (d *fakeDriver) level(pin int) bool {
    d.mu.Lock()
    defer d.mu.Unlock()
    return d.levels[pin]
}

func (d *fakeDriver) writeCount() int {
    d.mu.Lock()
    defer d.mu.Unlock()
    return len(d.writes)
}

// testOutlets are the four relays of the reference board.
func testOutlets() []OutletConfig {
    return []OutletConfig{
        {Name: "a", Pin: intPtr(4)},
        {Name: "b", Pin: intPtr(22)},
        {Name: "c", Pin: intPtr(6)},
        {Name: "d", Pin: intPtr(26)},
    }
}

// testLogger writes to a buffer so tests can inspect log output.
func testLogger(t *testing.T) (*Logger, *bytes.Buffer) {
    t.Helper()
    var buf bytes.Buffer
    return newLoggerTo(&lockedWriter{w: &buf}, LoggingConfig{Level: "debug"}), &buf
}

// lockedWriter serialises writes from concurrent handlers.
type lockedWriter struct {
    mu sync.Mutex
    w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    return l.w.Write(p)
}

// newTestController builds a registry and controller over driver.
func newTestController(t *testing.T, specs []OutletConfig, driver PinDriver, metrics *Metrics) *Controller {
    t.Helper()
    logger, _ := testLogger(t)
    reg := NewRegistry(specs, 0, driver, false, logger)
    return NewController(reg, driver, logger, metrics)
}
