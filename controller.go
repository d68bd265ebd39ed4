package main

// Controller is the only path by which an outlet's cached state changes.
// It binds the physical pin write to the cache update.
type Controller struct {
    registry *Registry
    driver   PinDriver
    logger   *Logger
    metrics  *Metrics
}

// NewController returns a controller commanding outlets in registry through
// driver.  metrics may be nil.
func NewController(registry *Registry, driver PinDriver, logger *Logger, metrics *Metrics) *Controller {
    c := &Controller{registry: registry, driver: driver, logger: logger, metrics: metrics}
    for _, o := range registry.List() {
        metrics.setActive(o.ID, o.Active)
    }
    return c
}

// Command turns outlet id on (desired=true) or off.  The registry lock is
// held across lookup, pin write and cache update, so two commands for the
// same outlet never interleave.  On success the cached state equals desired.
// An unknown id returns ErrUnknownOutlet without touching the hardware.  A
// failed write returns a *HardwareWriteError and leaves the cached state as
// it was.
//
// Command takes no context: a pin write, once started, runs to completion
// even if the client has gone away.
func (c *Controller) Command(id uint, desired bool) error {
    c.registry.mu.Lock()
    defer c.registry.mu.Unlock()

    o := c.registry.find(id)
    if o == nil {
        c.metrics.observeCommand(desired, outcomeUnknownOutlet)
        return ErrUnknownOutlet
    }

    // Pinless outlets exist only in simulation; there is nothing to drive.
    if o.Pin != nil {
        high := pinLevel(desired, o.ActiveLow)
        if err := c.driver.SetLevel(*o.Pin, high); err != nil {
            c.metrics.observeCommand(desired, outcomeHardwareError)
            return &HardwareWriteError{ID: o.ID, Pin: *o.Pin, High: high, Err: err}
        }
    }

    o.Active = desired
    c.metrics.observeCommand(desired, outcomeSuccess)
    c.metrics.setActive(o.ID, desired)
    c.logger.Debug("outlet switched", "outlet", o.ID, "action", actionName(desired))
    return nil
}

// Outlets returns a snapshot of every outlet for /status.
func (c *Controller) Outlets() []Outlet {
    return c.registry.List()
}
