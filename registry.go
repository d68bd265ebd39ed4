package main

import (
    "log/slog"
    "strconv"
    "sync"
)

// Registry owns the fixed set of outlets.  It is built once at startup and
// never grows or shrinks.  A single mutex serialises every access, readers
// included.  State changes go through Controller.Command, never through the
// registry directly.
type Registry struct {
    mu      sync.Mutex
    outlets []Outlet
}

// NewRegistry builds the outlet list from the config in declaration order.
// IDs start at firstID.  When probe is true each outlet's cached state is
// seeded from the current pin level; a failed probe is logged and the outlet
// starts inactive.
func NewRegistry(specs []OutletConfig, firstID uint, driver PinDriver, probe bool, logger *Logger) *Registry {
    outlets := make([]Outlet, len(specs))
    for i, spec := range specs {
        o := Outlet{
            ID:        firstID + uint(i),
            Name:      spec.Name,
            ActiveLow: spec.ActiveLow,
        }
        if spec.Pin != nil {
            pin := *spec.Pin
            o.Pin = &pin
        }
        if probe && o.Pin != nil {
            level, err := driver.Level(*o.Pin)
            if err != nil {
                logger.Warn("probe outlet state failed, assuming inactive",
                    "outlet", o.ID, "pin", *o.Pin, "error", err)
            } else {
                o.Active = outletActive(level, o.ActiveLow)
            }
        }
        outlets[i] = o
    }
    return &Registry{outlets: outlets}
}

// List returns a copy of every outlet in registry order.  The copy is taken
// under the lock so it never mixes states from before and after a command.
func (r *Registry) List() []Outlet {
    r.mu.Lock()
    defer r.mu.Unlock()
    out := make([]Outlet, len(r.outlets))
    for i, o := range r.outlets {
        out[i] = o
        if o.Pin != nil {
            pin := *o.Pin
            out[i].Pin = &pin
        }
    }
    return out
}

// Len returns the number of outlets.
func (r *Registry) Len() int {
    r.mu.Lock()
    defer r.mu.Unlock()
    return len(r.outlets)
}

// find returns the slot for id or nil.  The caller must hold r.mu.
func (r *Registry) find(id uint) *Outlet {
    for i := range r.outlets {
        if r.outlets[i].ID == id {
            return &r.outlets[i]
        }
    }
    return nil
}

// LogValue summarises the registry for startup logging.
func (r *Registry) LogValue() slog.Value {
    outlets := r.List()
    attrs := make([]slog.Attr, 0, len(outlets))
    for _, o := range outlets {
        pin := "none"
        if o.Pin != nil {
            pin = "GPIO" + strconv.Itoa(*o.Pin)
        }
        attrs = append(attrs, slog.String(strconv.FormatUint(uint64(o.ID), 10), pin))
    }
    return slog.GroupValue(attrs...)
}
