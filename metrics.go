package main

import (
    "net/http"
    "strconv"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Command outcomes used as the "outcome" label.
const (
    outcomeSuccess       = "success"
    outcomeUnknownOutlet = "unknown_outlet"
    outcomeHardwareError = "hardware_error"
)

// Metrics holds the Prometheus collectors for outlet commands on a private
// registry.  A nil *Metrics is valid and records nothing.
type Metrics struct {
    registry *prometheus.Registry
    commands *prometheus.CounterVec
    active   *prometheus.GaugeVec
}

// NewMetrics registers the outlet collectors plus the Go runtime and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
    m := &Metrics{
        registry: prometheus.NewRegistry(),
        commands: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "powerstrip",
            Name:      "outlet_commands_total",
            Help:      "Outlet on/off commands by action and outcome.",
        }, []string{"action", "outcome"}),
        active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
            Namespace: "powerstrip",
            Name:      "outlet_active",
            Help:      "Cached outlet state (1 = on).",
        }, []string{"outlet"}),
    }
    m.registry.MustRegister(
        m.commands,
        m.active,
        collectors.NewGoCollector(),
        collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
    )
    return m
}

// observeCommand counts one command outcome.
func (m *Metrics) observeCommand(desired bool, outcome string) {
    if m == nil {
        return
    }
    m.commands.WithLabelValues(actionName(desired), outcome).Inc()
}

// setActive records the cached state of an outlet.
func (m *Metrics) setActive(id uint, active bool) {
    if m == nil {
        return
    }
    v := 0.0
    if active {
        v = 1
    }
    m.active.WithLabelValues(strconv.FormatUint(uint64(id), 10)).Set(v)
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
    return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func actionName(desired bool) string {
    if desired {
        return "on"
    }
    return "off"
}
