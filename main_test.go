package main

import (
    "net"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
    opts, err := parseFlags([]string{"-c", "/etc/powerstrip.yaml", "--listen", ":9000", "--simulate", "--log-level", "debug"})
    require.NoError(t, err)
    assert.Equal(t, "/etc/powerstrip.yaml", opts.configPath)
    assert.Equal(t, ":9000", opts.listen)
    assert.Equal(t, "debug", opts.logLevel)
    assert.True(t, opts.simulate)

    opts, err = parseFlags(nil)
    require.NoError(t, err)
    assert.Equal(t, defaultConfigPath, opts.configPath)
    assert.False(t, opts.simulate)

    _, err = parseFlags([]string{"--bogus"})
    assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
    cfg := defaultConfig()
    require.NoError(t, applyFlags(cfg, options{listen: "127.0.0.1:1", simulate: true, logLevel: "error"}))
    assert.Equal(t, "127.0.0.1:1", cfg.HTTP.Listen)
    assert.Equal(t, DriverSim, cfg.GPIO.Driver)
    assert.Equal(t, "error", cfg.Logging.Level)

    cfg = defaultConfig()
    assert.Error(t, applyFlags(cfg, options{logLevel: "shout"}))
}

func TestRun_Version(t *testing.T) {
    assert.NoError(t, run([]string{"--version"}))
}

func TestRun_BadConfig(t *testing.T) {
    path := writeConfig(t, "outlets: []\n")
    err := run([]string{"--config", path})
    assert.ErrorContains(t, err, "at least one outlet")
}

func TestRun_AddressInUse(t *testing.T) {
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    require.NoError(t, err)
    defer ln.Close()

    path := filepath.Join(t.TempDir(), "powerstrip.yaml")
    cfg := defaultConfig()
    cfg.HTTP.Listen = ln.Addr().String()
    cfg.Logging.Level = "error"
    require.NoError(t, SaveConfig(path, cfg))

    err = run([]string{"--config", path, "--simulate"})
    assert.ErrorContains(t, err, "server exited")
}
