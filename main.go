package main

import (
    "context"
    "fmt"
    "os"
    "os/signal"
    "syscall"

    "github.com/spf13/pflag"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// Entry point for the powerstrip relay service
func main() {
    if err := run(os.Args[1:]); err != nil {
        fmt.Fprintf(os.Stderr, "powerstrip: %v\n", err)
        os.Exit(1)
    }
}

// options are the command line flags.  Flags override the config file and
// environment.
type options struct {
    configPath  string
    listen      string
    logLevel    string
    simulate    bool
    showVersion bool
}

func parseFlags(args []string) (options, error) {
    var opts options
    fs := pflag.NewFlagSet("powerstrip", pflag.ContinueOnError)
    fs.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to the YAML config file (created with defaults if missing)")
    fs.StringVar(&opts.listen, "listen", "", "control listener address, overrides http.listen")
    fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
    fs.BoolVar(&opts.simulate, "simulate", false, "use the simulated GPIO driver instead of real hardware")
    fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
    if err := fs.Parse(args); err != nil {
        return opts, err
    }
    return opts, nil
}

// applyFlags copies explicitly given flags onto cfg and revalidates it.
func applyFlags(cfg *Config, opts options) error {
    if opts.listen != "" {
        cfg.HTTP.Listen = opts.listen
    }
    if opts.logLevel != "" {
        cfg.Logging.Level = opts.logLevel
    }
    if opts.simulate {
        cfg.GPIO.Driver = DriverSim
    }
    return cfg.Validate()
}

func run(args []string) error {
    opts, err := parseFlags(args)
    if err != nil {
        if err == pflag.ErrHelp {
            return nil
        }
        return err
    }
    if opts.showVersion {
        fmt.Println("powerstrip", version)
        return nil
    }

    cfg, err := LoadConfig(opts.configPath)
    if err != nil {
        return fmt.Errorf("failed to load configuration: %w", err)
    }
    if err := applyFlags(cfg, opts); err != nil {
        return err
    }

    logger, err := NewLogger(cfg.Logging)
    if err != nil {
        return err
    }
    defer logger.Close()

    driver, err := newPinDriver(cfg.GPIO)
    if err != nil {
        return fmt.Errorf("initialisation error: %w", err)
    }

    registry := NewRegistry(cfg.Outlets, cfg.GPIO.FirstID, driver, cfg.GPIO.ProbeState, logger)
    logger.Info("outlets ready", "version", version, "driver", driver.Name(), "outlets", registry)

    var metrics *Metrics
    if cfg.Metrics.Listen != "" {
        metrics = NewMetrics()
    }
    controller := NewController(registry, driver, logger.With("component", "controller"), metrics)

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    if err := NewServer(cfg, controller, logger, metrics).Run(ctx); err != nil {
        return fmt.Errorf("server exited: %w", err)
    }
    return nil
}
