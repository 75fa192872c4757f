package app

import (
	"fmt"
	"os"
	"time"

	"clawwatch/internal/claw"
	"clawwatch/internal/config"
	"clawwatch/internal/gateway"
	"clawwatch/internal/update"
)

// Version is the build version, overridden at link time.
var Version = "dev"

// App is the application layer between the CLI and the session service.
// It constructs all dependencies from config and manages the log file
// lifecycle on Close.
type App struct {
	cfg     *config.Config
	service *claw.SessionService
	checker *update.Checker
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Sessions", "ArchiveRun");
// it tags every log line of this invocation. The caller must call Close
// when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	runID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	gw := gateway.NewClient(cfg.Gateway.Command, time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second)

	svc := claw.NewSessionService(claw.Options{
		Home:          cfg.Home,
		MainDir:       cfg.SessionsDir,
		ReadOnly:      cfg.ReadOnly,
		MainAgentName: cfg.MainAgent,
		KnownAgents:   cfg.Agents,
		Gateway:       gw,
		Logger:        &slogAdapter{l: logger},
	})

	checker := update.NewChecker(cfg.Update.RegistryURL, cfg.Update.CachePath, Version, cfg.Update.Enabled)

	return &App{
		cfg:     cfg,
		service: svc,
		checker: checker,
		logFile: logFile,
	}, nil
}

// Service returns the wired session service.
func (a *App) Service() *claw.SessionService { return a.service }

// Checker returns the wired update checker.
func (a *App) Checker() *update.Checker { return a.checker }

// Close releases the log file.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
