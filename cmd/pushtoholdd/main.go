// Command pushtoholdd is the headless push-to-hold capture daemon:
// pre-initializes a capture session in the background, listens for the
// global hotkey, and finalizes a recording to the current project's
// timeline on release. It replaces the teacher's Wails-bound desktop
// shell with a systray-only process; any richer UI binds to
// internal/engine.Engine's commands over whatever transport it likes,
// this binary doesn't ship one.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pushtohold/internal/app"
	"pushtohold/internal/bootstrap"
	"pushtohold/internal/engine"
	"pushtohold/internal/hardware"
	"pushtohold/internal/logging"
	"pushtohold/internal/system"
	"pushtohold/internal/tray"
	"pushtohold/internal/utils"
)

func main() {
	if err := logging.Setup(logging.GetDefaultLogPath(), false); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logging.Close()

	lock, err := utils.AcquireSingleInstance("pushtoholdd")
	if err != nil {
		slog.Error("startup aborted", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	bootCfg, err := bootstrap.Load()
	if err != nil {
		slog.Error("failed to load bootstrap config", "error", err)
		os.Exit(1)
	}
	if bootCfg.Debug() {
		_ = logging.Setup(logging.GetDefaultLogPath(), true)
	}
	hardware.FFmpegPath = bootCfg.FFmpegPath

	sysInfo, err := system.Detect()
	if err != nil {
		slog.Error("hardware detection failed", "error", err)
		os.Exit(1)
	}
	sysInfo.Print()

	cfg, err := app.Load()
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}
	if len(cfg.HotkeyCombo) == 0 {
		cfg.HotkeyCombo = bootCfg.HotkeyCombo
	}

	eng, err := engine.New(cfg, sysInfo.SystemInfo)
	if err != nil {
		slog.Error("failed to initialize engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.Start(); err != nil {
		slog.Error("failed to start engine", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		os.Exit(0)
	}()

	tray.Run(eng.Bus, func() {
		slog.Info("tray quit requested")
		os.Exit(0)
	})
}
