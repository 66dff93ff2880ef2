package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/auth"
	"github.com/koriwi/nutriplan-cli/internal/config"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/store"
	"github.com/koriwi/nutriplan-cli/tui"
)

func main() {
	dir, err := config.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logger.Info("starting", zap.String("api", cfg.API.BaseURL))

	state := store.NewApp(auth.NewFileStore(cfg.SessionPath()))
	client := api.New(cfg.API.BaseURL, "", cfg.API.Timeout)
	tui.RestoreSession(client, state)

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(tui.New(client, state), opts...)

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
