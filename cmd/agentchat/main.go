package main

import (
	"fmt"
	"log/slog"
	"os"

	"agentchat/internal/app"
	"agentchat/internal/config"
	"agentchat/internal/tui"
	"agentchat/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("AGENTCHAT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel)

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(tui.New(a), tea.WithAltScreen())
	// Timer-driven changes (canned replies, toast expiry, member detach)
	// wake the UI through the program's mailbox.
	a.SetOnChange(func() { p.Send(tui.RefreshMsg{}) })

	slog.Info("agentchat started", "chat", cfg.DefaultChatName, "user", cfg.UserLabel)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
