package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seliv/dirscope/internal/config"
	"github.com/seliv/dirscope/internal/scan"
	"github.com/seliv/dirscope/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if home := os.Getenv("HOME"); home != "" && os.Getenv("DIRSCOPE_CONFIG") == "" {
		path := filepath.Join(home, ".config", "dirscope", "config.toml")
		if err := config.WriteDefault(path, cfg); err != nil {
			log.Printf("warn: could not write starter config: %v", err)
		}
	}

	startPath := ""
	if len(os.Args) > 1 {
		startPath = os.Args[1]
	}

	engine := scan.NewEngine(scan.Options{
		CrossFilesystems: cfg.Scan.CrossFilesystems,
		ExcludePatterns:  cfg.Scan.ExcludePatterns,
		ProgressInterval: cfg.Scan.ProgressPerSec,
	})

	app := tui.New(cfg, engine, startPath)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.AttachProgram(p)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
