package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/unihook/internal/config"
	"github.com/mattjoyce/unihook/internal/fanout"
	"github.com/mattjoyce/unihook/internal/httpapi"
	"github.com/mattjoyce/unihook/internal/lock"
	"github.com/mattjoyce/unihook/internal/log"
	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/refresh"
	"github.com/mattjoyce/unihook/internal/storage"
	"github.com/mattjoyce/unihook/internal/tui"
)

const version = "0.1.0"

func main() {
	if len(os.Args) > 1 && isHelpToken(os.Args[1]) {
		printUsage()
		os.Exit(0)
	}
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("unihook version %s\n", version)
		os.Exit(0)
	}
	if len(os.Args) > 1 && os.Args[1] == "monitor" {
		os.Exit(runMonitor(os.Args[2:]))
	}

	os.Exit(runStart())
}

func printUsage() {
	fmt.Print(`unihook - webhook fan-out router for Slack, Jira and GitHub

Usage:
  unihook              Start the router in the foreground
  unihook monitor      Launch the live health-status TUI dashboard
  unihook version      Show version information
  unihook help         Show this help message

Configuration is read entirely from the process environment;
a .env file in the working directory is loaded first if present.
`)
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

func runMonitor(args []string) int {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	baseURL := fs.String("url", "http://localhost:3000", "Router base URL")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	m := tui.NewMonitor(*baseURL)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		return 1
	}
	return 0
}

func runStart() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.LogLevel, cfg.LogFormat)
	logger := log.WithComponent("main")
	logger.Info("unihook starting", "version", version, "listen", cfg.ListenAddr)

	if cfg.PIDFile != "" {
		pidLock, err := lock.AcquirePIDLock(cfg.PIDFile)
		if err != nil {
			logger.Error("failed to acquire PID lock (another instance may be running)", "path", cfg.PIDFile, "error", err)
			return 1
		}
		defer pidLock.Release()
		logger.Info("acquired PID lock", "path", cfg.PIDFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		return 1
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.DatabasePath)

	store := storage.New(db)
	n8n := n8nclient.New(cfg.N8NAPIURL, cfg.N8NAPIKey, cfg.ForwardTimeout)
	router := fanout.New(store, n8n, cfg.N8NAPIURL, cfg.N8NEndpointWebhook)
	refresher := refresh.New(store, n8n, cfg.RefreshInterval)

	server := httpapi.New(httpapi.Config{
		ListenAddr:          cfg.ListenAddr,
		GitHubWebhookSecret: cfg.GitHubWebhookSecret,
		DatabasePath:        cfg.DatabasePath,
	}, store, router, refresher)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 2)

	go func() {
		if err := refresher.Run(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("refresh: %w", err)
		}
	}()

	go func() {
		if err := server.Start(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("httpapi: %w", err)
		}
	}()

	logger.Info("unihook running (press Ctrl+C to stop)")

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	case err := <-errCh:
		logger.Error("component failed", "error", err)
		cancel()
		return 1
	}

	logger.Info("unihook stopped")
	return 0
}
