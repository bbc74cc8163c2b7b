package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"webAgent/internal/agent"
	"webAgent/internal/browser"
	"webAgent/internal/config"
	"webAgent/internal/logger"
	"webAgent/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level, cfg.Logger.File)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := browser.New(browser.Config{
		Headless:     cfg.Browser.Headless,
		Display:      cfg.Browser.Display,
		BrowsersPath: cfg.Browser.BrowsersPath,
	}, log)

	ag := agent.New(agent.Config{
		NavTimeout:    cfg.Agent.NavTimeout,
		NavRetries:    cfg.Agent.NavRetries,
		ActionTimeout: cfg.Agent.ActionTimeout,
		SettleDelay:   cfg.Agent.SettleDelay,
		ScrollStep:    cfg.Agent.ScrollStep,
	}, log, engine)

	if err := ag.Start(ctx); err != nil {
		log.Fatal("Ошибка запуска агента", zap.Error(err))
	}
	defer ag.Shutdown()

	srv := server.New(cfg, log, ag)
	if err := srv.Run(ctx); err != nil {
		log.Error("Сервер остановлен с ошибкой", zap.Error(err))
	}
}
