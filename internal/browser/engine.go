package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"webAgent/internal/logger"
)

// Engine владеет процессом playwright, браузером и общим browsing context.
// Контекст (cookies, профиль) один на процесс, страницы выдаются сессиям
// по одной и движком больше не трогаются.
type Engine struct {
	cfg Config
	log *logger.Zap

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	started bool
}

func New(cfg Config, log *logger.Zap) *Engine {
	return &Engine{
		cfg: cfg,
		log: log,
	}
}

func (e *Engine) envMap() map[string]string {
	env := map[string]string{}
	if e.cfg.Display != "" {
		env["DISPLAY"] = e.cfg.Display
	}
	if e.cfg.BrowsersPath != "" {
		env["PLAYWRIGHT_BROWSERS_PATH"] = e.cfg.BrowsersPath
	}
	if len(env) == 0 {
		return nil
	}
	return env
}

func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("ошибка запуска playwright: %w", err)
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.cfg.Headless),
		Args:     []string{"--no-sandbox"},
	}
	if env := e.envMap(); env != nil {
		opts.Env = env
	}

	br, err := pw.Chromium.Launch(opts)
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("ошибка запуска браузера: %w", err)
	}

	bctx, err := br.NewContext()
	if err != nil {
		_ = br.Close()
		_ = pw.Stop()
		return fmt.Errorf("ошибка создания browser context: %w", err)
	}

	e.pw = pw
	e.browser = br
	e.context = bctx
	e.started = true

	e.log.Info("Браузерный движок запущен", zap.Bool("headless", e.cfg.Headless))
	return nil
}

func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

func (e *Engine) NewPage(ctx context.Context) (Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("движок браузера не запущен")
	}

	p, err := e.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания страницы: %w", err)
	}

	return &playwrightPage{page: p}, nil
}

// Stop гасит движок. Ошибки закрытия глотаются: очистка ресурсов не
// должна ронять завершение процесса. Повторный вызов безопасен.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil
	}

	if e.context != nil {
		if err := e.context.Close(); err != nil {
			e.log.Warn("Ошибка закрытия browser context", zap.Error(err))
		}
	}
	if e.browser != nil {
		if err := e.browser.Close(); err != nil {
			e.log.Warn("Ошибка закрытия браузера", zap.Error(err))
		}
	}
	if e.pw != nil {
		if err := e.pw.Stop(); err != nil {
			e.log.Warn("Ошибка остановки playwright", zap.Error(err))
		}
	}

	e.pw = nil
	e.browser = nil
	e.context = nil
	e.started = false
	return nil
}
