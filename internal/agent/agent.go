package agent

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"webAgent/internal/browser"
	"webAgent/internal/intent"
	"webAgent/internal/logger"
	"webAgent/internal/session"
	"webAgent/internal/snapshot"
)

// Engine - жизненный цикл браузерного движка. Реализуется
// browser.Engine, в тестах подменяется фейком.
type Engine interface {
	Start(ctx context.Context) error
	NewPage(ctx context.Context) (browser.Page, error)
	Started() bool
	Stop() error
}

type Config struct {
	NavTimeout    time.Duration
	NavRetries    int
	ActionTimeout time.Duration
	SettleDelay   time.Duration
	ScrollStep    int
}

// Agent - координатор запроса: сессия -> навигация -> наблюдение ->
// решение -> действие -> повторное наблюдение -> ответ. Единственный
// компонент, знающий обо всех остальных.
type Agent struct {
	cfg      Config
	log      *logger.Zap
	engine   Engine
	sessions *session.Store
	selector *Selector

	started   atomic.Bool
	startedAt time.Time
}

func New(cfg Config, log *logger.Zap, engine Engine) *Agent {
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = 5 * time.Second
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 1500 * time.Millisecond
	}
	if cfg.ScrollStep == 0 {
		cfg.ScrollStep = 600
	}

	return &Agent{
		cfg:    cfg,
		log:    log,
		engine: engine,
		sessions: session.NewStore(engine, log, session.Config{
			NavTimeout: cfg.NavTimeout,
			NavRetries: cfg.NavRetries,
		}),
		selector: NewSelector(intent.Default()),
	}
}

// Start поднимает движок браузера. До успешного Start любой Interact
// возвращает чистый отказ, а не ошибку.
func (a *Agent) Start(ctx context.Context) error {
	if err := a.engine.Start(ctx); err != nil {
		return fmt.Errorf("ошибка запуска движка: %w", err)
	}
	a.startedAt = time.Now()
	a.started.Store(true)
	return nil
}

type traceLog struct {
	lines []string
}

func (t *traceLog) add(tag, format string, args ...interface{}) {
	t.lines = append(t.lines, "["+tag+"] "+fmt.Sprintf(format, args...))
}

type requestIDKey struct{}

// WithRequestID кладет идентификатор запроса транспорта в контекст;
// пайплайн добавляет его в трассировку и логи, чтобы ответ и серверный
// лог можно было сопоставить.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Interact обрабатывает один запрос вышестоящего разговорного агента.
// Самый важный контракт системы: наружу никогда не уходит ни паника,
// ни ошибка - в худшем случае success=false с логами. Разговор идет
// вживую, и деградировавший ответ лучше упавшего хода.
func (a *Agent) Interact(ctx context.Context, req Request) (result *InteractionResult) {
	trace := &traceLog{}
	rid := requestIDFrom(ctx)
	if rid != "" {
		trace.add("OPEN", "запрос %s", rid)
	}

	defer func() {
		if r := recover(); r != nil {
			// Сессия в неизвестном состоянии: безопаснее выбросить
			// страницу, чем переиспользовать ее.
			a.log.Error("Паника в пайплайне запроса",
				zap.Any("panic", r),
				zap.String("request_id", rid),
				zap.String("session_id", req.SessionID))
			a.sessions.Close(req.SessionID)
			trace.add("RESULT", "вътрешна грешка")
			result = failure(trace)
		}
	}()

	if !a.started.Load() {
		trace.add("OPEN", "движок браузера не запущен")
		return &InteractionResult{
			Success: false,
			Message: "Браузърът още се подготвя, моля опитайте отново след малко.",
			Logs:    trace.lines,
		}
	}

	trace.add("OPEN", "сессия %s, запрошен url %q", req.SessionID, req.SiteURL)
	sess, navigated, err := a.sessions.Resolve(ctx, req.SessionID, req.SiteURL)
	if err != nil {
		a.log.Error("Не удалось получить сессию",
			zap.String("request_id", rid),
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		trace.add("OPEN", "страница недоступна: %v", err)
		return failure(trace)
	}
	if navigated {
		trace.add("OPEN", "навигация, текущий url %s", sess.LastURL)
	}

	sess.Lock()
	defer sess.Unlock()

	snap := snapshot.Observe(ctx, sess.Page)
	trace.add("OBSERVE", "кнопок %d, полей %d, ссылок %d, диалогов %d",
		len(snap.Buttons), len(snap.Inputs), len(snap.Links), len(snap.Modals))

	dec := a.selector.Select(req.UserMessage, snap, req.History, req.Booking)
	trace.add("MATCH", "%s - %s", dec, dec.Reason())

	actionTaken := ""
	if _, observeOnly := dec.(None); !observeOnly {
		out := a.execute(ctx, sess.Page, dec, trace)
		if out.Performed {
			actionTaken = out.Detail
			a.settle(ctx)
			snap = snapshot.Observe(ctx, sess.Page)
			trace.add("OBSERVE", "после действия: кнопок %d, полей %d, диалогов %d",
				len(snap.Buttons), len(snap.Inputs), len(snap.Modals))
		} else {
			trace.add("ACT", "действие не выполнено: %s", out.Detail)
		}
	}

	message := composeMessage(actionTaken, snap)
	trace.add("RESULT", "ответ собран")

	return &InteractionResult{
		Success:     true,
		Message:     message,
		Snapshot:    snap,
		ActionTaken: actionTaken,
		Logs:        trace.lines,
	}
}

// settle - ограниченная пауза после действия, чтобы асинхронные реакции
// страницы успели пройти до повторного наблюдения.
func (a *Agent) settle(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(a.cfg.SettleDelay):
	}
}

func (a *Agent) CloseSession(id string) {
	a.sessions.Close(id)
}

func (a *Agent) Status() Status {
	uptime := "0s"
	if a.started.Load() {
		uptime = time.Since(a.startedAt).Round(time.Second).String()
	}
	return Status{
		Ready:          a.started.Load(),
		ActiveSessions: a.sessions.Count(),
		Uptime:         uptime,
	}
}

// Shutdown закрывает все сессии и движок. Идемпотентен, ошибок наружу
// не отдает.
func (a *Agent) Shutdown() {
	a.started.Store(false)
	a.sessions.DisposeAll()
	_ = a.engine.Stop()
}

func failure(trace *traceLog) *InteractionResult {
	return &InteractionResult{
		Success: false,
		Message: "Съжалявам, възникна проблем при работата със страницата. Нека опитаме отново.",
		Logs:    trace.lines,
	}
}
