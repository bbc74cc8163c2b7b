package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"webAgent/internal/browser"
	"webAgent/internal/logger"
)

// PageFactory выдает новые страницы. Реализуется browser.Engine,
// в тестах подменяется фейком.
type PageFactory interface {
	NewPage(ctx context.Context) (browser.Page, error)
}

type Config struct {
	NavTimeout time.Duration
	NavRetries int
}

// Store - единственный владелец отображения session_id -> страница.
// Создает, проверяет живость, пересоздает и закрывает страницы; никакой
// другой компонент жизненным циклом страниц не управляет.
type Store struct {
	factory PageFactory
	log     *logger.Zap
	cfg     Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(factory PageFactory, log *logger.Zap, cfg Config) *Store {
	if cfg.NavTimeout == 0 {
		cfg.NavTimeout = 25 * time.Second
	}
	if cfg.NavRetries < 2 {
		cfg.NavRetries = 2
	}

	return &Store{
		factory:  factory,
		log:      log,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Resolve возвращает живую сессию для sessionID, при необходимости
// создавая или молча пересоздавая страницу, и выполняет навигацию, если
// URL запрошен впервые или отличается от последнего известного.
// Провал навигации не фатален: наблюдать можно и то состояние, в
// котором страница осталась.
func (s *Store) Resolve(ctx context.Context, sessionID, rawURL string) (*Session, bool, error) {
	sess := s.Get(sessionID)

	fresh := false
	if sess != nil && !s.alive(sess) {
		s.log.Warn("Страница сессии мертва, пересоздаем",
			zap.String("session_id", sessionID))
		s.Close(sessionID)
		sess = nil
	}

	if sess == nil {
		page, err := s.factory.NewPage(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("ошибка создания страницы: %w", err)
		}
		sess = &Session{
			ID:   sessionID,
			Page: page,
		}
		s.createOrReplace(sess)
		fresh = true
	}

	navigated := false
	target := NormalizeURL(rawURL)
	if target != "" && (fresh || target != sess.LastURL) {
		s.navigate(ctx, sess, target)
		navigated = true
	}

	sess.touch()
	return sess, navigated, nil
}

// navigate делает ограниченное число попыток перехода. Таймаут при
// непустом URL страницы считается частичным успехом: тяжелые сайты
// могут никогда не дать полный сигнал загрузки.
func (s *Store) navigate(ctx context.Context, sess *Session, url string) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.NavRetries; attempt++ {
		err := sess.Page.Navigate(ctx, url, s.cfg.NavTimeout)
		if err == nil {
			sess.LastURL = sess.Page.URL()
			s.log.Info("Навигация выполнена",
				zap.String("session_id", sess.ID),
				zap.String("url", sess.LastURL))
			return
		}
		lastErr = err

		if cur := sess.Page.URL(); cur != "" && cur != "about:blank" {
			sess.LastURL = cur
			s.log.Warn("Навигация не завершилась, но страница не пуста - продолжаем",
				zap.String("session_id", sess.ID),
				zap.String("url", cur),
				zap.Error(err))
			return
		}

		s.log.Warn("Попытка навигации не удалась",
			zap.String("session_id", sess.ID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	sess.LastURL = sess.Page.URL()
	s.log.Error("Навигация не удалась после всех попыток, наблюдаем текущее состояние",
		zap.String("session_id", sess.ID),
		zap.String("url", url),
		zap.Error(lastErr))
}

// alive проверяет, что страница еще отвечает, тривиальным скриптом.
func (s *Store) alive(sess *Session) bool {
	_, err := sess.Page.Evaluate("() => 1")
	return err == nil
}

func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

func (s *Store) createOrReplace(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sessions[sess.ID]; ok && old.Page != nil {
		_ = old.Page.Close()
	}
	s.sessions[sess.ID] = sess
}

// Close закрывает страницу сессии и убирает запись. Ошибки закрытия
// глотаются: очистка ресурса не должна падать.
func (s *Store) Close(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if ok && sess.Page != nil {
		if err := sess.Page.Close(); err != nil {
			s.log.Warn("Ошибка закрытия страницы", zap.String("session_id", id), zap.Error(err))
		}
	}
}

// DisposeAll закрывает все сессии. Используется при остановке процесса.
func (s *Store) DisposeAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	var g errgroup.Group
	for _, sess := range sessions {
		sess := sess
		g.Go(func() error {
			if sess.Page != nil {
				_ = sess.Page.Close()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NormalizeURL дополняет адрес схемой https, если она не указана.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}
