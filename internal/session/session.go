package session

import (
	"sync"
	"time"

	"webAgent/internal/browser"
)

// Session - пара "идентификатор разговора" + живая страница браузера.
// Страницей владеет исключительно store; mu сериализует запросы одной
// сессии, потому что селекторы снапшота действительны только до
// следующей мутации DOM.
type Session struct {
	ID           string
	Page         browser.Page
	LastURL      string
	LastActivity time.Time

	mu sync.Mutex
}

// Lock захватывает сессию на время одного запроса.
func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

func (s *Session) touch() {
	s.LastActivity = time.Now()
}
