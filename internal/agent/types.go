// Package agent реализует цикл "наблюдение - решение - действие" поверх
// живой страницы браузера: снапшот интерактивной поверхности, детерминированный
// выбор ровно одного действия по сообщению пользователя и исполнение этого
// действия с запасными стратегиями.
package agent

import (
	"webAgent/internal/snapshot"
)

// Message - одна реплика истории разговора от вышестоящего агента.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BookingData - структурированные данные бронирования, если вышестоящий
// агент уже извлек их из разговора.
type BookingData struct {
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Guests   int    `json:"guests,omitempty"`
}

type Request struct {
	SiteURL     string       `json:"site_url" binding:"required"`
	UserMessage string       `json:"user_message" binding:"required"`
	SessionID   string       `json:"session_id" binding:"required"`
	History     []Message    `json:"conversation_history"`
	Booking     *BookingData `json:"booking_data,omitempty"`
}

// InteractionResult - ответ одного запроса. Собирается заново каждый
// раз, нигде не хранится.
type InteractionResult struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Snapshot    *snapshot.PageSnapshot `json:"snapshot,omitempty"`
	ActionTaken string                 `json:"action_taken,omitempty"`
	Logs        []string               `json:"logs"`
}

type Status struct {
	Ready          bool   `json:"ready"`
	ActiveSessions int    `json:"active_sessions"`
	Uptime         string `json:"uptime"`
}
