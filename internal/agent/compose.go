package agent

import (
	"strings"

	"webAgent/internal/snapshot"
)

// composeMessage собирает ответ пользователю в фиксированном порядке:
// выполненное действие, заголовок страницы, кнопки, пустые поля, цены,
// замечание про открытый диалог. Порядок - контракт для вышестоящего
// агента, закреплен тестом.
func composeMessage(actionTaken string, snap *snapshot.PageSnapshot) string {
	var parts []string

	if actionTaken != "" {
		parts = append(parts, actionTaken)
	}

	if snap != nil {
		if snap.Title != "" {
			parts = append(parts, "Страница: "+snap.Title+".")
		}
		if labels := buttonLabels(snap); len(labels) > 0 {
			parts = append(parts, "Бутони: "+joinLimited(labels, 5)+".")
		}
		if fields := emptyInputs(snap); len(fields) > 0 {
			parts = append(parts, "Полета за попълване: "+joinLimited(fields, 5)+".")
		}
		if len(snap.Prices) > 0 {
			parts = append(parts, "Цени на страницата: "+joinLimited(snap.Prices, 5)+".")
		}
		if len(snap.Modals) > 0 {
			parts = append(parts, "На страницата има отворен диалогов прозорец.")
		}
	}

	if len(parts) == 0 {
		return "Разгледах страницата, но не открих нищо за докладване."
	}

	return strings.Join(parts, " ")
}

func buttonLabels(snap *snapshot.PageSnapshot) []string {
	var labels []string
	for _, btn := range snap.Buttons {
		if btn.Text != "" {
			labels = append(labels, btn.Text)
		}
	}
	return labels
}

// emptyInputs описывает незаполненные поля: ярлык, placeholder, имя или
// хотя бы тип.
func emptyInputs(snap *snapshot.PageSnapshot) []string {
	var fields []string
	for _, in := range snap.Inputs {
		if in.Value != "" {
			continue
		}
		switch {
		case in.Label != "":
			fields = append(fields, in.Label)
		case in.Placeholder != "":
			fields = append(fields, in.Placeholder)
		case in.Name != "":
			fields = append(fields, in.Name)
		default:
			fields = append(fields, in.Type)
		}
	}
	return fields
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
