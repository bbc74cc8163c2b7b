package snapshot

import (
	"context"
	"strings"

	"webAgent/internal/browser"
)

// Слова, по которым в видимом тексте ищется упоминание наличности.
// Подсказка для составителя ответа, селектор действий ее не использует.
var availabilityWords = []string{
	"свободни стаи", "свободни", "наличност", "налични", "заети",
	"availability", "available", "vacanc", "no rooms", "fully booked",
}

// Observe снимает снапшот живой страницы. Чистая функция состояния
// страницы: при любом сбое скана возвращается минимальный пустой
// снапшот, наблюдение никогда не прерывает запрос.
func Observe(ctx context.Context, page browser.Page) *PageSnapshot {
	url := page.URL()
	title, err := page.Title()
	if err != nil {
		title = ""
	}

	raw, err := page.Evaluate(scanScript)
	if err != nil {
		return Empty(url, title)
	}

	snap := parseScan(raw, url, title)
	snap.AvailabilityFound = hasAvailability(snap.VisibleText)
	return snap
}

func hasAvailability(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range availabilityWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// parseScan разбирает сырой результат скана. Лимиты применяются еще раз
// на стороне Go: ограниченность снапшота - инвариант, а не вежливость
// скрипта.
func parseScan(raw interface{}, url, title string) *PageSnapshot {
	snap := Empty(url, title)

	data, ok := raw.(map[string]interface{})
	if !ok {
		return snap
	}

	// Селектор обязан указывать ровно на один элемент; пустые и
	// повторяющиеся селекторы отбрасываются.
	seen := map[string]bool{}
	take := func(sel string) bool {
		if sel == "" || seen[sel] {
			return false
		}
		seen[sel] = true
		return true
	}

	for _, item := range list(data, "buttons", MaxButtons) {
		sel := str(item, "selector")
		if !take(sel) {
			continue
		}
		snap.Buttons = append(snap.Buttons, Button{
			Text:     str(item, "text"),
			Selector: sel,
		})
	}

	for _, item := range list(data, "inputs", MaxInputs) {
		sel := str(item, "selector")
		if !take(sel) {
			continue
		}
		snap.Inputs = append(snap.Inputs, Input{
			Type:        str(item, "type"),
			Name:        str(item, "name"),
			Placeholder: str(item, "placeholder"),
			Selector:    sel,
			Value:       str(item, "value"),
			Label:       str(item, "label"),
		})
	}

	for _, item := range list(data, "links", MaxLinks) {
		snap.Links = append(snap.Links, Link{
			Text: str(item, "text"),
			Href: str(item, "href"),
		})
	}

	for _, item := range list(data, "modals", MaxModals) {
		sel := str(item, "selector")
		if !take(sel) {
			continue
		}
		snap.Modals = append(snap.Modals, Modal{
			Text:     str(item, "text"),
			Selector: sel,
		})
	}

	if rawPrices, ok := data["prices"].([]interface{}); ok {
		for _, p := range rawPrices {
			if len(snap.Prices) >= MaxPrices {
				break
			}
			if s, ok := p.(string); ok && s != "" {
				snap.Prices = append(snap.Prices, s)
			}
		}
	}

	if text, ok := data["text"].(string); ok {
		if runes := []rune(text); len(runes) > MaxText {
			text = string(runes[:MaxText])
		}
		snap.VisibleText = text
	}

	snap.FormCount = num(data, "formCount")
	snap.IframeCount = num(data, "iframeCount")

	return snap
}

func list(data map[string]interface{}, key string, limit int) []map[string]interface{} {
	rawList, ok := data[key].([]interface{})
	if !ok {
		return nil
	}

	items := make([]map[string]interface{}, 0, len(rawList))
	for _, raw := range rawList {
		if len(items) >= limit {
			break
		}
		if m, ok := raw.(map[string]interface{}); ok {
			items = append(items, m)
		}
	}
	return items
}

func str(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func num(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
