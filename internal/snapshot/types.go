package snapshot

// Лимиты снапшота. Снапшот обязан быть маленьким и стабильным: решение
// принимается по первым N элементам в порядке DOM.
const (
	MaxButtons = 25
	MaxInputs  = 18
	MaxLinks   = 15
	MaxModals  = 3
	MaxPrices  = 10
	MaxText    = 1100
)

type Button struct {
	Text     string `json:"text"`
	Selector string `json:"selector"`
}

type Input struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Selector    string `json:"selector"`
	Value       string `json:"current_value,omitempty"`
	Label       string `json:"label,omitempty"`
}

type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

type Modal struct {
	Text     string `json:"text"`
	Selector string `json:"selector"`
}

// PageSnapshot - неизменяемый итог одного прохода наблюдения. Селекторы
// действительны на момент снятия; после мутации страницы потребитель
// обязан считать их мягко устаревшими, а не падать.
type PageSnapshot struct {
	URL               string   `json:"url"`
	Title             string   `json:"title"`
	Buttons           []Button `json:"buttons"`
	Inputs            []Input  `json:"inputs"`
	Links             []Link   `json:"links"`
	Modals            []Modal  `json:"modals"`
	Prices            []string `json:"prices"`
	VisibleText       string   `json:"visible_text"`
	FormCount         int      `json:"form_count"`
	IframeCount       int      `json:"iframe_count"`
	AvailabilityFound bool     `json:"availability_found"`
}

// Empty - минимальный снапшот для случая, когда скан страницы упал
// (отсоединенный фрейм, навигация посреди скана). Наблюдение никогда
// не прерывает запрос.
func Empty(url, title string) *PageSnapshot {
	return &PageSnapshot{
		URL:     url,
		Title:   title,
		Buttons: []Button{},
		Inputs:  []Input{},
		Links:   []Link{},
		Modals:  []Modal{},
		Prices:  []string{},
	}
}
