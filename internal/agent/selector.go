package agent

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"webAgent/internal/intent"
	"webAgent/internal/snapshot"
)

// Словари каскада. Болгарский плюс английский: сайты целевого рынка
// смешивают оба языка.
var (
	closeIntentWords = []string{"затвори", "махни", "откажи", "close", "cancel", "dismiss"}
	closeButtonWords = []string{"затвори", "отказ", "откажи", "close", "cancel", "×", "✕"}

	confirmIntentWords = []string{"потвърди", "приеми", "съгласен", "да", "продължи", "confirm", "accept", "yes", "ok", "continue", "agree"}
	confirmButtonWords = []string{"потвърди", "приеми", "да", "продължи", "съгласен", "разбрах", "confirm", "accept", "ok", "yes", "continue", "agree"}

	bookingIntentWords = []string{"резерв", "запази", "нощувк", "настанява", "book", "reserv", "stay", "night"}

	checkInWords  = []string{"check-in", "checkin", "check_in", "настаняване", "пристигане", "arrival", "from", "от"}
	checkOutWords = []string{"check-out", "checkout", "check_out", "напускане", "заминаване", "departure", "to", "до"}
	guestWords    = []string{"guest", "гост", "възрастни", "adult", "person", "души", "хора"}
	searchWords   = []string{"търси", "търсене", "провери", "наличност", "свободни", "виж", "search", "check", "availability", "submit"}

	emailFieldWords = []string{"email", "e-mail", "имейл", "емейл", "поща", "mail"}
	phoneFieldWords = []string{"phone", "телефон", "тел", "tel", "gsm", "мобилен"}
	nameFieldWords  = []string{"name", "име", "имена", "името"}
	dateFieldWords  = []string{"date", "дата"}

	scrollWords = []string{"скрол", "надолу", "по-надолу", "още", "scroll", "down", "more"}
	waitWords   = []string{"изчакай", "почакай", "чакай", "wait"}
)

type actionPhrase struct {
	message []string
	buttons []string
}

// Каноническая таблица "намерение в сообщении -> текст кнопки".
// Порядок - от самого специфичного для домена к общему.
var actionPhrases = []actionPhrase{
	{
		message: []string{"резервирай", "резервация", "запази", "book", "reserve", "booking"},
		buttons: []string{"резервирай", "резервация", "запази", "book", "reserve"},
	},
	{
		message: []string{"изпрати", "потвърди", "submit", "confirm", "send"},
		buttons: []string{"изпрати", "потвърди", "submit", "confirm", "send", "ok"},
	},
	{
		message: []string{"търси", "намери", "провери", "search", "find", "check"},
		buttons: []string{"търси", "провери", "намери", "search", "check", "find"},
	},
	{
		message: []string{"контакт", "връзка", "запитване", "contact", "enquir", "inquir"},
		buttons: []string{"контакт", "запитване", "връзка", "contact"},
	},
}

// Selector превращает (сообщение, снапшот, история, данные бронирования)
// ровно в одно решение. Детерминированный, без побочных эффектов,
// тотальный: при отсутствии совпадений возвращает None.
type Selector struct {
	vocab *intent.Vocabulary
}

func NewSelector(vocab *intent.Vocabulary) *Selector {
	if vocab == nil {
		vocab = intent.Default()
	}
	return &Selector{vocab: vocab}
}

// Select - упорядоченный каскад приоритетов; побеждает первое правило,
// которому соответствует и сообщение, и элемент снапшота:
//  1. открытый диалог (закрыть / подтвердить)
//  2. структурированные данные бронирования
//  3. извлеченные значения: email -> телефон -> имя -> дата
//  4. ключевое слово -> кнопка
//  5. каноническая таблица действий
//  6. ожидание / прокрутка
//  7. только наблюдение
//
// Диалог блокирует все остальное взаимодействие, поэтому разбирается
// первым; явные данные пользователя ценнее и однозначнее догадок по
// ключевым словам; прокрутка - самый дешевый запасной вариант.
func (s *Selector) Select(message string, snap *snapshot.PageSnapshot, history []Message, booking *BookingData) Decision {
	tokens := tokenize(message)
	it := s.vocab.Extract(message)

	if len(snap.Modals) > 0 {
		if wordsMatch(tokens, closeIntentWords) {
			if btn := findButton(snap, closeButtonWords); btn != nil {
				return Click{
					Target: btn.Selector,
					Label:  btn.Text,
					Why:    fmt.Sprintf("затваряне на диалога чрез бутона %q", btn.Text),
				}
			}
		}
		if wordsMatch(tokens, confirmIntentWords) {
			if btn := findButton(snap, confirmButtonWords); btn != nil {
				return Click{
					Target: btn.Selector,
					Label:  btn.Text,
					Why:    fmt.Sprintf("потвърждаване на диалога чрез бутона %q", btn.Text),
				}
			}
		}
	}

	if booking != nil {
		if dec, ok := bookingDecision(tokens, snap, history, booking); ok {
			return dec
		}
	}

	if dec, ok := fillDecision(snap, it); ok {
		return dec
	}

	for _, kw := range it.Keywords {
		if kw == "" {
			continue
		}
		for _, btn := range snap.Buttons {
			if strings.Contains(strings.ToLower(btn.Text), kw) {
				return Click{
					Target: btn.Selector,
					Label:  btn.Text,
					Why:    fmt.Sprintf("бутонът %q съдържа %q", btn.Text, kw),
				}
			}
		}
	}

	for _, ap := range actionPhrases {
		if !wordsMatch(tokens, ap.message) {
			continue
		}
		if btn := findButton(snap, ap.buttons); btn != nil {
			return Click{
				Target: btn.Selector,
				Label:  btn.Text,
				Why:    fmt.Sprintf("действието съответства на бутона %q", btn.Text),
			}
		}
	}

	if wordsMatch(tokens, waitWords) {
		return Wait{Why: "потребителят иска изчакване"}
	}
	if wordsMatch(tokens, scrollWords) {
		return Scroll{Why: "потребителят иска да види още от страницата"}
	}

	return None{Why: "само наблюдение"}
}

// bookingDecision реализует правило 2: заполнения независимы, подбор
// полей - по словарю против name/placeholder/label, запасной вариант -
// позиционно первый/второй input типа date.
func bookingDecision(tokens []string, snap *snapshot.PageSnapshot, history []Message, booking *BookingData) (Decision, bool) {
	if booking.CheckIn == "" && booking.CheckOut == "" && booking.Guests == 0 {
		return nil, false
	}

	used := map[string]bool{}
	var fills []FieldFill

	var dates []snapshot.Input
	for _, in := range snap.Inputs {
		if in.Type == "date" {
			dates = append(dates, in)
		}
	}

	addFill := func(in *snapshot.Input, value string) {
		fills = append(fills, FieldFill{
			Target: in.Selector,
			Value:  value,
			Hint:   fieldHint(*in),
			Select: in.Type == "select",
		})
		used[in.Selector] = true
	}

	if booking.CheckIn != "" {
		if in := findInput(snap, checkInWords, used); in != nil {
			addFill(in, booking.CheckIn)
		} else if len(dates) > 0 && !used[dates[0].Selector] {
			addFill(&dates[0], booking.CheckIn)
		}
	}

	if booking.CheckOut != "" {
		if in := findInput(snap, checkOutWords, used); in != nil {
			addFill(in, booking.CheckOut)
		} else if len(dates) > 1 && !used[dates[1].Selector] {
			addFill(&dates[1], booking.CheckOut)
		}
	}

	if booking.Guests > 0 {
		if in := findInput(snap, guestWords, used); in != nil {
			addFill(in, strconv.Itoa(booking.Guests))
		}
	}

	submit := ""
	submitLabel := ""
	if btn := findButton(snap, searchWords); btn != nil {
		submit = btn.Selector
		submitLabel = btn.Text
	}

	if len(fills) == 0 && submit == "" {
		return nil, false
	}

	force := wordsMatch(tokens, bookingIntentWords) || historyMentions(history, bookingIntentWords)

	return BookFlow{
		Fills:       fills,
		Submit:      submit,
		SubmitLabel: submitLabel,
		ForceSubmit: force,
		Why:         "структурирани данни за резервация",
	}, true
}

// fillDecision реализует правило 3 в фиксированном порядке ценности:
// email -> телефон -> имя -> дата.
func fillDecision(snap *snapshot.PageSnapshot, it intent.Intent) (Decision, bool) {
	candidates := []struct {
		value string
		typ   string
		words []string
		what  string
	}{
		{it.Email, "email", emailFieldWords, "имейла"},
		{it.Phone, "tel", phoneFieldWords, "телефона"},
		{it.Name, "", nameFieldWords, "името"},
		{it.Date, "date", dateFieldWords, "датата"},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		for i := range snap.Inputs {
			in := &snap.Inputs[i]
			if (c.typ != "" && in.Type == c.typ) || matchField(*in, c.words) {
				return Fill{
					Target: in.Selector,
					Value:  c.value,
					Hint:   fieldHint(*in),
					Why:    fmt.Sprintf("попълване на %s в съответното поле", c.what),
				}, true
			}
		}
	}

	return nil, false
}

// tokenize разбивает сообщение на слова в нижнем регистре, обрезая
// краевую пунктуацию.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// wordsMatch сопоставляет словарь намерений со словами сообщения.
// Короткие записи ("да", "ok") совпадают только как отдельное слово,
// записи от четырех рун - как префикс слова: стебли вида "резерв" ловят
// словоформы, но "ok" не находится внутри "book".
func wordsMatch(tokens []string, vocab []string) bool {
	for _, w := range vocab {
		prefix := len([]rune(w)) >= 4
		for _, t := range tokens {
			if t == w || (prefix && strings.HasPrefix(t, w)) {
				return true
			}
		}
	}
	return false
}

// findButton возвращает первую в порядке DOM кнопку, чей текст содержит
// любое из слов.
func findButton(snap *snapshot.PageSnapshot, words []string) *snapshot.Button {
	for i := range snap.Buttons {
		text := strings.ToLower(snap.Buttons[i].Text)
		for _, w := range words {
			if strings.Contains(text, w) {
				return &snap.Buttons[i]
			}
		}
	}
	return nil
}

func findInput(snap *snapshot.PageSnapshot, words []string, used map[string]bool) *snapshot.Input {
	for i := range snap.Inputs {
		in := &snap.Inputs[i]
		if used[in.Selector] {
			continue
		}
		if matchField(*in, words) {
			return in
		}
	}
	return nil
}

// matchField сопоставляет словарь с name/placeholder/label поля.
// Короткие записи ("име", "тел", "от") совпадают только как отдельное
// слово атрибута - иначе "име" находится внутри "имейл"; длинные - как
// подстрока, чтобы "телефон" ловил и "Телефонен номер".
func matchField(in snapshot.Input, vocab []string) bool {
	haystack := strings.ToLower(in.Name + " " + in.Placeholder + " " + in.Label)
	fields := strings.FieldsFunc(haystack, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range vocab {
		if len([]rune(w)) >= 4 {
			if strings.Contains(haystack, w) {
				return true
			}
			continue
		}
		for _, f := range fields {
			if f == w {
				return true
			}
		}
	}
	return false
}

func fieldHint(in snapshot.Input) string {
	switch {
	case in.Name != "":
		return in.Name
	case in.Placeholder != "":
		return in.Placeholder
	default:
		return in.Label
	}
}

func historyMentions(history []Message, vocab []string) bool {
	for _, m := range history {
		if wordsMatch(tokenize(m.Content), vocab) {
			return true
		}
	}
	return false
}
