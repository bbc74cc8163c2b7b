package intent

import "regexp"

// Vocabulary - таблица локализованных слов и паттернов, по которым из
// сообщения извлекаются намерения. Таблица конфигурируема: грамматика
// извлечения общая, слова - свои для каждого языка рынка.
type Vocabulary struct {
	// Глаголы действия: токен после них считается кандидатом в ключевые слова.
	ActionVerbs []string
	// Связки, которые можно пропустить между глаголом и его объектом.
	Connectives []string
	// Слова "кнопка": все, что идет после них, - кандидат в ключевые слова.
	ButtonWords []string
	// Фразы самопредставления, за которыми следует имя.
	IntroPhrases []string
	// Принимаемые форматы телефонных номеров.
	PhonePatterns []*regexp.Regexp
}

// Default покрывает болгарский и английский: сайты отелей на целевом
// рынке смешивают оба языка.
func Default() *Vocabulary {
	return &Vocabulary{
		ActionVerbs: []string{
			"натисни", "кликни", "цъкни", "избери", "отвори", "покажи",
			"click", "press", "choose", "select", "open", "show", "tap",
		},
		Connectives: []string{
			"на", "върху", "по", "го", "ми",
			"the", "on", "a", "to",
		},
		ButtonWords: []string{
			"бутона", "бутон", "button",
		},
		IntroPhrases: []string{
			"казвам се", "името ми е", "аз съм",
			"my name is", "i am", "i'm",
		},
		PhonePatterns: []*regexp.Regexp{
			regexp.MustCompile(`\+359\s?\d{2,3}\s?\d{3}\s?\d{3,4}`),
			regexp.MustCompile(`\b08[7-9]\d{7}\b`),
		},
	}
}
