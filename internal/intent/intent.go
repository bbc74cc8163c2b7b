package intent

import (
	"regexp"
	"strings"
	"unicode"
)

// Intent - типизированные значения, извлеченные из одного сообщения.
// Производная величина: нигде не хранится, считается заново на запрос.
type Intent struct {
	Email    string
	Phone    string
	Date     string
	Name     string
	Keywords []string
}

var (
	emailRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	dateRe   = regexp.MustCompile(`\b\d{1,2}[./\-]\d{1,2}(?:[./\-]\d{2,4})?\b`)
	quotedRe = regexp.MustCompile(`"([^"]+)"|'([^']+)'|„([^“”"]+)[“”"]|«([^»]+)»`)
)

// Extract - чистая функция текста. Ключевые слова аддитивны и сохраняют
// порядок источников (цитаты, глаголы, "бутон ..."); дубликаты не
// удаляются - потребитель идет по порядку до первого совпадения в DOM.
func (v *Vocabulary) Extract(message string) Intent {
	it := Intent{
		Email: emailRe.FindString(message),
		Date:  dateRe.FindString(message),
	}

	for _, re := range v.PhonePatterns {
		if m := re.FindString(message); m != "" {
			it.Phone = m
			break
		}
	}

	it.Name = v.extractName(message)
	it.Keywords = v.extractKeywords(message)
	return it
}

// extractName ищет фразу самопредставления и берет один-два следующих
// словесных токена, сохраняя регистр оригинала.
func (v *Vocabulary) extractName(message string) string {
	lower := strings.ToLower(message)

	for _, phrase := range v.IntroPhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}

		rest := message[idx+len(phrase):]
		var name []string
		for _, tok := range strings.Fields(rest) {
			tok = strings.TrimFunc(tok, func(r rune) bool {
				return !unicode.IsLetter(r) && r != '-'
			})
			if tok == "" || !isWord(tok) {
				break
			}
			name = append(name, tok)
			if len(name) == 2 {
				break
			}
		}

		if len(name) > 0 {
			return strings.Join(name, " ")
		}
	}

	return ""
}

func (v *Vocabulary) extractKeywords(message string) []string {
	lower := strings.ToLower(message)
	var keywords []string

	for _, m := range quotedRe.FindAllStringSubmatch(message, -1) {
		for _, group := range m[1:] {
			if group != "" {
				keywords = append(keywords, strings.ToLower(strings.TrimSpace(group)))
			}
		}
	}

	words := strings.Fields(lower)
	for _, verb := range v.ActionVerbs {
		for i, w := range words {
			if trimPunct(w) != verb {
				continue
			}
			j := i + 1
			if j < len(words) && contains(v.Connectives, trimPunct(words[j])) {
				j++
			}
			if j < len(words) {
				if tok := trimPunct(words[j]); tok != "" {
					keywords = append(keywords, tok)
				}
			}
			break
		}
	}

	for _, bw := range v.ButtonWords {
		idx := strings.Index(lower, bw)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(lower[idx+len(bw):])
		rest = strings.Trim(rest, ".,!?;:\"'„“”«»")
		if rest != "" {
			keywords = append(keywords, rest)
		}
		break
	}

	return keywords
}

func isWord(tok string) bool {
	for _, r := range tok {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

func trimPunct(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
