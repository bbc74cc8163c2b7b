package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"webAgent/internal/browser"
)

// Outcome - мягкий результат исполнения: действие либо выполнено, либо
// нет. Исчерпание стратегий - не ошибка, пайплайн продолжается.
type Outcome struct {
	Performed bool
	Detail    string
}

// strategy - одна попытка интерпретации цели. Исполнитель - маленький
// интерпретатор над упорядоченным списком таких попыток; первый успех
// останавливает перебор.
type strategy struct {
	name     string
	selector string
}

var bareIDRe = regexp.MustCompile(`^[A-Za-z][\w\-]*$`)

// isSelector отсекает цели, которые селектором быть не могут (URL,
// пустая строка).
func isSelector(target string) bool {
	target = strings.TrimSpace(target)
	return target != "" && !strings.Contains(target, "://")
}

// clickStrategies: сырой селектор, точный текст, подстрока текста,
// кнопка/ссылка с текстом, подстрока aria-label.
func clickStrategies(target, label string) []strategy {
	if label == "" {
		label = target
	}

	var list []strategy
	if isSelector(target) {
		list = append(list, strategy{"селектор", target})
	}
	if label != "" && !strings.Contains(label, "://") {
		list = append(list,
			strategy{"точен текст", fmt.Sprintf("text=%q", label)},
			strategy{"подстрока текста", "text=" + label},
			strategy{"кнопка с текстом", fmt.Sprintf("button:has-text(%q), a:has-text(%q), [role='button']:has-text(%q)", label, label, label)},
			strategy{"aria-label", fmt.Sprintf("[aria-label*=%q i]", label)},
		)
	}
	return list
}

// fillStrategies: сырой селектор, id, name, подстрока placeholder,
// подстрока aria-label.
func fillStrategies(target, hint string) []strategy {
	var list []strategy
	if isSelector(target) {
		list = append(list, strategy{"селектор", target})
	}
	if hint != "" {
		if bareIDRe.MatchString(hint) {
			list = append(list, strategy{"id", "#" + hint})
		}
		list = append(list,
			strategy{"name", fmt.Sprintf("[name=%q]", hint)},
			strategy{"placeholder", fmt.Sprintf("[placeholder*=%q i]", hint)},
			strategy{"aria-label", fmt.Sprintf("[aria-label*=%q i]", hint)},
		)
	}
	return list
}

func (a *Agent) execute(ctx context.Context, page browser.Page, dec Decision, trace *traceLog) Outcome {
	switch d := dec.(type) {
	case Click:
		return a.tryClick(ctx, page, d.Target, d.Label, trace)
	case Fill:
		return a.tryFill(ctx, page, d.Target, d.Value, d.Hint, trace)
	case BookFlow:
		return a.executeBooking(ctx, page, d, trace)
	case Scroll:
		if err := page.ScrollBy(ctx, a.cfg.ScrollStep); err != nil {
			trace.add("ACT", "скролл не удался: %v", err)
			return Outcome{Performed: false, Detail: "не успях да превъртя страницата"}
		}
		trace.add("ACT", "скролл на %d px", a.cfg.ScrollStep)
		return Outcome{Performed: true, Detail: "Превъртях страницата надолу."}
	case Wait:
		select {
		case <-ctx.Done():
		case <-time.After(a.cfg.SettleDelay):
		}
		trace.add("ACT", "ожидание %s", a.cfg.SettleDelay)
		return Outcome{Performed: true, Detail: "Изчаках страницата да се зареди."}
	default:
		return Outcome{Performed: false}
	}
}

func (a *Agent) tryClick(ctx context.Context, page browser.Page, target, label string, trace *traceLog) Outcome {
	for _, st := range clickStrategies(target, label) {
		if err := page.Click(ctx, st.selector, a.cfg.ActionTimeout); err == nil {
			trace.add("ACT", "клик выполнен (%s: %s)", st.name, st.selector)
			if label == "" {
				label = target
			}
			return Outcome{Performed: true, Detail: fmt.Sprintf("Натиснах %q.", label)}
		}
		trace.add("ACT", "клик не удался (%s: %s)", st.name, st.selector)
	}
	return Outcome{Performed: false, Detail: "не открих елемента за натискане"}
}

func (a *Agent) tryFill(ctx context.Context, page browser.Page, target, value, hint string, trace *traceLog) Outcome {
	for _, st := range fillStrategies(target, hint) {
		if err := page.Fill(ctx, st.selector, value, a.cfg.ActionTimeout); err == nil {
			trace.add("ACT", "поле заполнено (%s: %s)", st.name, st.selector)
			return Outcome{Performed: true, Detail: fmt.Sprintf("Попълних %q в полето.", value)}
		}
		trace.add("ACT", "заполнение не удалось (%s: %s)", st.name, st.selector)
	}
	return Outcome{Performed: false, Detail: "не открих полето за попълване"}
}

func (a *Agent) trySelect(ctx context.Context, page browser.Page, target, value, hint string, trace *traceLog) Outcome {
	for _, st := range fillStrategies(target, hint) {
		if err := page.SelectOption(ctx, st.selector, value, a.cfg.ActionTimeout); err == nil {
			trace.add("ACT", "опция выбрана (%s: %s)", st.name, st.selector)
			return Outcome{Performed: true, Detail: fmt.Sprintf("Избрах %q.", value)}
		}
		trace.add("ACT", "выбор опции не удался (%s: %s)", st.name, st.selector)
	}
	return Outcome{Performed: false, Detail: "не открих падащия списък"}
}

// executeBooking: каждое заполнение независимо, любой поднабор успехов -
// прогресс. Кнопка поиска нажимается, если заполнилось хоть одно поле
// или намерение бронирования выражено в самом сообщении.
func (a *Agent) executeBooking(ctx context.Context, page browser.Page, d BookFlow, trace *traceLog) Outcome {
	filled := 0
	for _, f := range d.Fills {
		var out Outcome
		if f.Select {
			out = a.trySelect(ctx, page, f.Target, f.Value, f.Hint, trace)
		} else {
			out = a.tryFill(ctx, page, f.Target, f.Value, f.Hint, trace)
		}
		if out.Performed {
			filled++
		}
	}

	clicked := false
	if d.Submit != "" && (filled > 0 || d.ForceSubmit) {
		out := a.tryClick(ctx, page, d.Submit, d.SubmitLabel, trace)
		clicked = out.Performed
	}

	if filled == 0 && !clicked {
		return Outcome{Performed: false, Detail: "не успях да попълня формата за резервация"}
	}

	detail := fmt.Sprintf("Попълних %d полета от формата за резервация.", filled)
	if clicked {
		detail += " Натиснах бутона за търсене."
	}
	return Outcome{Performed: true, Detail: detail}
}
