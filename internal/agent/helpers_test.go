package agent

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"webAgent/internal/browser"
	"webAgent/internal/logger"
)

func testLogger() *logger.Zap {
	return &logger.Zap{Logger: zap.NewNop()}
}

// fakePage реализует browser.Page для тестов пайплайна.
type fakePage struct {
	url   string
	title string
	scan  interface{}

	evalErr   error
	evalPanic bool

	navs []string

	clickAttempts []string
	clickOK       func(selector string) bool

	fillAttempts []string
	fillOK       func(selector string) bool
	filled       map[string]string

	selectAttempts []string
	selectOK       func(selector string) bool

	scrolled int
	closed   bool
}

func newFakePage(scan interface{}) *fakePage {
	return &fakePage{
		title:  "Хотел Морска звезда",
		scan:   scan,
		filled: map[string]string{},
	}
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Title() (string, error) { return p.title, nil }

func (p *fakePage) Evaluate(expression string, args ...interface{}) (interface{}, error) {
	if p.evalPanic {
		panic("страница закрыта")
	}
	if p.evalErr != nil {
		return nil, p.evalErr
	}
	if expression == "() => 1" {
		return 1, nil
	}
	return p.scan, nil
}

func (p *fakePage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p.navs = append(p.navs, url)
	p.url = url
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string, timeout time.Duration) error {
	p.clickAttempts = append(p.clickAttempts, selector)
	if p.clickOK != nil && !p.clickOK(selector) {
		return errors.New("элемент не найден")
	}
	return nil
}

func (p *fakePage) Fill(ctx context.Context, selector, value string, timeout time.Duration) error {
	p.fillAttempts = append(p.fillAttempts, selector)
	if p.fillOK != nil && !p.fillOK(selector) {
		return errors.New("поле не найдено")
	}
	p.filled[selector] = value
	return nil
}

func (p *fakePage) SelectOption(ctx context.Context, selector, value string, timeout time.Duration) error {
	p.selectAttempts = append(p.selectAttempts, selector)
	if p.selectOK != nil && !p.selectOK(selector) {
		return errors.New("список не найден")
	}
	p.filled[selector] = value
	return nil
}

func (p *fakePage) ScrollBy(ctx context.Context, y int) error {
	p.scrolled += y
	return nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// fakeEngine выдает заранее подготовленные страницы.
type fakeEngine struct {
	pages    []*fakePage
	newErr   error
	newCalls int
	started  bool
}

func (e *fakeEngine) Start(ctx context.Context) error {
	e.started = true
	return nil
}

func (e *fakeEngine) Started() bool { return e.started }

func (e *fakeEngine) NewPage(ctx context.Context) (browser.Page, error) {
	if e.newErr != nil {
		return nil, e.newErr
	}
	if e.newCalls >= len(e.pages) {
		return nil, errors.New("страницы кончились")
	}
	p := e.pages[e.newCalls]
	e.newCalls++
	return p, nil
}

func (e *fakeEngine) Stop() error {
	e.started = false
	return nil
}

func testAgent(engine Engine) *Agent {
	return New(Config{
		NavTimeout:    50 * time.Millisecond,
		NavRetries:    2,
		ActionTimeout: 10 * time.Millisecond,
		SettleDelay:   time.Millisecond,
		ScrollStep:    600,
	}, testLogger(), engine)
}

// scanPayload собирает сырой результат скана в том виде, в каком его
// отдает Evaluate.
func scanPayload(buttons []map[string]interface{}, inputs []map[string]interface{}) map[string]interface{} {
	rawButtons := make([]interface{}, 0, len(buttons))
	for _, b := range buttons {
		rawButtons = append(rawButtons, b)
	}
	rawInputs := make([]interface{}, 0, len(inputs))
	for _, in := range inputs {
		rawInputs = append(rawInputs, in)
	}
	return map[string]interface{}{
		"buttons": rawButtons,
		"inputs":  rawInputs,
	}
}
