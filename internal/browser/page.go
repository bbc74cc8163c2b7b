package browser

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *playwrightPage) Evaluate(expression string, args ...interface{}) (interface{}, error) {
	if len(args) > 0 {
		return p.page.Evaluate(expression, args[0])
	}
	return p.page.Evaluate(expression)
}

// Navigate ждет load, а не networkidle: сайты с бесконечными XHR и
// трекерами иначе не "загружаются" никогда. Goto не принимает context,
// поэтому результат забирается через канал.
func (p *playwrightPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := p.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		return navCtx.Err()
	case err := <-errChan:
		return err
	}
}

func (p *playwrightPage) Click(ctx context.Context, selector string, timeout time.Duration) error {
	return p.page.Click(selector, playwright.PageClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *playwrightPage) Fill(ctx context.Context, selector, value string, timeout time.Duration) error {
	return p.page.Fill(selector, value, playwright.PageFillOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *playwrightPage) SelectOption(ctx context.Context, selector, value string, timeout time.Duration) error {
	_, err := p.page.SelectOption(selector, playwright.SelectOptionValues{
		Values: &[]string{value},
	}, playwright.PageSelectOptionOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *playwrightPage) ScrollBy(ctx context.Context, y int) error {
	_, err := p.page.Evaluate("y => window.scrollBy(0, y)", y)
	return err
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
