package browser

import (
	"context"
	"time"
)

// Page - единственная способность, через которую ядро видит браузер:
// скан DOM через Evaluate, клик, заполнение, навигация. Реализация на
// playwright - единственное место, которое знает про сам движок.
type Page interface {
	URL() string
	Title() (string, error)
	Evaluate(expression string, args ...interface{}) (interface{}, error)
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Click(ctx context.Context, selector string, timeout time.Duration) error
	Fill(ctx context.Context, selector, value string, timeout time.Duration) error
	SelectOption(ctx context.Context, selector, value string, timeout time.Duration) error
	ScrollBy(ctx context.Context, y int) error
	Close() error
}

type Config struct {
	Headless     bool
	Display      string
	BrowsersPath string
}
