package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/stretchr/testify/require"

	"webAgent/internal/browser"
	"webAgent/internal/logger"
)

type stubPage struct {
	url     string
	evalErr error

	navErr error
	navURL string // URL, который страница получает после попытки перехода
	navs   int
	closed bool
}

func (p *stubPage) URL() string { return p.url }

func (p *stubPage) Title() (string, error) { return "", nil }

func (p *stubPage) Evaluate(expression string, args ...interface{}) (interface{}, error) {
	if p.evalErr != nil {
		return nil, p.evalErr
	}
	return 1, nil
}

func (p *stubPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p.navs++
	if p.navErr != nil {
		if p.navURL != "" {
			p.url = p.navURL
		}
		return p.navErr
	}
	p.url = url
	return nil
}

func (p *stubPage) Click(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (p *stubPage) Fill(ctx context.Context, selector, value string, timeout time.Duration) error {
	return nil
}

func (p *stubPage) SelectOption(ctx context.Context, selector, value string, timeout time.Duration) error {
	return nil
}

func (p *stubPage) ScrollBy(ctx context.Context, y int) error { return nil }

func (p *stubPage) Close() error {
	p.closed = true
	return nil
}

type stubFactory struct {
	pages []*stubPage
	calls int
	err   error
}

func (f *stubFactory) NewPage(ctx context.Context) (browser.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.pages) {
		return nil, errors.New("страницы кончились")
	}
	p := f.pages[f.calls]
	f.calls++
	return p, nil
}

func newTestStore(f *stubFactory) *Store {
	return NewStore(f, &logger.Zap{Logger: zap.NewNop()}, Config{
		NavTimeout: 50 * time.Millisecond,
		NavRetries: 2,
	})
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com  ", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"https://example.com/rooms", "https://example.com/rooms"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NormalizeURL(tc.raw), tc.raw)
	}
}

func TestResolveReusesSession(t *testing.T) {
	page := &stubPage{}
	f := &stubFactory{pages: []*stubPage{page}}
	s := newTestStore(f)

	first, navigated, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err)
	require.True(t, navigated)
	require.Equal(t, "https://hotel.bg", first.LastURL)
	require.Equal(t, 1, page.navs)

	second, navigated, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err)
	require.False(t, navigated, "тот же URL не вызывает повторной навигации")
	require.Same(t, first, second)
	require.Equal(t, 1, f.calls)
	require.Equal(t, 1, page.navs)
}

func TestResolveNavigatesOnNewURL(t *testing.T) {
	page := &stubPage{}
	f := &stubFactory{pages: []*stubPage{page}}
	s := newTestStore(f)

	_, _, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err)

	sess, navigated, err := s.Resolve(context.Background(), "s1", "other.bg")
	require.NoError(t, err)
	require.True(t, navigated)
	require.Equal(t, "https://other.bg", sess.LastURL)
	require.Equal(t, 2, page.navs)
}

func TestResolveRecreatesDeadPage(t *testing.T) {
	dead := &stubPage{}
	fresh := &stubPage{}
	f := &stubFactory{pages: []*stubPage{dead, fresh}}
	s := newTestStore(f)

	first, _, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err)

	dead.evalErr = errors.New("target closed")
	second, navigated, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err)
	require.NotSame(t, first, second, "мертвая страница молча пересоздается")
	require.True(t, navigated, "свежая страница навигируется заново")
	require.True(t, dead.closed)
	require.Equal(t, 2, f.calls)
	require.Equal(t, 1, s.Count())
}

func TestResolveFactoryError(t *testing.T) {
	f := &stubFactory{err: errors.New("браузер упал")}
	s := newTestStore(f)

	_, _, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.Error(t, err)
	require.Equal(t, 0, s.Count())
}

func TestNavigatePartialSuccess(t *testing.T) {
	page := &stubPage{
		navErr: errors.New("timeout exceeded"),
		navURL: "https://hotel.bg/partial",
	}
	f := &stubFactory{pages: []*stubPage{page}}
	s := newTestStore(f)

	sess, _, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err, "провал навигации не фатален")
	require.Equal(t, "https://hotel.bg/partial", sess.LastURL)
	require.Equal(t, 1, page.navs, "непустой URL - частичный успех, без повторов")
}

func TestNavigateExhaustsRetries(t *testing.T) {
	page := &stubPage{
		url:    "about:blank",
		navErr: errors.New("timeout exceeded"),
	}
	f := &stubFactory{pages: []*stubPage{page}}
	s := newTestStore(f)

	sess, _, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err)
	require.Equal(t, 2, page.navs, "не меньше двух попыток")
	require.Equal(t, "about:blank", sess.LastURL)
}

func TestCloseAndDisposeAll(t *testing.T) {
	p1 := &stubPage{}
	p2 := &stubPage{}
	f := &stubFactory{pages: []*stubPage{p1, p2}}
	s := newTestStore(f)

	_, _, err := s.Resolve(context.Background(), "s1", "hotel.bg")
	require.NoError(t, err)
	_, _, err = s.Resolve(context.Background(), "s2", "other.bg")
	require.NoError(t, err)
	require.Equal(t, 2, s.Count())

	s.Close("s1")
	require.Equal(t, 1, s.Count())
	require.True(t, p1.closed)

	s.Close("s1") // повторное закрытие безопасно
	require.Equal(t, 1, s.Count())

	s.DisposeAll()
	require.Equal(t, 0, s.Count())
	require.True(t, p2.closed)
}
