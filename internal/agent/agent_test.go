package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInteractBeforeStart(t *testing.T) {
	a, _ := executorAgent()

	res := a.Interact(context.Background(), Request{
		SiteURL:     "hotel.bg",
		UserMessage: "Здравей",
		SessionID:   "s1",
	})

	require.False(t, res.Success)
	require.Contains(t, res.Message, "подготвя")
	require.NotEmpty(t, res.Logs)
}

func TestInteractNeverFailsOnDeadEngine(t *testing.T) {
	eng := &fakeEngine{newErr: errors.New("браузер упал")}
	a := testAgent(eng)
	require.NoError(t, a.Start(context.Background()))

	res := a.Interact(context.Background(), Request{
		SiteURL:     "hotel.bg",
		UserMessage: "Резервирай",
		SessionID:   "s1",
	})

	require.NotNil(t, res)
	require.False(t, res.Success)
	require.NotEmpty(t, res.Message)
	require.NotEmpty(t, res.Logs)
}

func TestInteractRecoversFromPanic(t *testing.T) {
	page := newFakePage(nil)
	eng := &fakeEngine{pages: []*fakePage{page}}
	a := testAgent(eng)
	require.NoError(t, a.Start(context.Background()))

	// Первый запрос создает сессию.
	res := a.Interact(context.Background(), Request{
		SiteURL: "hotel.bg", UserMessage: "Здравей", SessionID: "s1",
	})
	require.True(t, res.Success)

	// Страница начинает паниковать посреди пайплайна.
	page.evalPanic = true
	res = a.Interact(context.Background(), Request{
		SiteURL: "hotel.bg", UserMessage: "Здравей", SessionID: "s1",
	})

	require.NotNil(t, res)
	require.False(t, res.Success)
	require.NotEmpty(t, res.Logs)
	require.Equal(t, 0, a.Status().ActiveSessions, "отравленная сессия выбрасывается")
	require.True(t, page.closed)
}

func TestInteractNavigationIdempotence(t *testing.T) {
	page := newFakePage(nil)
	eng := &fakeEngine{pages: []*fakePage{page}}
	a := testAgent(eng)
	require.NoError(t, a.Start(context.Background()))

	req := Request{SiteURL: "hotel.bg", UserMessage: "Здравей", SessionID: "s1"}
	res := a.Interact(context.Background(), req)
	require.True(t, res.Success)
	require.Equal(t, []string{"https://hotel.bg"}, page.navs)

	// Тот же URL - навигации нет.
	res = a.Interact(context.Background(), req)
	require.True(t, res.Success)
	require.Equal(t, []string{"https://hotel.bg"}, page.navs)

	// Новый URL - одна новая навигация.
	req.SiteURL = "https://other.bg"
	res = a.Interact(context.Background(), req)
	require.True(t, res.Success)
	require.Equal(t, []string{"https://hotel.bg", "https://other.bg"}, page.navs)
}

func TestInteractEndToEndClick(t *testing.T) {
	scan := scanPayload(
		[]map[string]interface{}{
			{"text": "Резервирай", "selector": "#book"},
		},
		nil,
	)
	page := newFakePage(scan)
	page.clickOK = func(sel string) bool { return sel == "#book" }
	eng := &fakeEngine{pages: []*fakePage{page}}
	a := testAgent(eng)
	require.NoError(t, a.Start(context.Background()))

	res := a.Interact(context.Background(), Request{
		SiteURL:     "hotel.bg",
		UserMessage: "Резервирай стая",
		SessionID:   "s1",
	})

	require.True(t, res.Success)
	require.Contains(t, page.clickAttempts, "#book")
	require.Contains(t, res.ActionTaken, "Резервирай")
	require.Contains(t, res.Message, res.ActionTaken)
	require.NotNil(t, res.Snapshot)
	require.NotEmpty(t, res.Logs)
}

func TestInteractObserveOnly(t *testing.T) {
	page := newFakePage(scanPayload(
		[]map[string]interface{}{{"text": "Начало", "selector": "#home"}},
		nil,
	))
	eng := &fakeEngine{pages: []*fakePage{page}}
	a := testAgent(eng)
	require.NoError(t, a.Start(context.Background()))

	res := a.Interact(context.Background(), Request{
		SiteURL:     "hotel.bg",
		UserMessage: "Какво виждаш?",
		SessionID:   "s1",
	})

	require.True(t, res.Success)
	require.Empty(t, res.ActionTaken)
	require.Empty(t, page.clickAttempts)
	require.Contains(t, res.Message, "Начало")
}

func TestCloseSessionAndStatus(t *testing.T) {
	page := newFakePage(nil)
	eng := &fakeEngine{pages: []*fakePage{page}}
	a := testAgent(eng)

	st := a.Status()
	require.False(t, st.Ready)
	require.Equal(t, "0s", st.Uptime)

	require.NoError(t, a.Start(context.Background()))
	res := a.Interact(context.Background(), Request{
		SiteURL: "hotel.bg", UserMessage: "Здравей", SessionID: "s1",
	})
	require.True(t, res.Success)

	st = a.Status()
	require.True(t, st.Ready)
	require.Equal(t, 1, st.ActiveSessions)

	a.CloseSession("s1")
	require.Equal(t, 0, a.Status().ActiveSessions)
	require.True(t, page.closed)
}

func TestShutdownIdempotent(t *testing.T) {
	page := newFakePage(nil)
	eng := &fakeEngine{pages: []*fakePage{page}}
	a := testAgent(eng)
	require.NoError(t, a.Start(context.Background()))

	_ = a.Interact(context.Background(), Request{
		SiteURL: "hotel.bg", UserMessage: "Здравей", SessionID: "s1",
	})

	a.Shutdown()
	a.Shutdown()

	require.False(t, a.Status().Ready)
	require.Equal(t, 0, a.Status().ActiveSessions)
	require.False(t, eng.started)
}

func TestInteractTracesRequestID(t *testing.T) {
	page := newFakePage(nil)
	eng := &fakeEngine{pages: []*fakePage{page}}
	a := testAgent(eng)
	require.NoError(t, a.Start(context.Background()))

	ctx := WithRequestID(context.Background(), "req-42")
	res := a.Interact(ctx, Request{
		SiteURL: "hotel.bg", UserMessage: "Здравей", SessionID: "s1",
	})

	require.True(t, res.Success)
	require.NotEmpty(t, res.Logs)
	require.Contains(t, res.Logs[0], "req-42")
}
