package live_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/http/live"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type staticSource struct {
	state ledger.State
}

func (s staticSource) State() ledger.State { return s.state }
func (s staticSource) Now() time.Time {
	return time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

func read(t *testing.T, conn *websocket.Conn) live.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg live.Message
	require.NoError(t, conn.ReadJSON(&msg))

	return msg
}

func TestHub(t *testing.T) {
	hub := live.NewHub(staticSource{state: ledger.Default()}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- hub.Run(ctx) }()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	first := dial(t, srv)
	second := dial(t, srv)

	for _, conn := range []*websocket.Conn{first, second} {
		msg := read(t, conn)
		assert.Equal(t, "summary", msg.Type)
		assert.Zero(t, msg.Summary.Income)
	}

	st := ledger.Default()
	_, err := st.AddTransaction(transaction.CreateParams{
		Date:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Category: "Salary",
		Amount:   150000,
		Type:     transaction.TypeIncome,
	})
	require.NoError(t, err)

	hub.Notify(st)

	for _, conn := range []*websocket.Conn{first, second} {
		assert.Equal(t, int64(150000), read(t, conn).Summary.Income)
	}

	cancel()
	require.NoError(t, <-done)

	require.NoError(t, first.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = first.ReadMessage()
	assert.Error(t, err, "connections are closed on shutdown")
}

func TestHub_CheckOrigin(t *testing.T) {
	hub := live.NewHub(staticSource{state: ledger.Default()}, []string{"http://localhost:5173"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = hub.Run(ctx) }()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://localhost:5173"}})
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	assert.Equal(t, "summary", read(t, conn).Type)
}
