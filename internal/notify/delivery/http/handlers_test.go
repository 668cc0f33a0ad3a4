package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notify-srv/internal/middleware"
	"notify-srv/internal/model"
	"notify-srv/internal/notify"
	"notify-srv/internal/notify/usecase"
	"notify-srv/internal/registry"
	"notify-srv/pkg/log"
	"notify-srv/pkg/scope"
)

const keepAlive = 15 * time.Second

type stubVerifier map[string]scope.Principal

func (v stubVerifier) Verify(token string) (scope.Principal, error) {
	p, ok := v[token]
	if !ok {
		return scope.Principal{}, scope.ErrInvalidToken
	}
	return p, nil
}

type testServer struct {
	*httptest.Server
	uc    notify.UseCase
	clock *clockwork.FakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := clockwork.NewFakeClock()
	uc := usecase.New(log.NewNop(), registry.New(4, 16), usecase.Options{KeepAlive: keepAlive, Clock: clock})
	mw := middleware.New(log.NewNop(), stubVerifier{
		"alice": {UserID: 1, WsID: 1, Fullname: "Alice"},
		"bob":   {UserID: 2, WsID: 1, Fullname: "Bob"},
	})

	r := gin.New()
	New(uc, log.NewNop(), WSConfig{}).RegisterRoutes(&r.RouterGroup, mw)

	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewUnstartedServer(r)
	srv.Config.BaseContext = func(net.Listener) context.Context { return ctx }
	srv.Start()
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return &testServer{Server: srv, uc: uc, clock: clock}
}

func (s *testServer) publishChat(t *testing.T, chatID int64, members ...int64) {
	t.Helper()
	c := model.Chat{ID: chatID, WsID: 1, Type: model.ChatTypeGroup, Members: members}
	b, err := json.Marshal(map[string]any{"op": "INSERT", "old": nil, "new": c})
	require.NoError(t, err)
	require.NoError(t, s.uc.HandleNotification(context.Background(), notify.RawNotification{
		Channel: notify.ChannelChatUpdate,
		Payload: string(b),
	}))
}

// sseLines streams body lines until it closes.
func sseLines(body *bufio.Reader) <-chan string {
	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		for {
			line, err := body.ReadString('\n')
			if err != nil {
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()
	return lines
}

func nextLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case l, ok := <-lines:
		require.True(t, ok, "stream closed")
		return l
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stream line")
		return ""
	}
}

func openSSE(t *testing.T, s *testServer, token string) (*http.Response, <-chan string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.URL+"/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp, sseLines(bufio.NewReader(resp.Body))
}

func TestStreamEvents_DeliversEventsToRecipient(t *testing.T) {
	s := newTestServer(t)

	resp, lines := openSSE(t, s, "alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))

	// not a recipient; must not show up before the next event
	s.publishChat(t, 10, 2, 3)
	s.publishChat(t, 11, 1, 2)

	assert.Equal(t, "event:new_chat", nextLine(t, lines))
	data := nextLine(t, lines)
	require.True(t, strings.HasPrefix(data, "data:"), data)

	var got model.Chat
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data:")), &got))
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, []int64{1, 2}, got.Members)
	assert.Equal(t, "", nextLine(t, lines))
}

func TestStreamEvents_KeepAlive(t *testing.T) {
	s := newTestServer(t)

	resp, lines := openSSE(t, s, "bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s.clock.Advance(keepAlive)
	assert.Equal(t, ": keep-alive", nextLine(t, lines))
	assert.Equal(t, "", nextLine(t, lines))
}

func TestStreamEvents_DisconnectReleasesReceiver(t *testing.T) {
	s := newTestServer(t)

	resp, _ := openSSE(t, s, "alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	st, err := s.uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Receivers)

	resp.Body.Close()
	require.Eventually(t, func() bool {
		st, err := s.uc.GetStats(context.Background())
		return err == nil && st.Receivers == 0 && st.Users == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStreamEvents_AuthFailures(t *testing.T) {
	s := newTestServer(t)

	tcs := map[string]struct {
		header string
		query  string
		want   int
	}{
		"missing":        {want: http.StatusUnauthorized},
		"invalid token":  {header: "Bearer mallory", want: http.StatusUnauthorized},
		"not bearer":     {header: "Token alice", want: http.StatusBadRequest},
		"query accepted": {query: "?access_token=alice", want: http.StatusOK},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, s.URL+"/events"+tc.query, nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := s.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestStreamWebSocket_DeliversJSONFrames(t *testing.T) {
	s := newTestServer(t)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws?access_token=alice"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool {
		st, err := s.uc.GetStats(context.Background())
		return err == nil && st.Receivers == 1
	}, 5*time.Second, 10*time.Millisecond)

	s.publishChat(t, 21, 1)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f wsFrame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, notify.EventNewChat, f.Event)

	var got model.Chat
	require.NoError(t, json.Unmarshal(f.Data, &got))
	assert.Equal(t, int64(21), got.ID)
}

func TestStreamWebSocket_Unauthorized(t *testing.T) {
	s := newTestServer(t)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws?access_token=mallory"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
