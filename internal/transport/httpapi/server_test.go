package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/callebjorkell/ws281x-node/internal/node"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type StripMock struct {
	colors []strip.Color
	gamma  *[strip.GammaUpdateLen]byte
	result strip.Result
	report strip.Report
	err    error
}

func (s *StripMock) SetLeds(_ context.Context, colors []strip.Color) (strip.Result, error) {
	s.colors = colors
	return s.result, s.err
}

func (s *StripMock) SetGamma(_ context.Context, gamma [strip.GammaUpdateLen]byte) (strip.Result, error) {
	s.gamma = &gamma
	return strip.Result{Success: true}, s.err
}

func (s *StripMock) State(_ context.Context) (strip.Report, error) {
	return s.report, s.err
}

func gammaBody(n, v int) string {
	values := make([]string, n)
	for i := range values {
		values[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf(`{"gamma":[%s]}`, strings.Join(values, ","))
}

func TestSetLeds(t *testing.T) {
	mock := &StripMock{result: strip.Result{Success: true}}
	s := httptest.NewServer(NewServer("", mock).Handler())
	defer s.Close()

	resp, err := http.Post(s.URL+"/set_leds", "application/json",
		strings.NewReader(`{"leds":[{"r":255,"g":0,"b":0,"w":0},{"r":0,"g":255,"b":0,"w":0}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := strip.Result{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.Equal(t, []strip.Color{{R: 255}, {G: 255}}, mock.colors)
}

func TestSetLedsRenderFailure(t *testing.T) {
	mock := &StripMock{result: strip.Result{Success: false, Message: "Failed to create mailbox device"}}
	s := httptest.NewServer(NewServer("", mock).Handler())
	defer s.Close()

	resp, err := http.Post(s.URL+"/set_leds", "application/json", strings.NewReader(`{"leds":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	res := strip.Result{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to create mailbox device", res.Message)
}

func TestBadRequests(t *testing.T) {
	tt := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"leds garbage", http.MethodPost, "/set_leds", `{"leds":`, http.StatusBadRequest},
		{"leds wrong method", http.MethodGet, "/set_leds", ``, http.StatusMethodNotAllowed},
		{"gamma too short", http.MethodPost, "/set_gamma", gammaBody(10, 1), http.StatusBadRequest},
		{"gamma out of range", http.MethodPost, "/set_gamma", gammaBody(255, 300), http.StatusBadRequest},
		{"state wrong method", http.MethodPost, "/strip_state", ``, http.StatusMethodNotAllowed},
	}

	mock := &StripMock{}
	h := NewServer("", mock).Handler()
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Nil(t, mock.colors)
	assert.Nil(t, mock.gamma)
}

func TestSetGamma(t *testing.T) {
	mock := &StripMock{}
	h := NewServer("", mock).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set_gamma", strings.NewReader(gammaBody(255, 128))))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.NotNil(t, mock.gamma)
	for _, v := range mock.gamma {
		assert.Equal(t, byte(128), v)
	}
}

func TestStripState(t *testing.T) {
	mock := &StripMock{report: strip.Report{Leds: []strip.LedState{
		{Index: 0, Color: strip.Color{R: 1, G: 2, B: 3, W: 4}},
	}}}
	h := NewServer("", mock).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/strip_state", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"leds":[{"index":0,"color":{"r":1,"g":2,"b":3,"w":4}}]}`, rec.Body.String())
}

func TestStoppedNode(t *testing.T) {
	mock := &StripMock{err: node.ErrStopped}
	h := NewServer("", mock).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set_leds", strings.NewReader(`{"leds":[]}`)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "shutting down")
}

func TestStateStream(t *testing.T) {
	srv := NewServer("", &StripMock{})
	s := httptest.NewServer(srv.Handler())
	defer s.Close()

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/strip_state/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the upgrade handler registers the client after the handshake, give it a moment.
	require.Eventually(t, func() bool {
		srv.hub.mu.Lock()
		defer srv.hub.mu.Unlock()
		return len(srv.hub.clients) == 1
	}, time.Second, 5*time.Millisecond)

	srv.Publish(strip.Report{Leds: []strip.LedState{{Index: 0, Color: strip.Color{G: 255}}}})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	r := strip.Report{}
	require.NoError(t, conn.ReadJSON(&r))
	require.Len(t, r.Leds, 1)
	assert.Equal(t, strip.Color{G: 255}, r.Leds[0].Color)
}

func TestBroadcastSkipsListenerThatIsBehind(t *testing.T) {
	h := newHub()
	behind := &listener{send: make(chan []byte, 1)}
	keeping := &listener{send: make(chan []byte, 2)}
	h.clients[behind] = true
	h.clients[keeping] = true

	done := make(chan struct{})
	go func() {
		h.broadcast(strip.Report{Leds: []strip.LedState{{Index: 0, Color: strip.Color{R: 1}}}})
		h.broadcast(strip.Report{Leds: []strip.LedState{{Index: 0, Color: strip.Color{R: 2}}}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast waited on a listener")
	}

	assert.Len(t, behind.send, 1)
	assert.Len(t, keeping.send, 2)

	h.close()
	assert.Empty(t, h.clients)
}
