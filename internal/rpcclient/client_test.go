package rpcclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// newHTTPServer serves a fixed JSON-RPC response body.
func newHTTPServer(t *testing.T, respond func(req map[string]any) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(respond(req))); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func TestCall_HTTP(t *testing.T) {
	srv := newHTTPServer(t, func(req map[string]any) string {
		if req["method"] != "staking_state" {
			t.Errorf("method = %v, want staking_state", req["method"])
		}
		if req["jsonrpc"] != "2.0" {
			t.Errorf("jsonrpc = %v, want 2.0", req["jsonrpc"])
		}
		return `{"jsonrpc":"2.0","result":{"nonce":5,"bonded":100,"unbonded":0,"unbonded_from":0},"id":1}`
	})
	defer srv.Close()

	client := New(srv.URL)
	state, err := client.GetStakedState("0x1ad06eef15492a9a1ed0cfac21a1303198db8840")
	if err != nil {
		t.Fatalf("GetStakedState() error: %v", err)
	}
	if state.Nonce != 5 {
		t.Errorf("Nonce = %d, want 5", state.Nonce)
	}
	if state.Bonded != 100 {
		t.Errorf("Bonded = %d, want 100", state.Bonded)
	}
}

func TestCall_ServerError(t *testing.T) {
	srv := newHTTPServer(t, func(map[string]any) string {
		return `{"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found"},"id":1}`
	})
	defer srv.Close()

	var out json.RawMessage
	err := New(srv.URL).Call("nope", nil, &out)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Call() = %v, want *RPCError", err)
	}
	if rpcErr.Code != -32601 {
		t.Errorf("Code = %d, want -32601", rpcErr.Code)
	}
}

func TestCall_TransportError(t *testing.T) {
	// Nothing listens here.
	err := New("http://127.0.0.1:1").Call("x", nil, nil)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("Call() = %v, want *TransportError", err)
	}
	if transport.Endpoint == "" {
		t.Error("transport error should carry the endpoint")
	}
}

func TestBroadcast_CheckTxFailure(t *testing.T) {
	srv := newHTTPServer(t, func(map[string]any) string {
		return `{"jsonrpc":"2.0","result":{"code":3,"log":"invalid nonce","hash":""},"id":1}`
	})
	defer srv.Close()

	err := New(srv.URL).Broadcast([]byte{1, 2, 3})
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Broadcast() = %v, want *RPCError", err)
	}
	if !strings.Contains(rpcErr.Message, "invalid nonce") {
		t.Errorf("Message = %q, want node log text", rpcErr.Message)
	}
}

func TestBroadcast_Empty(t *testing.T) {
	if err := New("http://unused").Broadcast(nil); err == nil {
		t.Error("empty payload should fail before any network call")
	}
}

// newWSServer upgrades and echoes one canned response per message.
func newWSServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(response)); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestCall_Websocket(t *testing.T) {
	srv := newWSServer(t, `{"jsonrpc":"2.0","result":{"nonce":9,"bonded":0,"unbonded":7,"unbonded_from":100},"id":1}`)
	defer srv.Close()

	state, err := New(wsURL(srv)).GetStakedState("0xabcdefabcdefabcdefabcdefabcdefabcdefabcd")
	if err != nil {
		t.Fatalf("GetStakedState() error: %v", err)
	}
	if state.Nonce != 9 || state.UnbondedFrom != 100 {
		t.Errorf("state = %+v, want nonce 9 unbonded_from 100", state)
	}
}

func TestCallRaw_PassesThrough(t *testing.T) {
	const raw = `{"jsonrpc":"2.0","result":["wallet-a"],"id":1}`
	srv := newWSServer(t, raw)
	defer srv.Close()

	got, err := New(wsURL(srv)).CallRaw([]byte(`{"jsonrpc":"2.0","method":"wallet_list","params":[],"id":1}`))
	if err != nil {
		t.Fatalf("CallRaw() error: %v", err)
	}
	if string(got) != raw {
		t.Errorf("CallRaw() = %q, want %q", got, raw)
	}

	if _, err := New(wsURL(srv)).CallRaw([]byte("{not json")); err == nil {
		t.Error("invalid request JSON should fail before sending")
	}
}

func TestProgress_Cancellation(t *testing.T) {
	srv := newWSServer(t, `{"jsonrpc":"2.0","result":null,"id":1}`)
	defer srv.Close()

	calls := 0
	client := NewWithProgress(wsURL(srv), func(current, start, end uint64) bool {
		calls++
		return false // stop immediately
	})
	err := client.Call("anything", nil, nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Call() = %v, want ErrCancelled", err)
	}
	if calls != 1 {
		t.Errorf("callback invoked %d times, want 1 (prompt unwind)", calls)
	}
}

func TestProgress_ReportsMonotonicSteps(t *testing.T) {
	srv := newWSServer(t, `{"jsonrpc":"2.0","result":null,"id":1}`)
	defer srv.Close()

	var seen []uint64
	client := NewWithProgress(wsURL(srv), func(current, start, end uint64) bool {
		if start != 0 || end == 0 {
			t.Errorf("bounds = (%d, %d), want (0, >0)", start, end)
		}
		seen = append(seen, current)
		return true
	})
	if err := client.Call("anything", nil, nil); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Errorf("progress went backwards: %v", seen)
		}
	}
	if len(seen) == 0 || seen[len(seen)-1] == 0 {
		t.Errorf("final progress should reach the end bound, got %v", seen)
	}
}
