package rpcclient

import (
	"time"

	"github.com/gorilla/websocket"
)

// wsRoundTrip performs one request/response exchange over a fresh
// websocket connection. Consensus nodes expose JSON-RPC at
// ws://host:26657/websocket; each engine call is a single exchange.
func (c *Client) wsRoundTrip(body []byte) ([]byte, error) {
	if err := c.step(0, 3); err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(c.endpoint, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	defer conn.Close()

	if err := c.step(1, 3); err != nil {
		return nil, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}

	if err := c.step(2, 3); err != nil {
		return nil, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}

	if err := c.step(3, 3); err != nil {
		return nil, err
	}
	return data, nil
}
