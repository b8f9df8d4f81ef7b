// Package rpcclient provides the JSON-RPC 2.0 client used to talk to
// consensus nodes, over HTTP or websocket endpoints. It passes method
// semantics through opaquely: the engine routes calls and surfaces
// results or error text, nothing more.
package rpcclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a JSON-RPC 2.0 client. The transport is chosen from the
// endpoint scheme: ws:// and wss:// use a websocket round-trip, anything
// else posts over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
	progress Progress
}

// New creates a client targeting the given endpoint URL.
func New(endpoint string) *Client {
	return NewWithProgress(endpoint, nil)
}

// NewWithProgress creates a client whose long-running calls report to
// (and may be cancelled by) the given progress callback.
func NewWithProgress(endpoint string, progress Progress) *Client {
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		progress: progress,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// request is a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// rpcError is a JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the server answers with an error object.
// It is not retryable as-is: the server understood and rejected the call.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// TransportError wraps a network-level failure. Retryable by the caller;
// the engine itself never retries.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Call invokes a JSON-RPC method and unmarshals the result into result
// (discarded if nil).
func (c *Client) Call(method string, params, result interface{}) error {
	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	data, err := c.roundTrip(body)
	if err != nil {
		return err
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return &RPCError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

// CallRaw sends an already-encoded JSON-RPC request and returns the raw
// response bytes, without validating method semantics either way.
func (c *Client) CallRaw(requestJSON []byte) ([]byte, error) {
	if !json.Valid(requestJSON) {
		return nil, fmt.Errorf("request is not valid JSON")
	}
	return c.roundTrip(requestJSON)
}

// roundTrip sends one request body and returns the response body.
func (c *Client) roundTrip(body []byte) ([]byte, error) {
	if isWebsocket(c.endpoint) {
		return c.wsRoundTrip(body)
	}
	return c.httpRoundTrip(body)
}

func (c *Client) httpRoundTrip(body []byte) ([]byte, error) {
	if err := c.step(0, 2); err != nil {
		return nil, err
	}
	resp, err := c.http.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if err := c.step(1, 2); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	if err := c.step(2, 2); err != nil {
		return nil, err
	}
	return data, nil
}

func isWebsocket(endpoint string) bool {
	return strings.HasPrefix(endpoint, "ws://") || strings.HasPrefix(endpoint, "wss://")
}
