package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// envelope is the wire shape exchanged with the companion WS endpoint:
// a topic-addressed, op-tagged frame of raw bytes.
type envelope struct {
	Op      string `json:"op"`
	Topic   string `json:"topic,omitempty"`
	Payload []byte `json:"payload,omitempty"`
}

// WebSocketClient is a real (local/dev-oriented) implementation of Client
// over a websocket connection. Initialize retries the dial with
// exponential backoff; once connected, a dropped connection is not
// redialed, and sends fail after that. Production deployments of the edge
// app are expected to supply their own transport binding (spec §1); this
// implementation exists so the Client contract has at least one concrete,
// network-facing realization exercised outside of tests.
type WebSocketClient struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn
	cb   ConfigurationCallback

	readCh chan envelope
	closed chan struct{}
}

// NewWebSocketClient constructs a client that will dial url on Initialize.
func NewWebSocketClient(url string) *WebSocketClient {
	return &WebSocketClient{
		url:    url,
		readCh: make(chan envelope, 16),
		closed: make(chan struct{}),
	}
}

func (c *WebSocketClient) Initialize(ctx context.Context) error {
	return c.dial(ctx)
}

func (c *WebSocketClient) dial(ctx context.Context) error {
	op := func() error {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		go c.readLoop(conn)
		return nil
	}
	b := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	return backoff.Retry(op, b)
}

func (c *WebSocketClient) readLoop(conn *websocket.Conn) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		select {
		case c.readCh <- env:
		case <-c.closed:
			return
		}
	}
}

func (c *WebSocketClient) SetConfigurationCallback(cb ConfigurationCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cb = cb
}

func (c *WebSocketClient) ProcessEvent(ctx context.Context, timeoutMs int) error {
	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case env := <-c.readCh:
		switch env.Op {
		case "configure":
			c.mu.Lock()
			cb := c.cb
			c.mu.Unlock()
			if cb != nil {
				cb(env.Topic, env.Payload)
			}
			return nil
		case "shouldexit":
			return ErrShouldExit
		default:
			return nil
		}
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *WebSocketClient) send(env envelope) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("transport: not connected")
	}
	return conn.WriteJSON(env)
}

func (c *WebSocketClient) SendState(ctx context.Context, topic string, payload []byte, cb SendCallback) error {
	err := c.send(envelope{Op: "state", Topic: topic, Payload: payload})
	if cb != nil {
		cb(err)
	}
	return err
}

func (c *WebSocketClient) BlobOperation(ctx context.Context, op BlobOp, urlPath string, payload []byte) ([]byte, error) {
	opName := "blob_get"
	if op == BlobPut {
		opName = "blob_put"
	}
	if err := c.send(envelope{Op: opName, Topic: urlPath, Payload: payload}); err != nil {
		return nil, err
	}
	if op == BlobGet {
		select {
		case env := <-c.readCh:
			return env.Payload, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, nil
}

func (c *WebSocketClient) SendTelemetry(ctx context.Context, entries []TelemetryEntry, cb SendCallback) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		if cb != nil {
			cb(err)
		}
		return err
	}
	err = c.send(envelope{Op: "telemetry", Payload: payload})
	if cb != nil {
		cb(err)
	}
	return err
}

func (c *WebSocketClient) Close(ctx context.Context) error {
	close(c.closed)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
