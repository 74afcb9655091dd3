package deriv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"smcTickBot/internal/domain"
	"smcTickBot/internal/ports"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// connection wraps one websocket session. A single reader goroutine routes
// responses to waiters by req_id and tick updates to the tick handler.
type connection struct {
	ws          *websocket.Conn
	logger      ports.Logger
	onTick      func(tick *domain.Tick)
	readTimeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	waiters map[int64]chan *envelope
	err     error

	closed    chan struct{}
	closeOnce sync.Once
}

func newConnection(ws *websocket.Conn, logger ports.Logger, onTick func(tick *domain.Tick), readTimeout time.Duration) *connection {
	return &connection{
		ws:          ws,
		logger:      logger,
		onTick:      onTick,
		readTimeout: readTimeout,
		waiters:     make(map[int64]chan *envelope),
		closed:      make(chan struct{}),
	}
}

// readLoop runs until the socket fails or is closed.
func (c *connection) readLoop(ctx context.Context) {
	for {
		if c.readTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
		}
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.close(fmt.Errorf("read failed: %w: %w", ports.ErrConnectionFailed, err))
			return
		}

		env := &envelope{}
		if err := json.Unmarshal(data, env); err != nil {
			c.logger.Warn(ctx, "Failed to decode venue message", map[string]interface{}{"error": err.Error()})
			continue
		}

		if env.MsgType == "tick" && env.Tick != nil && env.Error == nil && c.onTick != nil {
			c.onTick(&domain.Tick{
				Symbol: env.Tick.Symbol,
				Quote:  env.Tick.Quote,
				Epoch:  time.Unix(env.Tick.Epoch, 0).UTC(),
			})
		}
		c.dispatch(ctx, env)
	}
}

func (c *connection) dispatch(ctx context.Context, env *envelope) {
	if env.ReqID == 0 {
		return
	}
	c.mu.Lock()
	ch, ok := c.waiters[env.ReqID]
	c.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- env:
	default:
		c.logger.Warn(ctx, "Response dropped, waiter is not keeping up", map[string]interface{}{"reqID": env.ReqID, "msgType": env.MsgType})
	}
}

func (c *connection) register(reqID int64, buffer int) chan *envelope {
	ch := make(chan *envelope, buffer)
	c.mu.Lock()
	c.waiters[reqID] = ch
	c.mu.Unlock()
	return ch
}

func (c *connection) unregister(reqID int64) {
	c.mu.Lock()
	delete(c.waiters, reqID)
	c.mu.Unlock()
}

func (c *connection) send(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.closed:
		return c.Err()
	default:
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteJSON(v); err != nil {
		return fmt.Errorf("write failed: %w: %w", ports.ErrConnectionFailed, err)
	}
	return nil
}

func (c *connection) done() <-chan struct{} {
	return c.closed
}

// Err returns the reason the connection closed, nil while it is open.
func (c *connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *connection) close(reason error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = reason
		c.mu.Unlock()
		close(c.closed)
		_ = c.ws.Close()
	})
}
