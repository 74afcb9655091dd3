package deriv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"smcTickBot/internal/domain"
	"smcTickBot/internal/ports"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/shopspring/decimal"
)

const (
	// Public endpoint
	defaultWSURL = "wss://ws.derivws.com/websockets/v3"

	maxReconnectDelay = time.Minute
	settlementBuffer  = 16
)

// Client implements ports.TickStream and ports.ExecutionPort over the Deriv
// websocket API. Ticks and trading share one connection.
type Client struct {
	cfg    Config
	logger ports.Logger
	dialer *websocket.Dialer

	reqSeq atomic.Int64

	mu   sync.RWMutex
	conn *connection
}

// Config holds configuration specific to the Deriv client adapter.
type Config struct {
	AppID                string
	APIToken             string
	WSURL                string
	Logger               ports.Logger
	PingInterval         time.Duration // Application-level keepalive (e.g., 20 * time.Second)
	ReconnectDelay       time.Duration // First reconnect delay, doubled per failed attempt
	MaxReconnectAttempts int           // Max consecutive attempts before giving up
	RequestTimeout       time.Duration // Authorize and subscribe round trips

	// Contract parameters used for every proposal
	Duration     int
	DurationUnit string
	Currency     string
}

// New creates a new Deriv client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Deriv client")
	}
	if cfg.AppID == "" {
		return nil, fmt.Errorf("app id is required for Deriv client: %w", ports.ErrConfigurationError)
	}
	if cfg.APIToken == "" {
		// Ticks are public; proposals and buys will fail with an authorization error.
		cfg.Logger.Warn(context.Background(), "APIToken is empty. Client will only be able to stream ticks.")
	}
	if cfg.WSURL == "" {
		cfg.WSURL = defaultWSURL
	}
	if _, err := url.Parse(cfg.WSURL); err != nil {
		return nil, fmt.Errorf("invalid websocket URL '%s': %w: %w", cfg.WSURL, ports.ErrConfigurationError, err)
	}

	// Default settings if not provided
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 20 * time.Second
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = 10
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 5
	}
	if cfg.DurationUnit == "" {
		cfg.DurationUnit = "t"
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}

	cfg.Logger.Info(context.Background(), "Deriv client configured", map[string]interface{}{"url": cfg.WSURL, "appID": cfg.AppID})

	return &Client{
		cfg:    cfg,
		logger: cfg.Logger,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}, nil
}

// Connected reports whether an authorized, subscribed connection is live.
func (c *Client) Connected() bool {
	return c.current() != nil
}

func (c *Client) current() *connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Client) setCurrent(conn *connection) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// clearCurrent forgets conn unless a newer connection replaced it already.
func (c *Client) clearCurrent(conn *connection) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
}

func (c *Client) endpoint() string {
	u, _ := url.Parse(c.cfg.WSURL)
	q := u.Query()
	q.Set("app_id", c.cfg.AppID)
	u.RawQuery = q.Encode()
	return u.String()
}

// handleError wraps a failed venue operation. API errors are additionally
// wrapped with rejected so callers can tell a refusal from a transport failure.
func (c *Client) handleError(ctx context.Context, err error, operation string, rejected error) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return fmt.Errorf("%s failed: %w: %w", operation, rejected, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return fmt.Errorf("%s failed: %w", operation, err)
}

// request stamps req with a fresh req_id, registers a waiter for it and sends it.
func (c *Client) request(conn *connection, req request, buffer int) (int64, <-chan *envelope, error) {
	id := c.reqSeq.Add(1)
	req.setReqID(id)
	ch := conn.register(id, buffer)
	if err := conn.send(req); err != nil {
		conn.unregister(id)
		return 0, nil, err
	}
	return id, ch, nil
}

// send fires req without waiting for a response.
func (c *Client) send(conn *connection, req request) error {
	req.setReqID(c.reqSeq.Add(1))
	return conn.send(req)
}

// roundTrip sends req and waits for its single response.
func (c *Client) roundTrip(ctx context.Context, conn *connection, req request) (*envelope, error) {
	id, ch, err := c.request(conn, req, 1)
	if err != nil {
		return nil, err
	}
	defer conn.unregister(id)

	select {
	case env := <-ch:
		return unwrapResponse(env)
	case <-conn.done():
		// The reader dispatches before it notices a failure, so a response
		// that made it in is still waiting.
		select {
		case env := <-ch:
			return unwrapResponse(env)
		default:
			return nil, conn.Err()
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("request %d: %w: %w", id, ports.ErrTimeout, ctx.Err())
	}
}

func unwrapResponse(env *envelope) (*envelope, error) {
	if env.Error != nil {
		return env, env.Error
	}
	return env, nil
}

// connect dials the venue, authorizes and subscribes to symbol ticks.
func (c *Client) connect(ctx context.Context, symbol string, handler func(tick *domain.Tick)) (*connection, error) {
	ws, _, err := c.dialer.DialContext(ctx, c.endpoint(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w: %w", ports.ErrConnectionFailed, err)
	}
	conn := newConnection(ws, c.logger, handler, 3*c.cfg.PingInterval)
	go conn.readLoop(ctx)

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	if c.cfg.APIToken != "" {
		env, err := c.roundTrip(reqCtx, conn, &authorizeRequest{Authorize: c.cfg.APIToken})
		if err != nil {
			conn.close(err)
			return nil, fmt.Errorf("authorize failed: %w", err)
		}
		fields := map[string]interface{}{}
		if env.Authorize != nil {
			fields["loginID"] = env.Authorize.LoginID
			fields["balance"] = env.Authorize.Balance
			fields["currency"] = env.Authorize.Currency
		}
		c.logger.Info(ctx, "Authorized", fields)
	}

	if _, err := c.roundTrip(reqCtx, conn, &ticksRequest{Ticks: symbol, Subscribe: 1}); err != nil {
		conn.close(err)
		return nil, fmt.Errorf("ticks subscription failed: %w", err)
	}
	c.logger.Info(ctx, "Subscribed to ticks", map[string]interface{}{"symbol": symbol})

	go c.keepAlive(ctx, conn)
	return conn, nil
}

// keepAlive sends an application-level ping every PingInterval.
func (c *Client) keepAlive(ctx context.Context, conn *connection) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-conn.done():
			return
		case <-ticker.C:
			if err := c.send(conn, &pingRequest{Ping: 1}); err != nil {
				c.logger.Warn(ctx, "Keepalive ping failed", map[string]interface{}{"error": err.Error()})
				return
			}
		}
	}
}

// StreamTicks starts streaming ticks for symbol over a self-healing connection.
// Every (re)connect authorizes and resubscribes before the connection is used
// for trading.
func (c *Client) StreamTicks(ctx context.Context, symbol string, handler func(tick *domain.Tick), errHandler func(err error)) (doneCh chan struct{}, stopCh chan struct{}, err error) {
	op := "StreamTicks"
	if symbol == "" || handler == nil {
		return nil, nil, fmt.Errorf("%s: symbol and handler are required: %w", op, ports.ErrInvalidRequest)
	}
	if errHandler == nil {
		errHandler = func(error) {}
	}
	wsCtx, cancelWs := context.WithCancel(ctx) // Create a cancellable context for the WS lifecycle

	// Reconnection loop
	go func() {
		defer cancelWs() // Ensure context is cancelled when this goroutine exits

		b := &backoff.Backoff{
			Min:    c.cfg.ReconnectDelay,
			Max:    maxReconnectDelay,
			Factor: 2,
			Jitter: true,
		}
		for {
			if wsCtx.Err() != nil {
				c.logger.Info(wsCtx, op+": Context cancelled, stopping connection attempts.", map[string]interface{}{"symbol": symbol})
				return
			}

			c.logger.Info(wsCtx, op+": Attempting WebSocket connection...", map[string]interface{}{"symbol": symbol, "attempt": int(b.Attempt()) + 1})
			conn, connectErr := c.connect(wsCtx, symbol, handler)
			if connectErr != nil {
				if wsCtx.Err() != nil {
					return
				}
				if errors.Is(connectErr, ports.ErrAuthenticationFailed) {
					c.logger.Error(wsCtx, connectErr, op+": Authorization rejected, giving up.", map[string]interface{}{"symbol": symbol})
					errHandler(fmt.Errorf("%s: %w", op, connectErr))
					return
				}

				delay := b.Duration()
				if int(b.Attempt()) >= c.cfg.MaxReconnectAttempts {
					c.logger.Error(wsCtx, connectErr, op+": Max reconnection attempts exceeded, giving up.", map[string]interface{}{"symbol": symbol, "maxAttempts": c.cfg.MaxReconnectAttempts})
					errHandler(fmt.Errorf("%s: giving up after %d attempts: %w", op, c.cfg.MaxReconnectAttempts, connectErr))
					return
				}
				c.logger.Warn(wsCtx, op+": Connection failed, retrying...", map[string]interface{}{"symbol": symbol, "error": connectErr.Error(), "delay": delay.String()})

				select {
				case <-time.After(delay):
					continue
				case <-wsCtx.Done():
					c.logger.Info(wsCtx, op+": Context cancelled during backoff.", map[string]interface{}{"symbol": symbol})
					return
				}
			}

			// Connection successful
			b.Reset()
			c.setCurrent(conn)
			c.logger.Info(wsCtx, op+": WebSocket connection established.", map[string]interface{}{"symbol": symbol})

			select {
			case <-conn.done():
				c.clearCurrent(conn)
				lost := fmt.Errorf("%s: connection lost: %w", op, conn.Err())
				c.logger.Warn(wsCtx, op+": WebSocket connection closed unexpectedly. Reconnecting...", map[string]interface{}{"symbol": symbol, "error": lost.Error()})
				errHandler(lost)

				select {
				case <-time.After(b.Duration()):
				case <-wsCtx.Done():
					return
				}
			case <-wsCtx.Done():
				c.logger.Info(wsCtx, op+": Context cancelled, stopping WebSocket.", map[string]interface{}{"symbol": symbol})
				c.clearCurrent(conn)
				conn.close(fmt.Errorf("stream stopped: %w", ports.ErrNotConnected))
				return
			}
		}
	}()

	doneCh = make(chan struct{})
	stopCh = make(chan struct{})

	// Link the external stopCh to the internal context cancellation
	go func() {
		select {
		case <-stopCh:
			c.logger.Info(ctx, op+": Received external stop signal, cancelling WebSocket context.", map[string]interface{}{"symbol": symbol})
			cancelWs()
		case <-wsCtx.Done():
		}
	}()

	// Close the external doneCh when the internal context is done
	go func() {
		<-wsCtx.Done()
		c.logger.Info(ctx, op+": WebSocket context done, closing external done channel.", map[string]interface{}{"symbol": symbol})
		close(doneCh)
	}()

	return doneCh, stopCh, nil
}

// PlaceTrade requests a stake-based proposal and buys it at the stake price.
func (c *Client) PlaceTrade(ctx context.Context, req ports.TradeRequest) (int64, error) {
	op := "PlaceTrade"
	if req.Stake <= 0 || req.Symbol == "" {
		return 0, fmt.Errorf("%s: symbol and positive stake are required: %w", op, ports.ErrInvalidRequest)
	}
	conn := c.current()
	if conn == nil {
		return 0, fmt.Errorf("%s: %w", op, ports.ErrNotConnected)
	}

	stake := decimal.NewFromFloat(req.Stake).Round(2).InexactFloat64()
	proposal := &proposalRequest{
		Proposal:     1,
		Amount:       stake,
		Basis:        "stake",
		ContractType: req.Direction.ContractType(),
		Currency:     c.cfg.Currency,
		Duration:     c.cfg.Duration,
		DurationUnit: c.cfg.DurationUnit,
		Symbol:       req.Symbol,
		Barrier:      formatBarrier(req.Barrier),
	}
	c.logger.Debug(ctx, op+": Requesting proposal", map[string]interface{}{
		"symbol":       req.Symbol,
		"contractType": proposal.ContractType,
		"barrier":      proposal.Barrier,
		"stake":        stake,
	})

	// Nothing is bought until the buy frame is sent, so any proposal failure is a rejection
	env, err := c.roundTrip(ctx, conn, proposal)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			err = fmt.Errorf("%w: %w", ports.ErrProposalRejected, err)
		}
		return 0, c.handleError(ctx, err, op+" proposal", ports.ErrProposalRejected)
	}
	if env.Proposal == nil || env.Proposal.ID == "" {
		return 0, c.handleError(ctx, &APIError{Code: "EmptyProposal", Message: "proposal response carried no id"}, op+" proposal", ports.ErrProposalRejected)
	}

	env, err = c.roundTrip(ctx, conn, &buyRequest{Buy: env.Proposal.ID, Price: stake})
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			// The buy may have gone through; only the reply was lost
			err = fmt.Errorf("buy reply lost: %w: %w", ports.ErrSettlementUnknown, err)
		}
		return 0, c.handleError(ctx, err, op+" buy", ports.ErrBuyRejected)
	}
	if env.Buy == nil || env.Buy.ContractID == 0 {
		return 0, c.handleError(ctx, &APIError{Code: "EmptyBuy", Message: "buy response carried no contract id"}, op+" buy", ports.ErrBuyRejected)
	}

	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol":       req.Symbol,
		"contractType": proposal.ContractType,
		"barrier":      proposal.Barrier,
		"stake":        stake,
		"contractID":   env.Buy.ContractID,
		"buyPrice":     env.Buy.BuyPrice,
	})
	return env.Buy.ContractID, nil
}

// AwaitSettlement subscribes to the contract and blocks until it is sold.
func (c *Client) AwaitSettlement(ctx context.Context, contractID int64) (float64, error) {
	op := "AwaitSettlement"
	conn := c.current()
	if conn == nil {
		return 0, fmt.Errorf("%s: contract %d: %w: %w", op, contractID, ports.ErrSettlementUnknown, ports.ErrNotConnected)
	}

	id, ch, err := c.request(conn, &openContractRequest{ProposalOpenContract: 1, ContractID: contractID, Subscribe: 1}, settlementBuffer)
	if err != nil {
		return 0, fmt.Errorf("%s: contract %d: %w: %w", op, contractID, ports.ErrSettlementUnknown, err)
	}
	defer conn.unregister(id)

	for {
		select {
		case env := <-ch:
			if env.Error != nil {
				return 0, c.handleError(ctx, env.Error, op, ports.ErrSettlementUnknown)
			}
			poc := env.ProposalOpenContract
			if poc == nil || poc.IsSold == 0 {
				continue
			}
			if env.Subscription != nil && env.Subscription.ID != "" {
				if err := c.send(conn, &forgetRequest{Forget: env.Subscription.ID}); err != nil {
					c.logger.Debug(ctx, op+": Failed to forget contract subscription", map[string]interface{}{"error": err.Error()})
				}
			}
			c.logger.Debug(ctx, op+": Contract sold", map[string]interface{}{"contractID": contractID, "profit": poc.Profit, "status": poc.Status})
			return poc.Profit, nil
		case <-conn.done():
			return 0, fmt.Errorf("%s: contract %d: %w: %w", op, contractID, ports.ErrSettlementUnknown, conn.Err())
		case <-ctx.Done():
			return 0, fmt.Errorf("%s: contract %d: %w: %w: %w", op, contractID, ports.ErrSettlementUnknown, ports.ErrTimeout, ctx.Err())
		}
	}
}

// formatBarrier renders a signed offset with three decimals, e.g. "+0.778".
func formatBarrier(barrier float64) string {
	d := decimal.NewFromFloat(barrier).Round(3)
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(3)
	}
	return d.StringFixed(3)
}
