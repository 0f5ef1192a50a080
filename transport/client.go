package transport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultTimeout is the per-request budget a Client enforces, per the
// worker transport's 60-second timeout requirement.
const defaultTimeout = 60 * time.Second

// Handler executes one Request on the worker side and returns its result
// or error. It runs on the Client's single worker goroutine, so it must
// not block indefinitely.
type Handler func(Request) (interface{}, error)

// Client dispatches requests to a single worker goroutine and waits for a
// correlated Response, enforcing a per-request timeout and rejecting all
// pending requests on Close. This is the engine's one real concurrency
// boundary: every other operation is synchronous and single-threaded.
type Client struct {
	mu      sync.Mutex
	pending map[uuid.UUID]chan Response
	reqCh   chan Request
	done    chan struct{}
	closed  bool
}

// NewClient starts a worker goroutine running handler and returns a Client
// to dispatch requests to it.
func NewClient(handler Handler) *Client {
	c := &Client{
		pending: map[uuid.UUID]chan Response{},
		reqCh:   make(chan Request),
		done:    make(chan struct{}),
	}
	go c.run(handler)
	return c
}

func (c *Client) run(handler Handler) {
	for {
		select {
		case req, ok := <-c.reqCh:
			if !ok {
				return
			}
			result, err := handler(req)
			c.deliver(Response{ID: req.ID, Type: req.Type, Result: result, Err: err})
		case <-c.done:
			return
		}
	}
}

func (c *Client) deliver(resp Response) {
	c.mu.Lock()
	ch, ok := c.pending[resp.ID]
	if ok {
		delete(c.pending, resp.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- resp
	}
}

// Send dispatches req to the worker and blocks until a Response arrives,
// the request times out at 60 seconds, or ctx is canceled first.
func (c *Client) Send(ctx context.Context, req Request) (Response, error) {
	replyCh := make(chan Response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Response{}, ErrClientClosed
	}
	c.pending[req.ID] = replyCh
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	select {
	case c.reqCh <- req:
	case resp := <-replyCh:
		return resp, resp.Err
	case <-ctx.Done():
		c.forget(req.ID)
		return Response{}, ctx.Err()
	}

	select {
	case resp := <-replyCh:
		return resp, resp.Err
	case <-ctx.Done():
		c.forget(req.ID)
		return Response{}, ctx.Err()
	}
}

func (c *Client) forget(id uuid.UUID) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Close stops the worker goroutine and rejects every request still
// in flight with ErrClientClosed. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	pending := c.pending
	c.pending = map[uuid.UUID]chan Response{}
	c.mu.Unlock()

	close(c.done)
	for id, ch := range pending {
		ch <- Response{ID: id, Err: ErrClientClosed}
	}
	return nil
}
