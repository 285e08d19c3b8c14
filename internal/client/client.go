// Package client implements the one-shot RPC used by the ledgerd CLI:
// dial, write one request line, read one response line, close.
package client

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/bft-labs/ledgerd/internal/domain"
)

// DefaultTimeout bounds the whole request/response exchange.
const DefaultTimeout = 5 * time.Second

// Client performs single-request exchanges with a ledgerd server.
type Client struct {
	addr    string
	timeout time.Duration
}

// New creates a client for the given TCP address.
func New(addr string) *Client {
	return &Client{addr: addr, timeout: DefaultTimeout}
}

// Do sends one request and returns the raw response line.
func (c *Client) Do(req domain.Request) ([]byte, error) {
	line, err := domain.EncodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	if _, err := conn.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	resp, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}
