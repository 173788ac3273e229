package feed

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandelzoom"
)

// Client follows the /ws stream of a running viewer.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a feed, e.g. ws://localhost:8080/ws.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial %q: %w", url, err)
	}
	return &Client{conn: c}, nil
}

// Next blocks until the next snapshot arrives.
func (c *Client) Next(ctx context.Context) (mandel.Snapshot, error) {
	var snap mandel.Snapshot
	if err := wsjson.Read(ctx, c.conn, &snap); err != nil {
		return mandel.Snapshot{}, fmt.Errorf("feed read: %w", err)
	}
	return snap, nil
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
