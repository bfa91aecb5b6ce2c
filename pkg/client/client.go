// Package client is a websocket client for a PageDB server.
//
// Usage:
//
//	db, err := client.NewClient("ws://localhost:7085")
//	if err != nil { ... }
//	defer db.Disconnect()
//
//	res, err := db.Query("SELECT users.name FROM users")
//	for _, row := range res.Data { ... }
package client

import (
	"fmt"
	"net/url"
	"sync"

	ws "github.com/gorilla/websocket"

	"github.com/tobsdb/pagedb/pkg"
)

type Response struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Data    [][]string `json:"data"`
	ReqId   int        `json:"req_id"`
}

func (r Response) IsError() bool { return r.Status >= 400 }

type request struct {
	Query string `json:"query"`
	ReqId int    `json:"req_id"`
}

// Client sends one statement at a time over a single websocket; it is safe
// for concurrent use.
type Client struct {
	// The formatted connection url of the PageDB server
	Url *url.URL

	mu      sync.Mutex
	conn    *ws.Conn
	next_id int
}

func NewClient(urlStr string) (*Client, error) {
	Url, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}
	if Url.Scheme != "ws" && Url.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported scheme %q", Url.Scheme)
	}
	return &Client{Url: Url}, nil
}

func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connect()
}

func (c *Client) connect() error {
	if c.conn != nil {
		return nil
	}
	conn, _, err := ws.DefaultDialer.Dial(c.Url.String(), nil)
	if err != nil {
		return err
	}
	pkg.InfoLog("Connected to PageDB server", c.Url.Host)
	c.conn = conn
	return nil
}

func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	defer func() { c.conn = nil }()

	err := c.conn.WriteMessage(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, "Disconnect"))
	if err != nil {
		pkg.ErrorLog(err)
		c.conn.Close()
		return err
	}
	if err := c.conn.Close(); err != nil {
		pkg.ErrorLog(err)
		return err
	}
	pkg.InfoLog("Disconnected from PageDB server")
	return nil
}

// Query sends {text} and waits for its response. Statement failures are
// reported in the response, not as an error.
func (c *Client) Query(text string) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connect(); err != nil {
		return Response{}, err
	}

	c.next_id++
	req := request{Query: text, ReqId: c.next_id}
	if err := c.conn.WriteJSON(req); err != nil {
		return Response{}, err
	}

	var res Response
	if err := c.conn.ReadJSON(&res); err != nil {
		return res, err
	}
	if res.ReqId != req.ReqId {
		return res, fmt.Errorf("response for request %d, expected %d", res.ReqId, req.ReqId)
	}
	return res, nil
}

func (c *Client) Clear() (Response, error) { return c.Query("CLEAR DB") }

// Unlock clears a lock flag left on {table} by a crashed writer.
func (c *Client) Unlock(table string) (Response, error) { return c.Query("UNLOCK TABLE " + table) }
