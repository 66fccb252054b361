package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping checks daemon liveness.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Logsnap.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Logsnap.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh triggers one synchronous refresh cycle.
func (c *Client) Refresh() (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.client.Call("Logsnap.Refresh", RefreshRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Lines fetches line records from the daemon.
func (c *Client) Lines(req LinesRequest) (*LinesResponse, error) {
	var resp LinesResponse
	if err := c.client.Call("Logsnap.Lines", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reload asks the daemon to re-read its configuration.
func (c *Client) Reload() (*ReloadResponse, error) {
	var resp ReloadResponse
	if err := c.client.Call("Logsnap.Reload", ReloadRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop asks the daemon process to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Logsnap.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
