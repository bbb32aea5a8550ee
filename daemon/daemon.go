// Package daemon talks to a Cirquity node: JSON-RPC calls go through
// go-ethereum's rpc client, status comes from the node's /info endpoint.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"cirquity-wallet-tui/config"
)

// RPCPath is where the daemon serves JSON-RPC.
const RPCPath = "/json_rpc"

// ErrNoClient is returned by calls on a nil client.
var ErrNoClient = errors.New("daemon: no client")

// Client wraps a daemon RPC client
type Client struct {
	rpc  *gethrpc.Client
	http *http.Client
	URL  string
	base string
}

// ConnectResult holds the result of a connection attempt
type ConnectResult struct {
	Client *Client
	Height uint64
	Error  error
}

// BaseURL builds http(s)://host:port for node.
func BaseURL(node config.DaemonNode) string {
	scheme := "http"
	if node.SSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, node.Address())
}

// URL builds the JSON-RPC endpoint for node.
func URL(node config.DaemonNode) string {
	return BaseURL(node) + RPCPath
}

// Connect attempts to connect to a daemon JSON-RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout dials url and asks for the block count, so a result
// without error means the node answered.
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	hc := &http.Client{Timeout: timeout}
	rc, err := gethrpc.DialOptions(ctx, url, gethrpc.WithHTTPClient(hc))
	if err != nil {
		return ConnectResult{Error: fmt.Errorf("dial %s: %w", url, err)}
	}

	c := &Client{
		rpc:  rc,
		http: hc,
		URL:  url,
		base: strings.TrimSuffix(url, RPCPath),
	}
	height, err := c.BlockCount(ctx)
	if err != nil {
		rc.Close()
		return ConnectResult{Error: err}
	}
	return ConnectResult{Client: c, Height: height}
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c != nil && c.rpc != nil {
		c.rpc.Close()
	}
}

type blockCountResult struct {
	Count  uint64 `json:"count"`
	Status string `json:"status"`
}

// BlockCount returns the node's local chain height.
func (c *Client) BlockCount(ctx context.Context) (uint64, error) {
	if c == nil || c.rpc == nil {
		return 0, ErrNoClient
	}
	var res blockCountResult
	if err := c.rpc.CallContext(ctx, &res, "getblockcount"); err != nil {
		return 0, fmt.Errorf("getblockcount: %w", err)
	}
	if res.Status != "" && res.Status != "OK" {
		return 0, fmt.Errorf("getblockcount: status %q", res.Status)
	}
	return res.Count, nil
}

// BlockHeader is the subset of a block header the shell shows.
type BlockHeader struct {
	Height    uint64 `json:"height"`
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
	Reward    uint64 `json:"reward"`
}

// Time returns the header timestamp.
func (h BlockHeader) Time() time.Time { return time.Unix(h.Timestamp, 0) }

// LastBlockHeader returns the header of the newest block.
func (c *Client) LastBlockHeader(ctx context.Context) (BlockHeader, error) {
	if c == nil || c.rpc == nil {
		return BlockHeader{}, ErrNoClient
	}
	var res struct {
		BlockHeader BlockHeader `json:"block_header"`
		Status      string      `json:"status"`
	}
	if err := c.rpc.CallContext(ctx, &res, "getlastblockheader"); err != nil {
		return BlockHeader{}, fmt.Errorf("getlastblockheader: %w", err)
	}
	return res.BlockHeader, nil
}

// Info is the daemon status shown on the home page.
type Info struct {
	Height        uint64
	NetworkHeight uint64
	PeerCount     int
	Synced        bool
	Version       string
	LastBlock     BlockHeader
	LoadedAt      time.Time
	ErrMessage    string
}

// SyncPercent is the local height as a share of the network height.
func (i Info) SyncPercent() float64 {
	if i.NetworkHeight == 0 {
		return 0
	}
	p := float64(i.Height) / float64(i.NetworkHeight) * 100
	if p > 100 {
		p = 100
	}
	return p
}

type infoResponse struct {
	Height        uint64 `json:"height"`
	NetworkHeight uint64 `json:"network_height"`
	Incoming      int    `json:"incoming_connections_count"`
	Outgoing      int    `json:"outgoing_connections_count"`
	Synced        bool   `json:"synced"`
	Version       string `json:"version"`
}

// Info queries /info and the newest block header.
func (c *Client) Info(ctx context.Context) (Info, error) {
	if c == nil || c.rpc == nil {
		return Info{}, ErrNoClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/info", nil)
	if err != nil {
		return Info{}, fmt.Errorf("build info request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("failed to get info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("failed to get info: status %d", resp.StatusCode)
	}

	var ir infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return Info{}, fmt.Errorf("failed to decode info: %w", err)
	}

	info := Info{
		Height:        ir.Height,
		NetworkHeight: ir.NetworkHeight,
		PeerCount:     ir.Incoming + ir.Outgoing,
		Synced:        ir.Synced,
		Version:       ir.Version,
		LoadedAt:      time.Now(),
	}

	// the header is decoration; a node that does not serve it still reports status
	if h, err := c.LastBlockHeader(ctx); err == nil {
		info.LastBlock = h
	}
	return info, nil
}

// LoadInfo fetches daemon status for the home page
func LoadInfo(client *Client) Info {
	return LoadInfoWithTimeout(client, 12*time.Second)
}

// LoadInfoWithTimeout fetches daemon status with a custom timeout. Failures
// are reported in ErrMessage.
func LoadInfoWithTimeout(client *Client, timeout time.Duration) Info {
	if client == nil {
		return Info{LoadedAt: time.Now(), ErrMessage: "No daemon connection (set CIRQ_DAEMON_HOST or pick a node in settings)."}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info, err := client.Info(ctx)
	if err != nil {
		return Info{LoadedAt: time.Now(), ErrMessage: "Failed to load daemon status."}
	}
	return info
}

// SyncState summarises Info for the sync reminder.
type SyncState int

const (
	Offline SyncState = iota
	Syncing
	Synced
)

func (s SyncState) String() string {
	switch s {
	case Syncing:
		return "Syncing, don't panic if your balance looks wrong."
	case Synced:
		return "Fully synced."
	default:
		return "Node offline."
	}
}

// State is Offline until the node reports a network height.
func (i Info) State() SyncState {
	switch {
	case i.NetworkHeight == 0:
		return Offline
	case i.SyncPercent() < 100:
		return Syncing
	default:
		return Synced
	}
}
