// Package gateway is an HTTP client for the Arweave gateway API: posting
// transactions, fetching anchors/prices/balances, and polling transaction
// status.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/liteseed/arcore/arerr"
	"github.com/liteseed/arcore/transaction"
)

// Client is an Arweave gateway HTTP client.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Log     *log.Logger
}

// New builds a Client against baseURL, which must end in "/"; any other
// base URL is rejected with InvalidInput. Request paths are appended to
// the base URL's path with path.Join.
func New(baseURL string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		return nil, arerr.New(arerr.InvalidInput, "gateway.New", fmt.Errorf("base URL %q must end in /", baseURL))
	}
	return &Client{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: baseURL,
		Log:     log.Default(),
	}, nil
}

func (c *Client) url(p string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", arerr.New(arerr.InvalidInput, "gateway.url", err)
	}
	u.Path = path.Join(u.Path, p)
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, p string) ([]byte, error) {
	target, err := c.url(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, arerr.New(arerr.InvalidInput, "gateway.get", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, arerr.New(arerr.Transport, "gateway.get", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, arerr.New(arerr.Transport, "gateway.get", err)
	}
	if resp.StatusCode >= 400 {
		return nil, arerr.New(arerr.Gateway, "gateway.get", fmt.Errorf("%d: %s", resp.StatusCode, body))
	}
	return body, nil
}

// doPost performs the raw HTTP POST, returning the status code and body
// without raising a Gateway error, so that the caller (PostTransaction)
// applies its own success check to the status code.
func (c *Client) doPost(ctx context.Context, p string, payload []byte) (int, []byte, error) {
	target, err := c.url(p)
	if err != nil {
		return 0, nil, err
	}
	c.Log.Printf("gateway: POST %s", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, arerr.New(arerr.InvalidInput, "gateway.doPost", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, arerr.New(arerr.Transport, "gateway.doPost", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, arerr.New(arerr.Transport, "gateway.doPost", err)
	}
	return resp.StatusCode, body, nil
}

// PostTransaction submits a signed transaction. Any 2xx status is treated
// as success, since real gateways may answer 200 with a warning body, or
// 208; a non-2xx response becomes a Gateway error carrying the body for
// diagnostics. Posting an unsigned transaction fails before any network
// call.
func (c *Client) PostTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if tx.ID.IsZero() || tx.Signature.IsZero() {
		return arerr.New(arerr.UnsignedTransaction, "gateway.PostTransaction", nil)
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		return arerr.New(arerr.Decode, "gateway.PostTransaction", err)
	}
	status, body, err := c.doPost(ctx, "tx", payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return arerr.New(arerr.Gateway, "gateway.PostTransaction", fmt.Errorf("%d: %s", status, body))
	}
	return nil
}

// GetTransaction retrieves a complete transaction by ID.
func (c *Client) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	body, err := c.get(ctx, fmt.Sprintf("tx/%s", id))
	if err != nil {
		return nil, err
	}
	tx := &transaction.Transaction{}
	if err := json.Unmarshal(body, tx); err != nil {
		return nil, arerr.New(arerr.Decode, "gateway.GetTransaction", err)
	}
	return tx, nil
}

// GetTransactionAnchor fetches a recent transaction ID to use as last_tx.
func (c *Client) GetTransactionAnchor(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "tx_anchor")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetTransactionPrice quotes the reward, in winstons, to store byteLength
// bytes.
func (c *Client) GetTransactionPrice(ctx context.Context, byteLength int) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("price/%d", byteLength))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetWalletBalance returns address's confirmed balance, in winstons.
func (c *Client) GetWalletBalance(ctx context.Context, address string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("wallet/%s/balance", address))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetLastTransactionID returns the most recent transaction ID sent from
// address.
func (c *Client) GetLastTransactionID(ctx context.Context, address string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("wallet/%s/last_tx", address))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// NetworkInfo mirrors the gateway's GET /info response.
type NetworkInfo struct {
	Network          string `json:"network"`
	Version          int64  `json:"version"`
	Release          int64  `json:"release"`
	Height           int64  `json:"height"`
	Current          string `json:"current"`
	Blocks           int64  `json:"blocks"`
	Peers            int64  `json:"peers"`
	QueueLength      int64  `json:"queue_length"`
	NodeStateLatency int64  `json:"node_state_latency"`
}

// GetNetworkInfo fetches current network statistics.
func (c *Client) GetNetworkInfo(ctx context.Context) (*NetworkInfo, error) {
	body, err := c.get(ctx, "info")
	if err != nil {
		return nil, err
	}
	info := &NetworkInfo{}
	if err := json.Unmarshal(body, info); err != nil {
		return nil, arerr.New(arerr.Decode, "gateway.GetNetworkInfo", err)
	}
	return info, nil
}
