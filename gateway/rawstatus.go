package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/liteseed/arcore/arerr"
	"github.com/liteseed/arcore/status"
)

// RawStatusResult is the outcome of polling GET /tx/{id}/status, collapsed
// into the three cases a refresh needs to distinguish.
type RawStatusResult struct {
	Pending  bool
	NotFound bool
	Raw      *status.RawStatus
}

// GetRawStatus polls a transaction's confirmation status. A 200 response
// body of literally "Pending" means pending, a 200 JSON body means
// confirmed, a 404 means not found, and any other status surfaces as a
// Gateway error.
func (c *Client) GetRawStatus(ctx context.Context, id string) (*RawStatusResult, error) {
	target, err := c.url(fmt.Sprintf("tx/%s/status", id))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, arerr.New(arerr.InvalidInput, "gateway.GetRawStatus", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, arerr.New(arerr.Transport, "gateway.GetRawStatus", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, arerr.New(arerr.Transport, "gateway.GetRawStatus", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &RawStatusResult{NotFound: true}, nil
	case resp.StatusCode == http.StatusOK && string(body) == "Pending":
		return &RawStatusResult{Pending: true}, nil
	case resp.StatusCode == http.StatusOK:
		raw := &status.RawStatus{}
		if err := json.Unmarshal(body, raw); err != nil {
			return nil, arerr.New(arerr.Decode, "gateway.GetRawStatus", err)
		}
		return &RawStatusResult{Raw: raw}, nil
	default:
		return nil, arerr.New(arerr.Gateway, "gateway.GetRawStatus", fmt.Errorf("%d: %s", resp.StatusCode, body))
	}
}
