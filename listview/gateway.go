package listview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway writes a single-field update to the system of record. The
// controller only patches its in-memory copy after the gateway succeeds,
// so a failed write leaves the displayed value untouched.
type Gateway interface {
	UpdateField(ctx context.Context, id, field string, value any) error
}

// GatewayFunc adapts a closure (typically a store method) to Gateway.
type GatewayFunc func(ctx context.Context, id, field string, value any) error

func (f GatewayFunc) UpdateField(ctx context.Context, id, field string, value any) error {
	return f(ctx, id, field, value)
}

// LocalGateway accepts every update without any write-through. This is
// the demo mode some dashboard pages run in: state changes live only in
// the current session.
type LocalGateway struct{}

func (LocalGateway) UpdateField(context.Context, string, string, any) error { return nil }

// RemoteGateway PATCHes an external collection endpoint:
// PATCH {base}/{id} with body {"field": value}.
type RemoteGateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteGateway(baseURL string, timeout time.Duration) *RemoteGateway {
	return &RemoteGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *RemoteGateway) UpdateField(ctx context.Context, id, field string, value any) error {
	body, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return fmt.Errorf("gateway marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, g.baseURL+"/"+id, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway PATCH %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway HTTP %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
