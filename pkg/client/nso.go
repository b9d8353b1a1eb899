package client

// See ref for API docs:
//	https://developer.cisco.com/docs/nso/guides/restconf-api/
//	https://developer.cisco.com/docs/nso/guides/the-rest-api/ (legacy)
import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SyncResult is the outcome of the sync-from action for one device.
type SyncResult struct {
	Device string `json:"device" yaml:"device"`
	Result bool   `json:"result" yaml:"result"`
	Info   string `json:"info,omitempty" yaml:"info,omitempty"`
}

// Get() issues an authenticated GET against path (relative to the base URL).
// Any status outside 2xx is returned as an *HTTPError.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, HTTPBody, error) {
	return c.do(ctx, http.MethodGet, path)
}

// Post() issues an authenticated POST against path. The body parameter only
// exists for symmetry with Get(); sending a payload is not implemented and
// returns ErrUnsupportedOperation.
func (c *Client) Post(ctx context.Context, path string, body HTTPBody) (*http.Response, HTTPBody, error) {
	if len(body) > 0 {
		return nil, nil, fmt.Errorf("POST with a request body: %w", ErrUnsupportedOperation)
	}
	return c.do(ctx, http.MethodPost, path)
}

func (c *Client) do(ctx context.Context, method string, path string) (*http.Response, HTTPBody, error) {
	url := c.RootEndpoint(path)
	res, body, err := MakeRequest(ctx, c.Client, url, method, nil, c.Headers())
	if err != nil {
		return nil, nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, body, &HTTPError{
			Method:     method,
			URL:        url,
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       bytes.TrimSpace(body),
		}
	}
	log.Debug().Str("method", method).Str("url", url).Int("status", res.StatusCode).Msg("request succeeded")
	return res, body, nil
}

// SyncFrom() runs the sync-from action on every device known to NSO and
// returns the decoded JSON output. Syncing only specific devices is not
// implemented; passing any device returns ErrUnsupportedOperation.
func (c *Client) SyncFrom(ctx context.Context, devices ...string) (map[string]any, error) {
	if len(devices) > 0 {
		return nil, fmt.Errorf("sync-from for device(s) %v: %w", devices, ErrUnsupportedOperation)
	}
	_, body, err := c.Post(ctx, c.Dialect.SyncFromPath(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to run sync-from: %w", err)
	}
	output := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return output, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&output); err != nil {
		return nil, &MalformedResponseError{URL: c.RootEndpoint(c.Dialect.SyncFromPath()), Err: err}
	}
	return output, nil
}

// GetDeviceList() returns the device names known to NSO in the order the
// API lists them.
func (c *Client) GetDeviceList(ctx context.Context) ([]string, error) {
	path := c.Dialect.DeviceListPath()
	_, body, err := c.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get device list: %w", err)
	}
	names, err := c.Dialect.ParseDeviceList(body)
	if err != nil {
		return nil, c.withURL(err, path)
	}
	return names, nil
}

// GetDeviceConfig() returns the configuration (no operational data) NSO
// holds for a single device. A response without the config envelope key
// yields a *MalformedResponseError.
func (c *Client) GetDeviceConfig(ctx context.Context, device string) (map[string]any, error) {
	path := c.Dialect.DeviceConfigPath(device)
	_, body, err := c.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get config for %s: %w", device, err)
	}
	config, err := c.Dialect.ParseDeviceConfig(body)
	if err != nil {
		return nil, c.withURL(err, path)
	}
	return config, nil
}

func (c *Client) withURL(err error, path string) error {
	var merr *MalformedResponseError
	if errors.As(err, &merr) && merr.URL == "" {
		merr.URL = c.RootEndpoint(path)
	}
	return err
}

// ParseSyncResults() picks the per-device results out of a sync-from
// output. Entries it cannot read are skipped.
func ParseSyncResults(output map[string]any) []SyncResult {
	out, ok := output["tailf-ncs:output"].(map[string]any)
	if !ok {
		return nil
	}
	entries, ok := out["sync-result"].([]any)
	if !ok {
		return nil
	}
	results := make([]SyncResult, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		device, _ := m["device"].(string)
		info, _ := m["info"].(string)
		results = append(results, SyncResult{
			Device: device,
			Result: isTrue(m["result"]),
			Info:   info,
		})
	}
	return results
}

// the legacy API encodes booleans as strings
func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}
