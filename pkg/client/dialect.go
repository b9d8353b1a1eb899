package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

const (
	DeviceListKey   = "tailf-ncs:device"
	DeviceConfigKey = "tailf-ncs:config"
	CollectionKey   = "collection"
)

// Dialect describes one flavour of the NSO northbound HTTP API: the media
// types it speaks, where its endpoints live, and how the device list and
// device config envelopes are unwrapped.
type Dialect interface {
	Name() string
	MediaType() string
	AcceptTypes() string
	SyncFromPath() string
	DeviceListPath() string
	DeviceConfigPath(device string) string

	// ParseDeviceList and ParseDeviceConfig return a *MalformedResponseError
	// when the envelope does not have the expected shape.
	ParseDeviceList(body HTTPBody) ([]string, error)
	ParseDeviceConfig(body HTTPBody) (map[string]any, error)
}

var (
	RESTCONF   Dialect = restconf{}
	LegacyREST Dialect = legacyREST{}
)

// Dialects lists every supported dialect, the default first.
var Dialects = []Dialect{RESTCONF, LegacyREST}

// ParseDialect looks up a dialect by name. An empty name selects RESTCONF.
func ParseDialect(name string) (Dialect, error) {
	if name == "" {
		return RESTCONF, nil
	}
	d, ok := lo.Find(Dialects, func(d Dialect) bool {
		return strings.EqualFold(d.Name(), name)
	})
	if !ok {
		return nil, fmt.Errorf("unknown API dialect %q (options: %s)", name, strings.Join(DialectNames(), ", "))
	}
	return d, nil
}

func DialectNames() []string {
	return lo.Map(Dialects, func(d Dialect, _ int) string { return d.Name() })
}

type deviceEntry struct {
	Name *string `json:"name"`
}

type deviceListEnvelope struct {
	Devices *[]deviceEntry `json:"tailf-ncs:device"`
}

type restconf struct{}

func (restconf) Name() string        { return "restconf" }
func (restconf) MediaType() string   { return "application/yang-data+json" }
func (restconf) AcceptTypes() string { return "application/yang-data+json" }

func (restconf) SyncFromPath() string {
	return "/restconf/data/tailf-ncs:devices/sync-from"
}

func (restconf) DeviceListPath() string {
	return "/restconf/data/tailf-ncs:devices/device"
}

// content=config leaves out operational data
func (restconf) DeviceConfigPath(device string) string {
	return fmt.Sprintf("/restconf/data/tailf-ncs:devices/device=%s/config?content=config", url.PathEscape(device))
}

func (restconf) ParseDeviceList(body HTTPBody) ([]string, error) {
	var envelope deviceListEnvelope
	if err := decodeStrict(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Key: DeviceListKey, Err: err}
	}
	return deviceNames(envelope)
}

func (restconf) ParseDeviceConfig(body HTTPBody) (map[string]any, error) {
	return extractObject(body, DeviceConfigKey)
}

type legacyREST struct{}

func (legacyREST) Name() string      { return "legacy" }
func (legacyREST) MediaType() string { return "application/vnd.yang.data+json" }
func (legacyREST) AcceptTypes() string {
	return "application/vnd.yang.data+json, application/vnd.yang.collection+json"
}

func (legacyREST) SyncFromPath() string {
	return "/api/running/devices/_operations/sync-from"
}

func (legacyREST) DeviceListPath() string {
	return "/api/running/devices/device"
}

func (legacyREST) DeviceConfigPath(device string) string {
	return fmt.Sprintf("/api/running/devices/device/%s/config?deep", url.PathEscape(device))
}

func (legacyREST) ParseDeviceList(body HTTPBody) ([]string, error) {
	var envelope struct {
		Collection *deviceListEnvelope `json:"collection"`
	}
	if err := decodeStrict(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Key: CollectionKey, Err: err}
	}
	if envelope.Collection == nil {
		return nil, &MalformedResponseError{Key: CollectionKey}
	}
	return deviceNames(*envelope.Collection)
}

func (legacyREST) ParseDeviceConfig(body HTTPBody) (map[string]any, error) {
	return extractObject(body, DeviceConfigKey)
}

func deviceNames(envelope deviceListEnvelope) ([]string, error) {
	if envelope.Devices == nil {
		return nil, &MalformedResponseError{Key: DeviceListKey}
	}
	names := make([]string, 0, len(*envelope.Devices))
	for i, dev := range *envelope.Devices {
		if dev.Name == nil {
			return nil, &MalformedResponseError{
				Key: DeviceListKey,
				Err: fmt.Errorf("entry %d has no name", i),
			}
		}
		names = append(names, *dev.Name)
	}
	return names, nil
}

// extractObject pulls a single JSON object out of the top-level envelope,
// keeping numbers as json.Number so they are re-serialized verbatim.
func extractObject(body HTTPBody, key string) (map[string]any, error) {
	var envelope map[string]json.RawMessage
	if err := decodeStrict(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Key: key, Err: err}
	}
	raw, ok := envelope[key]
	if !ok {
		return nil, &MalformedResponseError{Key: key}
	}
	var doc map[string]any
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, &MalformedResponseError{Key: key, Err: err}
	}
	if doc == nil {
		return nil, &MalformedResponseError{Key: key, Err: fmt.Errorf("value is not an object")}
	}
	return doc, nil
}

func decodeStrict(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("empty body")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}
