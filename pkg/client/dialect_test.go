package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, RESTCONF, d)

	d, err = ParseDialect("LEGACY")
	require.NoError(t, err)
	assert.Equal(t, LegacyREST, d)

	_, err = ParseDialect("netconf")
	assert.ErrorContains(t, err, "restconf, legacy")
}

func TestDeviceConfigPathEscapesName(t *testing.T) {
	assert.Equal(t,
		"/restconf/data/tailf-ncs:devices/device=core%2F1/config?content=config",
		RESTCONF.DeviceConfigPath("core/1"))
	assert.Equal(t,
		"/api/running/devices/device/edge%20a/config?deep",
		LegacyREST.DeviceConfigPath("edge a"))
}

func TestParseDeviceList(t *testing.T) {
	names, err := RESTCONF.ParseDeviceList(HTTPBody(`{"tailf-ncs:device": []}`))
	require.NoError(t, err)
	assert.Empty(t, names)

	names, err = LegacyREST.ParseDeviceList(HTTPBody(`{"collection": {"tailf-ncs:device": [{"name": "a"}, {"name": "b"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	bad := map[string]struct {
		dialect Dialect
		body    string
	}{
		"restconf without key":   {RESTCONF, `{}`},
		"restconf entry no name": {RESTCONF, `{"tailf-ncs:device": [{"address": "10.0.0.1"}]}`},
		"restconf empty body":    {RESTCONF, ``},
		"legacy without wrapper": {LegacyREST, `{"tailf-ncs:device": [{"name": "a"}]}`},
		"legacy without key":     {LegacyREST, `{"collection": {}}`},
	}
	for name, tt := range bad {
		_, err := tt.dialect.ParseDeviceList(HTTPBody(tt.body))
		assert.True(t, IsMalformedResponse(err), name)
	}
}

func TestParseDeviceConfigKeepsNulls(t *testing.T) {
	doc, err := RESTCONF.ParseDeviceConfig(HTTPBody(`{"tailf-ncs:config": {"a": 1, "b": null, "c": [null]}}`))
	require.NoError(t, err)
	assert.Contains(t, doc, "b")
	assert.Nil(t, doc["b"])
	assert.Equal(t, []any{nil}, doc["c"])
}

func TestParseSyncResults(t *testing.T) {
	results := ParseSyncResults(map[string]any{
		"tailf-ncs:output": map[string]any{
			"sync-result": []any{
				map[string]any{"device": "r1", "result": true},
				map[string]any{"device": "r2", "result": "false", "info": "connection refused"},
				"garbage",
			},
		},
	})
	assert.Equal(t, []SyncResult{
		{Device: "r1", Result: true},
		{Device: "r2", Result: false, Info: "connection refused"},
	}, results)

	assert.Nil(t, ParseSyncResults(map[string]any{}))
}
