// This file contains a series of tests that are meant to ensure correct
// behaviors and responses from a real NSO instance. They are skipped unless
// -nso.host is given, e.g.
//
//	go test ./pkg/client -run Compat -args -nso.host 198.18.134.28 -nso.username developer -nso.password C1sco12345
package client_test

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"testing"
	"time"

	"github.com/OpenCHAMI/nsoinv/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nsoHost     = flag.String("nso.host", "", "set the NSO host used for the compatibility tests")
	nsoPort     = flag.Int("nso.port", 8080, "set the NSO port")
	nsoSSL      = flag.Bool("nso.ssl", false, "use HTTPS")
	nsoUsername = flag.String("nso.username", "admin", "set the NSO username used for the tests")
	nsoPassword = flag.String("nso.password", "admin", "set the NSO password used for the tests")
	nsoDialect  = flag.String("nso.dialect", "restconf", "set the NSO API dialect")
)

func liveClient(t *testing.T) *client.Client {
	t.Helper()
	if *nsoHost == "" {
		t.Skip("no NSO host given")
	}
	dialect, err := client.ParseDialect(*nsoDialect)
	require.NoError(t, err)
	return client.New(*nsoHost, *nsoUsername, *nsoPassword, *nsoPort, *nsoSSL,
		client.WithDialect(dialect),
		client.WithInsecureTLS(),
		client.WithTimeout(30*time.Second),
	)
}

// Simple test to fetch the API root and assert a 200 OK JSON response.
func TestCompatAPIRootAvailability(t *testing.T) {
	c := liveClient(t)
	root := "/restconf"
	if c.Dialect == client.LegacyREST {
		root = "/api"
	}

	res, body, err := c.Get(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, body)
	assert.True(t, json.Valid(body), "expected response body to be valid JSON")
}

// Lists the devices and fetches the first configuration to make sure the
// envelopes this tool expects are the ones the instance returns.
func TestCompatDeviceEnvelopes(t *testing.T) {
	c := liveClient(t)

	devices, err := c.GetDeviceList(context.Background())
	require.NoError(t, err)
	if len(devices) == 0 {
		t.Skip("NSO manages no devices")
	}

	config, err := c.GetDeviceConfig(context.Background(), devices[0])
	require.NoError(t, err)
	assert.NotNil(t, config)
}
