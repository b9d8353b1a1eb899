package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	urlx "github.com/OpenCHAMI/nsoinv/internal/url"
	"github.com/rs/zerolog/log"
)

type Option func(client *Client)

// The 'Client' struct is a wrapper around the default http.Client that
// fronts the three NSO endpoints this tool needs. Every request carries
// HTTP basic auth and the dialect's fixed media-type headers.
type Client struct {
	*http.Client
	BaseURL  string
	Username string
	Password string
	Dialect  Dialect
}

// New() creates a client for the NSO instance at host:port. No request is
// made until one of the API methods is called.
func New(host string, username string, password string, port int, ssl bool, opts ...Option) *Client {
	client := &Client{
		Client:   &http.Client{},
		BaseURL:  urlx.BaseURL(host, port, ssl),
		Username: username,
		Password: password,
		Dialect:  RESTCONF,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func WithDialect(dialect Dialect) Option {
	return func(client *Client) {
		if dialect != nil {
			client.Dialect = dialect
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		if httpClient != nil {
			client.Client = httpClient
		}
	}
}

// WithTimeout() sets an overall deadline per request. A zero duration keeps
// the default behaviour of waiting indefinitely.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		client.Client.Timeout = timeout
	}
}

func WithCertPool(certPool *x509.CertPool) Option {
	// make sure we have a valid cert pool
	if certPool == nil {
		return func(client *Client) {}
	}
	return func(client *Client) {
		client.Client.Transport = newTransport(&tls.Config{RootCAs: certPool})
	}
}

// WithSecureTLS() trusts the PEM-encoded CA bundle at certPath. An unreadable
// file leaves the system roots in place.
func WithSecureTLS(certPath string) Option {
	if certPath == "" {
		return func(client *Client) {}
	}
	cacert, err := os.ReadFile(certPath)
	if err != nil {
		log.Warn().Err(err).Str("path", certPath).Msg("failed to read CA cert; using system CAs")
		return func(client *Client) {}
	}
	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(cacert) {
		log.Warn().Str("path", certPath).Msg("no certificates found in CA cert file; using system CAs")
		return func(client *Client) {}
	}
	return WithCertPool(certPool)
}

func WithInsecureTLS() Option {
	return func(client *Client) {
		client.Client.Transport = newTransport(&tls.Config{InsecureSkipVerify: true})
	}
}

func newTransport(tlsConfig *tls.Config) *http.Transport {
	return &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 30 * time.Second,
	}
}

func (c *Client) Name() string {
	return "nso/" + c.Dialect.Name()
}

func (c *Client) RootEndpoint(endpoint string) string {
	return fmt.Sprintf("%s%s", c.BaseURL, endpoint)
}

// Headers() returns the headers sent with every request.
func (c *Client) Headers() HTTPHeader {
	return HTTPHeader{}.
		BasicAuth(c.Username, c.Password).
		ContentType(c.Dialect.MediaType()).
		Accept(c.Dialect.AcceptTypes())
}
