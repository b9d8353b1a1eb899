package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// HTTP aliases for readibility
type HTTPHeader map[string]string
type HTTPBody []byte

func (h HTTPHeader) BasicAuth(username string, password string) HTTPHeader {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	h["Authorization"] = fmt.Sprintf("Basic %s", creds)
	return h
}

func (h HTTPHeader) ContentType(contentType string) HTTPHeader {
	h["Content-Type"] = contentType
	return h
}

func (h HTTPHeader) Accept(mediaType string) HTTPHeader {
	h["Accept"] = mediaType
	return h
}

// MakeRequest() is a wrapper function that condenses simple HTTP
// requests done to a single call. It expects an HTTP client, URL, HTTP
// method, request body, and request headers.
//
// Returns a HTTP response object, response body as byte array, and any
// error that may have occurred with making the request. The status code
// is not checked here.
func MakeRequest(ctx context.Context, client *http.Client, url string, httpMethod string, body HTTPBody, header HTTPHeader) (*http.Response, HTTPBody, error) {
	if client == nil {
		client = http.DefaultClient
	}
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, httpMethod, url, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create new HTTP request: %w", err)
	}
	req.Header.Add("User-Agent", "nsoinv")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make request: %w", err)
	}
	b, err := io.ReadAll(res.Body)
	if cerr := res.Body.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("could not close response resource")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return res, b, nil
}
