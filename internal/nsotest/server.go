// Package nsotest provides an in-process stand-in for the NSO northbound API
// so the client and the generator can be tested without a real orchestrator.
// It serves both the RESTCONF and the legacy REST dialect.
package nsotest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin"
)

// Request is what the server saw for a single call.
type Request struct {
	Method      string
	Path        string
	RawQuery    string
	Accept      string
	ContentType string
	BodyLength  int64
}

type Server struct {
	*httptest.Server
	Username string
	Password string

	// Devices is returned, in order, by the device list endpoint.
	Devices []string
	// Configs maps a device to the raw JSON body of its config endpoint.
	// Devices without an entry answer 404.
	Configs map[string]string

	// SyncStatus and ListStatus override the status of those endpoints
	// when non-zero.
	SyncStatus int
	ListStatus int
	// DeviceListBody replaces the generated device list body when set.
	DeviceListBody string

	mu       sync.Mutex
	requests []Request
}

// NewServer() starts a fake NSO speaking the named dialect ("restconf" or
// "legacy"). The caller must Close() it.
func NewServer(dialect string) *Server {
	s := &Server{
		Username: DefaultUsername,
		Password: DefaultPassword,
		Configs:  map[string]string{},
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer, s.record, s.authenticate)
	switch dialect {
	case "legacy":
		router.Post("/api/running/devices/_operations/sync-from", s.syncFrom)
		router.Get("/api/running/devices/device", s.deviceList(true))
		router.Get("/api/running/devices/device/{name}/config", s.deviceConfig)
	default:
		router.Post("/restconf/data/tailf-ncs:devices/sync-from", s.syncFrom)
		router.Get("/restconf/data/tailf-ncs:devices/device", s.deviceList(false))
		router.Get("/restconf/data/tailf-ncs:devices/device={name}/config", s.deviceConfig)
	}
	s.Server = httptest.NewServer(router)
	return s
}

// Requests() returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Paths() returns the path of every request received so far, in order.
func (s *Server) Paths() []string {
	var paths []string
	for _, r := range s.Requests() {
		paths = append(paths, r.Path)
	}
	return paths
}

// SetConfig() stores a well-formed config response for device.
func (s *Server) SetConfig(device string, config map[string]any) {
	b, err := json.Marshal(map[string]any{"tailf-ncs:config": config})
	if err != nil {
		panic(err)
	}
	s.Configs[device] = string(b)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Accept:      r.Header.Get("Accept"),
			ContentType: r.Header.Get("Content-Type"),
			BodyLength:  r.ContentLength,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="restconf"`)
			http.Error(w, "access denied", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) syncFrom(w http.ResponseWriter, r *http.Request) {
	if s.SyncStatus != 0 && s.SyncStatus != http.StatusOK {
		http.Error(w, "sync-from failed", s.SyncStatus)
		return
	}
	results := make([]map[string]any, 0, len(s.Devices))
	for _, dev := range s.Devices {
		results = append(results, map[string]any{"device": dev, "result": true})
	}
	writeJSON(w, map[string]any{
		"tailf-ncs:output": map[string]any{"sync-result": results},
	})
}

func (s *Server) deviceList(collection bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ListStatus != 0 && s.ListStatus != http.StatusOK {
			http.Error(w, "device list failed", s.ListStatus)
			return
		}
		if s.DeviceListBody != "" {
			w.Header().Set("Content-Type", "application/yang-data+json")
			_, _ = w.Write([]byte(s.DeviceListBody))
			return
		}
		entries := make([]map[string]string, 0, len(s.Devices))
		for _, dev := range s.Devices {
			entries = append(entries, map[string]string{"name": dev})
		}
		var body any = map[string]any{"tailf-ncs:device": entries}
		if collection {
			body = map[string]any{"collection": body}
		}
		writeJSON(w, body)
	}
}

func (s *Server) deviceConfig(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, ok := s.Configs[name]
	if !ok {
		http.Error(w, "no such device", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/yang-data+json")
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/yang-data+json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
