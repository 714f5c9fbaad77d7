// Copyright 2026 The go-probe Authors
// This file is part of the go-probe library.
//
// The go-probe library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probe library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probe library. If not, see <http://www.gnu.org/licenses/>.

package agentapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/julienschmidt/httprouter"
	"github.com/probechain/agentledger/params"
	"github.com/rs/cors"
)

// Config holds the settings of the HTTP endpoint.
type Config struct {
	HTTPHost    string   // Interface to listen on; empty disables the server
	HTTPPort    int      // TCP port to listen on
	CORSOrigins []string // Origins allowed to issue cross-origin requests
}

// DefaultConfig contains reasonable default settings.
var DefaultConfig = Config{
	HTTPHost: params.DefaultHTTPHost,
	HTTPPort: params.DefaultHTTPPort,
}

// Endpoint resolves the listening address.
func (c *Config) Endpoint() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

// Server serves JSON-RPC over HTTP. Calls are posted to the root path;
// GET /health reports the ledger head for load balancers.
type Server struct {
	config  Config
	rpc     *rpc.Server
	handler http.Handler

	srv      *http.Server
	listener net.Listener
}

// NewServer registers apis on a fresh RPC server. backend answers the
// health endpoint.
func NewServer(backend Backend, apis []rpc.API, config Config) (*Server, error) {
	handler := rpc.NewServer()
	for _, api := range apis {
		if err := handler.RegisterName(api.Namespace, api.Service); err != nil {
			handler.Stop()
			return nil, err
		}
		log.Debug("Registered RPC service", "namespace", api.Namespace)
	}
	router := httprouter.New()
	router.Handler(http.MethodPost, "/", handler)
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		head := backend.CurrentHeader()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]uint64{
			"chainId": backend.ChainID(),
			"number":  head.Number,
			"time":    head.Time,
		})
	})
	return &Server{
		config:  config,
		rpc:     handler,
		handler: newCorsHandler(router, config.CORSOrigins),
	}, nil
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start opens the listening socket and serves requests in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Endpoint())
	if err != nil {
		return err
	}
	s.listener = listener
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.srv.Serve(listener)
	log.Info("HTTP server started", "endpoint", "http://"+listener.Addr().String(), "cors", s.config.CORSOrigins)
	return nil
}

// Stop shuts down the HTTP server and the RPC services behind it.
func (s *Server) Stop() {
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(ctx)
		log.Info("HTTP server stopped", "endpoint", s.listener.Addr())
	}
	s.rpc.Stop()
}
