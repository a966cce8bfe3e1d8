package main

import (
	"context"
	"net"
	"net/http"
)

// newServer builds the HTTP server. Request contexts derive from a base
// context that is cancelled when Shutdown starts, so long-lived streams such
// as the event feed end instead of holding shutdown open.
func newServer(addr string, handler http.Handler) *http.Server {
	base, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancel)
	return srv
}
