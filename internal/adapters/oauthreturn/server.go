package oauthreturn

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

var ErrReturnTimeout = errors.New("timed out waiting for oauth return")

// CallbackServer receives the consent-flow redirect on localhost. One
// return settles the flow; later hits get a plain error page.
type CallbackServer struct {
	listener   net.Listener
	server     *http.Server
	resultCh   chan Return
	resultOnce sync.Once
	closeOnce  sync.Once
}

// StartCallbackServer listens on listenAddr (default 127.0.0.1:0) and
// serves /oauth/callback until the first parseable return arrives.
func StartCallbackServer(listenAddr string) (*CallbackServer, error) {
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen oauth return server: %w", err)
	}

	cb := &CallbackServer{
		listener: listener,
		resultCh: make(chan Return, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", cb.handleCallback)

	cb.server = &http.Server{Handler: mux}

	go func() {
		if serveErr := cb.server.Serve(cb.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			cb.trySendResult(Return{Err: serveErr})
		}
	}()

	return cb, nil
}

// RedirectURI is the value to hand the backend as redirect_uri.
func (c *CallbackServer) RedirectURI() string {
	if tcpAddr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d/oauth/callback", tcpAddr.Port)
	}
	return "http://localhost/oauth/callback"
}

// WaitForReturn blocks until a return arrives or the timeout elapses.
// The server is shut down either way.
func (c *CallbackServer) WaitForReturn(timeout time.Duration) (Return, error) {
	defer c.Close()

	select {
	case result := <-c.resultCh:
		if result.Err != nil {
			return result, result.Err
		}
		return result, nil
	case <-time.After(timeout):
		return Return{}, ErrReturnTimeout
	}
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}

func (c *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	result, err := ParseReturn(r.URL.Query())
	if err != nil {
		http.Error(w, "missing oauth return parameters", http.StatusBadRequest)
		return
	}

	c.trySendResult(result)

	if result.Err != nil {
		http.Error(w, "connection failed, return to the terminal", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Connection complete. You can close this window."))
}

func (c *CallbackServer) trySendResult(result Return) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}
