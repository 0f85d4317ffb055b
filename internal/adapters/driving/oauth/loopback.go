// Package oauth receives OAuth authorization redirects on a loopback
// address and opens the user's browser.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// CallbackPath is the path the provider redirects to.
const CallbackPath = "/callback"

// Loopback is a one-shot HTTP server on 127.0.0.1 that waits for the
// authorization code of a single request.
type Loopback struct {
	mu       sync.Mutex
	state    string
	port     int
	done     bool
	results  chan result
	server   *http.Server
	listener net.Listener
}

type result struct {
	code string
	err  error
}

// Listen starts a loopback server. Port 0 picks a free port. The redirect
// must carry state or it is rejected.
func Listen(port int, state string) (*Loopback, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	l := &Loopback{
		state:    state,
		results:  make(chan result, 1),
		listener: listener,
	}
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		l.port = tcpAddr.Port
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, l.handle)
	l.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := l.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.finish(result{err: err})
		}
	}()
	return l, nil
}

// finish delivers the first result and drops the rest.
func (l *Loopback) finish(r result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return false
	}
	l.done = true
	l.results <- r
	return true
}

func (l *Loopback) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var res result
	switch {
	case q.Get("error") != "":
		res.err = fmt.Errorf("authorization denied: %s %s", q.Get("error"), q.Get("error_description"))
	case q.Get("state") != l.state:
		res.err = errors.New("authorization failed: state mismatch")
	case q.Get("code") == "":
		res.err = errors.New("authorization failed: no code received")
	default:
		res.code = q.Get("code")
	}

	if !l.finish(res) {
		http.Error(w, "authorization already completed", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if res.err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, page("Authorization failed", res.err.Error()))
		return
	}
	fmt.Fprint(w, page("Authorization successful", "You can close this window and return to mailpage."))
}

// Wait blocks until a redirect arrives or ctx ends.
func (l *Loopback) Wait(ctx context.Context) (string, error) {
	select {
	case r := <-l.results:
		return r.code, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}
}

// Close shuts the server down.
func (l *Loopback) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return l.server.Shutdown(ctx)
}

// Port returns the port the server listens on.
func (l *Loopback) Port() int {
	return l.port
}

// RedirectURI returns the URI to register as the OAuth redirect.
func (l *Loopback) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", l.port, CallbackPath)
}

// NewState returns a random value for the OAuth state parameter.
func NewState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func page(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>mailpage</title>
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; display: flex;
               justify-content: center; align-items: center; height: 100vh; margin: 0; background: #FAFAFA; }
        .box { text-align: center; background: white; padding: 48px 64px; border-radius: 16px;
               border: 1px solid #C7C8CC; }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="box">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser to url.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
