package spotify

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

const (
	LoginAddr   = "127.0.0.1:8888"
	RedirectURI = "http://" + LoginAddr + "/callback"
)

// The fragment never reaches the server, so the callback page posts it back.
const callbackPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Hall of Fame</title></head>
<body style="background:#1e1a16;color:#eee;font-family:sans-serif">
<p id="msg">Signing in...</p>
<script>
fetch("/token?" + location.hash.substring(1)).then(function (r) {
  document.getElementById("msg").textContent = r.ok
    ? "Logged in. You can close this tab and return to the hall."
    : "Login failed.";
});
</script>
</body></html>`

// LoginServer completes the implicit grant on a loopback address and hands
// the token to the app exactly once.
type LoginServer struct {
	addr   string
	router *mux.Router
	tokens chan string
	once   sync.Once
}

func NewLoginServer(addr string) *LoginServer {
	s := &LoginServer{
		addr:   addr,
		router: mux.NewRouter(),
		tokens: make(chan string, 1),
	}
	s.router.HandleFunc("/callback", s.handleCallback).Methods(http.MethodGet)
	s.router.HandleFunc("/token", s.handleToken).Methods(http.MethodGet)
	return s
}

// Handler exposes the routes for tests.
func (s *LoginServer) Handler() http.Handler { return s.router }

// Token delivers the first valid token received.
func (s *LoginServer) Token() <-chan string { return s.tokens }

// Serve listens until ctx is canceled.
func (s *LoginServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.Printf("[Spotify] login callback listening on http://%s", s.addr)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *LoginServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	log.Printf("[Spotify] %s %s", r.Method, r.URL.Path)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(callbackPage))
}

func (s *LoginServer) handleToken(w http.ResponseWriter, r *http.Request) {
	log.Printf("[Spotify] %s %s", r.Method, r.URL.Path)
	token, ok := ParseFragment(r.URL.RawQuery)
	if !ok {
		http.Error(w, "missing bearer token", http.StatusBadRequest)
		return
	}
	s.once.Do(func() { s.tokens <- token })
	w.WriteHeader(http.StatusNoContent)
}
