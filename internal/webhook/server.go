package webhook

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/SolanaRemix/terminal/internal/logger"
)

const (
	// LivenessMessage answers every request that is not a webhook delivery.
	LivenessMessage = "CyberAi Terminal"

	WebhookPath = "/webhooks"

	DefaultShutdownTimeout = 15 * time.Second
)

// NewRouter routes POST /webhooks to receiver and everything else to the
// liveness response.
func NewRouter(receiver http.Handler) *mux.Router {
	router := mux.NewRouter()
	router.Handle(WebhookPath, receiver).Methods(http.MethodPost)
	router.NotFoundHandler = http.HandlerFunc(liveness)
	router.MethodNotAllowedHandler = http.HandlerFunc(liveness)
	return router
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(LivenessMessage))
}

type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			// Long enough for a handler to hit its own timeout first.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// Run listens on the configured address until ctx is cancelled, then drains
// in-flight deliveries.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "webhook server listening", "addr", ln.Addr().String(), "path", WebhookPath)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "shutting down webhook server", "timeout", s.shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
