package probe

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultStatusTimeout = 5 * time.Second
	shutdownTimeout      = 5 * time.Second
)

type runner interface {
	Run(ctx context.Context) (*Result, error)
}

// Handler serves the probe status. Every request runs its own probe with its
// own connection.
type Handler struct {
	probe   runner
	timeout time.Duration
}

func NewStatusHandler(p runner, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = DefaultStatusTimeout
	}

	return &Handler{probe: p, timeout: timeout}
}

func (h *Handler) Router() *mux.Router {
	m := mux.NewRouter()
	m.Path("/status").Methods(http.MethodGet).HandlerFunc(h.HandleStatus)
	return m
}

func (h *Handler) HandleStatus(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	var status *Status
	code := http.StatusOK

	result, err := h.probe.Run(ctx)
	if err != nil {
		log.WithFields(log.Fields{"kind": "probe", "name": "postgres", "err": err}).Warn("not ready")
		status = StatusFromError(err)
		code = http.StatusServiceUnavailable
	} else {
		status = StatusFromResult(result)
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(code)

	_ = json.NewEncoder(res).Encode(status)
}

// RunStatusServer blocks until ctx is cancelled or the listener fails.
func RunStatusServer(ctx context.Context, h *Handler, listenAddr string) error {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", listenAddr)
	}

	return ServeStatus(ctx, h, ln)
}

// ServeStatus serves status requests on ln. Once ctx is cancelled it stops
// accepting and returns only after in-flight requests have been answered.
func ServeStatus(ctx context.Context, h *Handler, ln net.Listener) error {
	server := http.Server{
		Handler:           h.Router(),
		ReadHeaderTimeout: h.timeout,
	}

	done := make(chan struct{})
	stopped := make(chan error, 1)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}

		log.WithField("kind", "probe").Info("shutting down status server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.timeout+shutdownTimeout)
		defer cancel()
		stopped <- server.Shutdown(shutdownCtx)
	}()

	err := server.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		close(done)
		return err
	}

	return <-stopped
}
