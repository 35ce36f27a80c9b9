package extension

import (
	"context"
	"io/ioutil"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/dolittle/lambda-log-forwarder/pkg/logforwarder"
	"github.com/dolittle/lambda-log-forwarder/pkg/middleware"
	"github.com/dolittle/lambda-log-forwarder/pkg/utils"
)

type Forwarder interface {
	Forward(ctx context.Context, batch logforwarder.Batch) error
	Ready() bool
}

// Listener receives the log batches pushed by the Logs API.
type Listener struct {
	logContext logrus.FieldLogger
	forwarder  Forwarder
	srv        *http.Server
	addr       string
}

func NewListener(logContext logrus.FieldLogger, forwarder Forwarder, addr string) *Listener {
	l := &Listener{
		logContext: logContext.WithField("context", "logs-listener"),
		forwarder:  forwarder,
		addr:       addr,
	}

	l.srv = &http.Server{
		Handler:      l.Handler(),
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return l
}

func (l *Listener) Handler() http.Handler {
	router := mux.NewRouter()
	stdChain := alice.New(middleware.EnforceJSONHandler)
	router.Handle("/", stdChain.ThenFunc(l.ReceiveLogs)).Methods(http.MethodPost)
	return router
}

// Start binds the address before returning so the subscription only happens
// once batches can be received.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return err
	}

	l.logContext.WithField("addr", ln.Addr().String()).Info("listening for log batches")
	go func() {
		if err := l.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.logContext.WithField("error", err).Error("logs listener stopped")
		}
	}()
	return nil
}

func (l *Listener) Shutdown(ctx context.Context) error {
	return l.srv.Shutdown(ctx)
}

func (l *Listener) ReceiveLogs(w http.ResponseWriter, r *http.Request) {
	if !l.forwarder.Ready() {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Not ready")
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		l.logContext.WithFields(logrus.Fields{
			"error":   err,
			"context": "reading batch",
		}).Error("receive logs")
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	batch, err := DecodeBatch(body)
	if err != nil {
		l.logContext.WithFields(logrus.Fields{
			"error":   err,
			"context": "decoding batch",
		}).Error("receive logs")
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse log batch")
		return
	}

	err = l.forwarder.Forward(r.Context(), batch)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to write to stream")
		return
	}

	utils.RespondNoContent(w, http.StatusOK)
}
