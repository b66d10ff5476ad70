package gena

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nyxio/upnpcp/internal/logging"
)

// notifyReadTimeout bounds how long a NOTIFY connection may take to
// send its request, so a stalled or slow-loris CALLBACK client can't
// hang a receiver goroutine indefinitely.
const notifyReadTimeout = 30 * time.Second

// NotifyEvent is the fully parsed form of one NOTIFY request delivered
// to an EventHandler.
type NotifyEvent struct {
	UDN        string
	ServiceID  string
	SID        string
	Seq        int
	Properties []Property
}

// EventHandler dispatches a parsed NotifyEvent. Returning an
// *UnknownSubscriptionError causes the Receiver to answer 412
// Precondition Failed; any other error answers 500.
type EventHandler func(NotifyEvent) error

// Receiver is the local HTTP server that accepts NOTIFY requests on
// route /{udn}/{serviceId}, the path every CALLBACK URL advertises at
// SUBSCRIBE time.
type Receiver struct {
	http.Server

	logger   logging.Logger
	handler  EventHandler
	listener net.Listener
}

// NewReceiver builds a Receiver that dispatches parsed events to
// handler. It does not start listening until Start is called.
func NewReceiver(handler EventHandler, logger logging.Logger) *Receiver {
	if logger == nil {
		logger = logging.Nop()
	}
	r := &Receiver{logger: logger, handler: handler}

	router := mux.NewRouter()
	router.HandleFunc("/{udn}/{serviceId}", r.handleNotify).Methods("NOTIFY")
	r.Handler = router
	r.ReadTimeout = notifyReadTimeout
	r.ReadHeaderTimeout = notifyReadTimeout

	return r
}

// Start binds addr and begins serving in a background goroutine. The
// bound address is available afterward via Addr.
func (r *Receiver) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	r.listener = ln
	go func() {
		if err := r.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("gena receiver stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the address the Receiver is listening on, valid after
// Start returns successfully.
func (r *Receiver) Addr() net.Addr {
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Stop gracefully shuts the Receiver down.
func (r *Receiver) Stop(ctx context.Context) error {
	return r.Shutdown(ctx)
}

func (r *Receiver) handleNotify(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	nt := req.Header.Get("NT")
	nts := req.Header.Get("NTS")
	sid := req.Header.Get("SID")
	seqHeader := req.Header.Get("SEQ")

	if nt == "" || nts == "" || seqHeader == "" {
		r.logger.Debug("rejecting NOTIFY missing required header",
			zap.String("nt", nt), zap.String("nts", nts), zap.String("seq", seqHeader))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if nt != "upnp:event" || nts != "upnp:propchange" || sid == "" {
		r.logger.Debug("rejecting NOTIFY with mismatched NT/NTS or missing SID",
			zap.String("nt", nt), zap.String("nts", nts), zap.String("sid", sid))
		w.WriteHeader(http.StatusPreconditionFailed)
		return
	}

	seq, err := strconv.Atoi(seqHeader)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer req.Body.Close()

	props, err := parsePropertySet(body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	event := NotifyEvent{
		UDN:        vars["udn"],
		ServiceID:  vars["serviceId"],
		SID:        sid,
		Seq:        seq,
		Properties: props,
	}

	if err := r.handler(event); err != nil {
		var unknown *UnknownSubscriptionError
		if errors.As(err, &unknown) {
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}
		r.logger.Error("event handler failed", zap.Error(err), zap.String("sid", sid))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// CallbackURL builds the CALLBACK URL a Subscribe request advertises
// for a given udn/serviceId, rooted at the Receiver's own base URL
// (typically http://<local-ip>:<port>).
func CallbackURL(base, udn, serviceID string) string {
	return strings.TrimRight(base, "/") + "/" + udn + "/" + serviceID
}
