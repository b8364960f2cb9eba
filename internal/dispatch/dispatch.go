// Package dispatch turns action digests and profile edits into exactly one
// request each and converts every outcome into a snapshot update.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jwebster45206/mythgarden-console/internal/logger"
	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

const (
	ActionPath   = "/action"
	UserDataPath = "/user_data"
	SettingsPath = "/settings"
	RestartPath  = "/kys"

	// GenericFailure is shown when a request fails without a server explanation.
	GenericFailure = "⚠️ Something went wrong. Please try again."
)

// ErrApplication marks a 200 response whose body carried an error.
var ErrApplication = errors.New("server rejected request")

// Transport is the HTTP surface the dispatcher needs.
type Transport interface {
	PostJSON(ctx context.Context, path, requestID string, body any) ([]byte, error)
	GetJSON(ctx context.Context, path, requestID string) ([]byte, error)
}

// Result is the outcome of one request. Partial goes to the store as is;
// Local holds messages synthesized on this side, to be appended to the
// message list. Err is the cause of a failure, kept for logging.
type Result struct {
	Digest    string
	RequestID string
	// Seq is the order the request was sent in. Results are applied in the
	// order they arrive, which may differ.
	Seq     uint64
	Partial snapshot.Partial
	Local   []snapshot.Message
	Err     error
}

// Failed reports whether the request did not change game state.
func (r Result) Failed() bool {
	return r.Err != nil
}

type Dispatcher struct {
	transport Transport
	log       *slog.Logger
	seq       atomic.Uint64
}

func New(transport Transport, log *slog.Logger) *Dispatcher {
	return &Dispatcher{transport: transport, log: log}
}

type actionRequest struct {
	Digest string `json:"uniqueDigest"`
}

// errorEnvelope detects application errors before the body is treated as
// a partial update.
type errorEnvelope struct {
	Error    json.RawMessage    `json:"error"`
	Messages []snapshot.Message `json:"messages"`
}

// Dispatch sends one action request. It never fails: every outcome is
// expressed in the returned Result.
func (d *Dispatcher) Dispatch(ctx context.Context, digest actions.Digest) Result {
	wire := digest.String()
	res := d.begin(wire)

	body, err := d.transport.PostJSON(ctx, ActionPath, res.RequestID, actionRequest{Digest: wire})
	if err != nil {
		return d.fail(res, err)
	}
	return d.decode(res, body, func(p *snapshot.Partial) error {
		return json.Unmarshal(body, p)
	})
}

// DispatchWire parses a wire digest and dispatches it. A malformed digest
// fails locally without a request.
func (d *Dispatcher) DispatchWire(ctx context.Context, wire string) Result {
	digest, err := actions.ParseDigest(wire)
	if err != nil {
		res := d.begin(wire)
		return d.fail(res, err)
	}
	return d.Dispatch(ctx, digest)
}

func (d *Dispatcher) begin(digest string) Result {
	return Result{
		Digest:    digest,
		RequestID: uuid.NewString(),
		Seq:       d.seq.Add(1),
	}
}

// decode interprets a 200 body. fill extracts the partial for a success.
func (d *Dispatcher) decode(res Result, body []byte, fill func(*snapshot.Partial) error) Result {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return d.fail(res, fmt.Errorf("malformed response: %w", err))
	}

	if len(env.Error) > 0 && string(env.Error) != "null" {
		text := errorText(env.Error)
		res.Err = fmt.Errorf("%w: %s", ErrApplication, text)
		if env.Messages != nil {
			res.Partial = snapshot.Partial{Messages: env.Messages}
		} else {
			res.Local = []snapshot.Message{snapshot.NewLocalMessage(text, true)}
		}
		d.logResult(res)
		return res
	}

	if err := fill(&res.Partial); err != nil {
		return d.fail(res, fmt.Errorf("malformed response: %w", err))
	}
	d.logResult(res)
	return res
}

func (d *Dispatcher) fail(res Result, err error) Result {
	res.Err = err
	res.Partial = snapshot.Partial{}
	res.Local = []snapshot.Message{snapshot.NewLocalMessage(GenericFailure, true)}
	d.logResult(res)
	return res
}

func (d *Dispatcher) logResult(res Result) {
	log := logger.WithRequestID(d.log, res.RequestID).With("digest", res.Digest, "seq", res.Seq)
	if res.Err != nil {
		logger.WithError(log, res.Err).Warn("Request failed")
		return
	}
	log.Info("Request applied")
}

func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	return GenericFailure
}
