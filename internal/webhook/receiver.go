package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"

	domainErrors "github.com/SolanaRemix/terminal/internal/errors"
	"github.com/SolanaRemix/terminal/internal/logger"
	"github.com/SolanaRemix/terminal/internal/models"
)

const (
	// MaxPayloadBytes is the largest delivery GitHub sends.
	MaxPayloadBytes = 25 << 20

	eventIssueComment = "issue_comment"
	actionCreated     = "created"
)

// Dispatcher runs a command to completion.
type Dispatcher interface {
	Dispatch(ctx context.Context, cc models.CommandContext) error
}

// Receiver verifies GitHub deliveries and forwards /terminal comments to a
// Dispatcher. Once a delivery is authentic it is always acknowledged with 200,
// whatever the command outcome, so GitHub does not redeliver it.
type Receiver struct {
	secret     []byte
	dispatcher Dispatcher
}

func NewReceiver(secret string, dispatcher Dispatcher) *Receiver {
	return &Receiver{
		secret:     []byte(secret),
		dispatcher: dispatcher,
	}
}

func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	event := github.WebHookType(r)
	ctx := logger.With(r.Context(),
		"delivery_id", github.DeliveryID(r),
		"event", event,
	)

	payload, err := rc.verify(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn(ctx, "delivery too large", "limit", tooLarge.Limit)
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.Warn(ctx, "rejected delivery", "error", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	if event != eventIssueComment {
		logger.Debug(ctx, "ignoring event")
		w.WriteHeader(http.StatusOK)
		return
	}

	parsed, err := github.ParseWebHook(event, payload)
	if err != nil {
		logger.Warn(ctx, "malformed delivery", "error", domainErrors.ErrPayloadInvalid.WithError(err))
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}
	comment, ok := parsed.(*github.IssueCommentEvent)
	if !ok || comment.GetAction() != actionCreated {
		w.WriteHeader(http.StatusOK)
		return
	}

	cc := models.CommandContext{
		Body:        comment.GetComment().GetBody(),
		Repo:        comment.GetRepo().GetFullName(),
		IssueNumber: comment.GetIssue().GetNumber(),
	}
	if !models.HasCommandPrefix(cc.Body) {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx = logger.With(ctx, "repo", cc.Repo, "issue", cc.IssueNumber)
	logger.Info(ctx, fmt.Sprintf("[terminal] %s#%d: %s", cc.Repo, cc.IssueNumber, strings.TrimSpace(cc.Body)))

	// GitHub closes the connection after 10s; the command keeps running.
	start := time.Now()
	if err := rc.dispatcher.Dispatch(context.WithoutCancel(ctx), cc); err != nil {
		logger.Error(ctx, "command failed", err, "duration", time.Since(start))
	} else {
		logger.Info(ctx, "command handled", "duration", time.Since(start))
	}

	w.WriteHeader(http.StatusOK)
}

// verify reads the body, requires the delivery headers and checks
// X-Hub-Signature-256, returning the JSON payload.
func (rc *Receiver) verify(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		return nil, err
	}

	if github.WebHookType(r) == "" || github.DeliveryID(r) == "" {
		return nil, domainErrors.ErrSignatureInvalid.WithContext("reason", "missing headers")
	}

	signature := r.Header.Get(github.SHA256SignatureHeader)
	if signature == "" || len(rc.secret) == 0 {
		return nil, domainErrors.ErrSignatureInvalid.WithContext("reason", "missing signature or secret")
	}

	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		contentType = "application/json"
	}

	payload, err := github.ValidatePayloadFromBody(contentType, bytes.NewReader(body), signature, rc.secret)
	if err != nil {
		return nil, domainErrors.ErrSignatureInvalid.WithError(err)
	}
	return payload, nil
}
