package commands

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/SolanaRemix/terminal/internal/errors"
	"github.com/SolanaRemix/terminal/internal/i18n"
	"github.com/SolanaRemix/terminal/internal/logger"
	"github.com/SolanaRemix/terminal/internal/models"
	"github.com/SolanaRemix/terminal/internal/vcs"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultBranch  = "main"
)

// Handler executes one command. args are the positional tokens after the
// command name.
type Handler func(ctx context.Context, cc models.CommandContext, args []string) error

type Router struct {
	handlers      map[Kind]Handler
	timeout       time.Duration
	defaultBranch string
}

type Option func(*Router)

// WithTimeout bounds every handler invocation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) {
		r.timeout = d
	}
}

// WithDefaultBranch sets the branch whose head the tag command points at.
func WithDefaultBranch(branch string) Option {
	return func(r *Router) {
		if branch != "" {
			r.defaultBranch = branch
		}
	}
}

// NewRouter builds the command table once, binding every built-in command to
// a handler that talks to GitHub through client.
func NewRouter(client vcs.Client, trans *i18n.Translations, opts ...Option) *Router {
	r := &Router{
		handlers:      make(map[Kind]Handler, len(kinds)),
		timeout:       DefaultTimeout,
		defaultBranch: DefaultBranch,
	}
	for _, opt := range opts {
		opt(r)
	}

	h := &handlers{client: client, trans: trans, defaultBranch: r.defaultBranch}
	r.Register(KindHelp, h.staticReply("reply_help"))
	r.Register(KindStatus, h.status)
	r.Register(KindMerge, h.merge)
	r.Register(KindTag, h.tag)
	for _, k := range []Kind{
		KindScan, KindAudit, KindFix, KindDeploy,
		KindCyberAi, KindSmartContractAudit, KindSmartBrain,
		KindGitAntivirus, KindNodeAudit, KindConflictsResolver,
	} {
		r.Register(k, h.staticReply(ReplyID(k)))
	}
	return r
}

// Register binds kind to handler, replacing any previous binding.
func (r *Router) Register(kind Kind, handler Handler) {
	r.handlers[kind] = handler
}

// Handles reports whether kind has a handler of its own.
func (r *Router) Handles(kind Kind) bool {
	_, ok := r.handlers[kind]
	return ok
}

// Resolve returns the kind that will run for body. Unknown, missing and
// unregistered commands resolve to help.
func (r *Router) Resolve(body string) (Kind, []string) {
	name, args := Tokenize(body)
	kind := ParseKind(name)
	if !r.Handles(kind) {
		return KindHelp, args
	}
	return kind, args
}

// Dispatch runs the handler for cc and waits for it to finish.
func (r *Router) Dispatch(ctx context.Context, cc models.CommandContext) error {
	kind, args := r.Resolve(cc.Body)
	handler, ok := r.handlers[kind]
	if !ok {
		return domainErrors.ErrNoHandler.WithContext("command", kind.String())
	}

	ctx = logger.With(ctx, "command", kind.String())
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := handler(ctx, cc, args)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = domainErrors.ErrHandlerTimeout.WithError(err).WithContext("timeout", r.timeout.String())
	}
	logger.Debug(ctx, "command finished", "duration", time.Since(start), "failed", err != nil)
	return err
}

// ReplyID is the catalogue message posted by a canned-text command.
func ReplyID(k Kind) string {
	return "reply_" + k.String()
}

// ReplyIDs lists every catalogue message a command may post.
func ReplyIDs(k Kind) []string {
	switch k {
	case KindMerge:
		return []string{"reply_merge_success", "reply_merge_failed"}
	case KindTag:
		return []string{"reply_tag_usage", "reply_tag_created"}
	case KindUnknown:
		return nil
	default:
		return []string{ReplyID(k)}
	}
}
