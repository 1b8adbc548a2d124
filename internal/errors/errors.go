package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeSignature     ErrorType = "SIGNATURE"
	TypeTransport     ErrorType = "TRANSPORT"
	TypeUsage         ErrorType = "USAGE"
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if status, ok := e.Context["status"].(int); ok && status != 0 {
			msg += fmt.Sprintf(" - HTTP %d", status)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type and message, so
// derived copies built with WithError or WithContext still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// IsType reports whether err carries an AppError of the given type anywhere in its chain.
func IsType(err error, t ErrorType) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Type == t {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Webhook errors
var (
	ErrSignatureInvalid = NewAppError(TypeSignature, "webhook signature is missing or invalid", nil).
				WithSuggestion("Make sure WEBHOOK_SECRET matches the secret configured on the GitHub webhook")

	ErrPayloadInvalid = NewAppError(TypeUsage, "webhook payload could not be parsed", nil)
)

// Command errors
var (
	ErrInvalidRepository = NewAppError(TypeUsage, "repository name must be in owner/name form", nil)

	ErrHandlerTimeout = NewAppError(TypeTransport, "command handler timed out", nil).
				WithSuggestion("GitHub API did not answer in time, try the command again")

	ErrNoHandler = NewAppError(TypeInternal, "no handler registered for command", nil)
)

// Configuration errors
var (
	ErrTokenMissing = NewAppError(TypeConfiguration, "GITHUB_TOKEN is missing", nil).
			WithSuggestion("Create a token with 'repo' scope and export GITHUB_TOKEN")

	ErrWebhookSecretDefault = NewAppError(TypeConfiguration, "WEBHOOK_SECRET uses the insecure default", nil).
				WithSuggestion("Set WEBHOOK_SECRET to the secret configured on the GitHub webhook")

	ErrInvalidPort = NewAppError(TypeConfiguration, "PORT must be between 1 and 65535", nil)

	ErrInvalidTimeout = NewAppError(TypeConfiguration, "TERMINAL_HANDLER_TIMEOUT must be positive", nil)

	ErrConfigParse = NewAppError(TypeConfiguration, "could not read configuration from environment", nil)
)

// GitHub errors
var (
	ErrRepositoryNotFound = NewAppError(TypeTransport, "repository or resource not found", nil).
				WithSuggestion("Check repository name and that the token can access it")

	ErrGitHubTokenInvalid = NewAppError(TypeTransport, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeTransport, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Token needs 'repo' scope to merge, tag and comment")

	ErrGitHubRateLimit = NewAppError(TypeTransport, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait until the rate limit resets")

	ErrMergeRejected = NewAppError(TypeTransport, "pull request could not be merged", nil).
				WithSuggestion("Check conflicts or branch protection")

	ErrTagExists = NewAppError(TypeTransport, "tag already exists", nil)

	ErrGitHubRequest = NewAppError(TypeTransport, "GitHub API request failed", nil)
)
