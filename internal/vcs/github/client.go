package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "github.com/SolanaRemix/terminal/internal/errors"
	"github.com/SolanaRemix/terminal/internal/logger"
	"github.com/SolanaRemix/terminal/internal/models"
	"github.com/SolanaRemix/terminal/internal/vcs"
)

var _ vcs.Client = (*GitHubClient)(nil)

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	Merge(ctx context.Context, owner, repo string, number int, commitMessage string, options *github.PullRequestOptions) (*github.PullRequestMergeResult, *github.Response, error)
}

type IssuesService interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

type RepositoriesService interface {
	GetCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) (*github.RepositoryCommit, *github.Response, error)
}

type GitService interface {
	CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error)
}

const (
	defaultMaxTries    = 3
	defaultHTTPTimeout = 30 * time.Second
)

type GitHubClient struct {
	prService    PullRequestsService
	issueService IssuesService
	repoService  RepositoriesService
	gitService   GitService
	maxTries     uint
	newBackOff   func() backoff.BackOff
}

type Option func(*GitHubClient)

// WithMaxTries bounds the attempts made for idempotent reads.
func WithMaxTries(n uint) Option {
	return func(c *GitHubClient) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

// WithBackOff replaces the exponential backoff used between read retries.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *GitHubClient) {
		if fn != nil {
			c.newBackOff = fn
		}
	}
}

// NewHTTPClient returns the keep-alive client shared by every delivery. With a
// token it authenticates through an oauth2 static token source.
func NewHTTPClient(token string) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	base := &http.Client{Transport: transport, Timeout: defaultHTTPTimeout}
	if token == "" {
		return base
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = defaultHTTPTimeout
	return httpClient
}

// NewGitHubClient builds a client for api.github.com, or for a GitHub
// Enterprise server when baseURL is set.
func NewGitHubClient(token, baseURL string, opts ...Option) (*GitHubClient, error) {
	client := github.NewClient(NewHTTPClient(token))
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, domainErrors.ErrConfigParse.WithError(err).WithContext("GITHUB_API_URL", baseURL)
		}
	}

	return NewGitHubClientWithServices(
		client.PullRequests,
		client.Issues,
		client.Repositories,
		client.Git,
		opts...,
	), nil
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	issueService IssuesService,
	repoService RepositoriesService,
	gitService GitService,
	opts ...Option,
) *GitHubClient {
	c := &GitHubClient{
		prService:    prService,
		issueService: issueService,
		repoService:  repoService,
		gitService:   gitService,
		maxTries:     defaultMaxTries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (ghc *GitHubClient) GetPullRequest(ctx context.Context, repo models.Repository, number int) (*models.PullRequestStatus, error) {
	pr, err := retryRead(ctx, ghc, "get pull request", func() (*github.PullRequest, *github.Response, error) {
		return ghc.prService.Get(ctx, repo.Owner, repo.Name, number)
	})
	if err != nil {
		return nil, classify(err, "get pull request", repo, nil).WithContext("number", number)
	}
	if pr == nil {
		return nil, domainErrors.ErrRepositoryNotFound.
			WithContext("operation", "get pull request").
			WithContext("repo", repo.FullName()).
			WithContext("number", number)
	}

	return &models.PullRequestStatus{
		Number: number,
		Title:  pr.GetTitle(),
		State:  pr.GetState(),
		Merged: pr.GetMerged(),
	}, nil
}

func (ghc *GitHubClient) MergePullRequest(ctx context.Context, repo models.Repository, number int, method string) (*models.MergeResult, error) {
	res, resp, err := ghc.prService.Merge(ctx, repo.Owner, repo.Name, number, "", &github.PullRequestOptions{
		MergeMethod: method,
	})
	logRate(ctx, "merge pull request", resp)
	if err != nil {
		return nil, classifyResponse(err, resp, "merge pull request", repo, domainErrors.ErrMergeRejected).
			WithContext("number", number)
	}
	if res != nil && res.Merged != nil && !res.GetMerged() {
		return nil, domainErrors.ErrMergeRejected.
			WithContext("repo", repo.FullName()).
			WithContext("number", number).
			WithContext("message", res.GetMessage())
	}

	return &models.MergeResult{
		SHA:     res.GetSHA(),
		Message: res.GetMessage(),
	}, nil
}

func (ghc *GitHubClient) CreateComment(ctx context.Context, repo models.Repository, number int, body string) error {
	_, resp, err := ghc.issueService.CreateComment(ctx, repo.Owner, repo.Name, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	logRate(ctx, "create comment", resp)
	if err != nil {
		return classifyResponse(err, resp, "create comment", repo, nil).WithContext("number", number)
	}
	return nil
}

func (ghc *GitHubClient) GetBranchHeadSHA(ctx context.Context, repo models.Repository, branch string) (string, error) {
	commit, err := retryRead(ctx, ghc, "get branch head", func() (*github.RepositoryCommit, *github.Response, error) {
		return ghc.repoService.GetCommit(ctx, repo.Owner, repo.Name, branch, nil)
	})
	if err != nil {
		return "", classify(err, "get branch head", repo, nil).WithContext("branch", branch)
	}
	if commit.GetSHA() == "" {
		return "", domainErrors.ErrRepositoryNotFound.
			WithContext("operation", "get branch head").
			WithContext("repo", repo.FullName()).
			WithContext("branch", branch)
	}
	return commit.GetSHA(), nil
}

func (ghc *GitHubClient) CreateTag(ctx context.Context, repo models.Repository, tag models.TagRef) error {
	_, resp, err := ghc.gitService.CreateRef(ctx, repo.Owner, repo.Name, github.CreateRef{
		Ref: tag.Ref(),
		SHA: tag.SHA,
	})
	logRate(ctx, "create tag", resp)
	if err != nil {
		return classifyResponse(err, resp, "create tag", repo, domainErrors.ErrTagExists).WithContext("tag", tag.Name)
	}
	return nil
}

// readError keeps the response of the last failed attempt so the final error
// can be classified by status code.
type readError struct {
	err  error
	resp *github.Response
}

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

// retryRead runs an idempotent GET, retrying transient failures. Mutating
// calls must never go through here.
func retryRead[T any](ctx context.Context, ghc *GitHubClient, operation string, fn func() (T, *github.Response, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, resp, err := fn()
		logRate(ctx, operation, resp)
		if err == nil {
			return v, nil
		}
		wrapped := &readError{err: err, resp: resp}
		if !retryable(err, resp) {
			return v, backoff.Permanent(wrapped)
		}
		logger.Debug(ctx, "retrying github read", "operation", operation, "error", err)
		return v, wrapped
	},
		backoff.WithBackOff(ghc.newBackOff()),
		backoff.WithMaxTries(ghc.maxTries),
	)
}

func retryable(err error, resp *github.Response) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.RetryAfter == nil || *abuseErr.RetryAfter <= 5*time.Second
	}
	if resp == nil || resp.Response == nil {
		return true
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

func classify(err error, operation string, repo models.Repository, conflict *domainErrors.AppError) *domainErrors.AppError {
	var re *readError
	if errors.As(err, &re) {
		return classifyResponse(re.err, re.resp, operation, repo, conflict)
	}
	return classifyResponse(err, nil, operation, repo, conflict)
}

// classifyResponse maps a go-github failure onto the domain error catalogue.
// conflict, when set, is used for 405/409/422 answers.
func classifyResponse(err error, resp *github.Response, operation string, repo models.Repository, conflict *domainErrors.AppError) *domainErrors.AppError {
	var appErr *domainErrors.AppError

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	switch {
	case errors.As(err, &rateErr):
		appErr = domainErrors.ErrGitHubRateLimit.WithError(err).
			WithContext("reset", rateErr.Rate.Reset.Time.Format(time.RFC3339))
	case errors.As(err, &abuseErr):
		appErr = domainErrors.ErrGitHubRateLimit.WithError(err)
		if abuseErr.RetryAfter != nil {
			appErr = appErr.WithContext("retry_after", abuseErr.RetryAfter.String())
		}
	case status == http.StatusTooManyRequests:
		appErr = domainErrors.ErrGitHubRateLimit.WithError(err)
	case status == http.StatusUnauthorized:
		appErr = domainErrors.ErrGitHubTokenInvalid.WithError(err)
	case status == http.StatusForbidden:
		appErr = domainErrors.ErrGitHubInsufficientPerms.WithError(err)
	case status == http.StatusNotFound:
		appErr = domainErrors.ErrRepositoryNotFound.WithError(err)
	case conflict != nil && (status == http.StatusMethodNotAllowed ||
		status == http.StatusConflict ||
		status == http.StatusUnprocessableEntity):
		appErr = conflict.WithError(err)
	default:
		appErr = domainErrors.ErrGitHubRequest.WithError(err)
	}

	if status != 0 {
		appErr = appErr.WithContext("status", status)
	}
	return appErr.
		WithContext("operation", operation).
		WithContext("repo", repo.FullName())
}

func logRate(ctx context.Context, operation string, resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	args := []any{
		"operation", operation,
		"remaining", resp.Rate.Remaining,
		"limit", resp.Rate.Limit,
	}
	if resp.Rate.Remaining < resp.Rate.Limit/10 {
		logger.Warn(ctx, "github rate limit running low", append(args, "reset", resp.Rate.Reset.Time)...)
		return
	}
	logger.Debug(ctx, "github rate limit", args...)
}
