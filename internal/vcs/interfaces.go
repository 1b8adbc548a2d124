package vcs

import (
	"context"

	"github.com/SolanaRemix/terminal/internal/models"
)

// Client is the set of repository operations command handlers may perform.
// It is passed to every handler instead of being reached through a global.
type Client interface {
	// GetPullRequest fetches the state of a pull request.
	GetPullRequest(ctx context.Context, repo models.Repository, number int) (*models.PullRequestStatus, error)
	// MergePullRequest merges a pull request with the given method ("merge", "squash" or "rebase").
	MergePullRequest(ctx context.Context, repo models.Repository, number int, method string) (*models.MergeResult, error)
	// CreateComment posts a Markdown comment on an issue or pull request.
	CreateComment(ctx context.Context, repo models.Repository, number int, body string) error
	// GetBranchHeadSHA returns the SHA of the latest commit on branch.
	GetBranchHeadSHA(ctx context.Context, repo models.Repository, branch string) (string, error)
	// CreateTag creates refs/tags/<tag.Name> pointing at tag.SHA.
	CreateTag(ctx context.Context, repo models.Repository, tag models.TagRef) error
}
