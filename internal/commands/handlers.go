package commands

import (
	"context"

	"github.com/SolanaRemix/terminal/internal/i18n"
	"github.com/SolanaRemix/terminal/internal/logger"
	"github.com/SolanaRemix/terminal/internal/models"
	"github.com/SolanaRemix/terminal/internal/vcs"
)

const mergeMethod = "squash"

// handlers holds what every command needs. Each handler posts exactly one
// comment on the issue or pull request the command came from.
type handlers struct {
	client        vcs.Client
	trans         *i18n.Translations
	defaultBranch string
}

func (h *handlers) reply(ctx context.Context, repo models.Repository, number int, messageID string, data map[string]interface{}) error {
	return h.client.CreateComment(ctx, repo, number, h.trans.GetMessage(messageID, 0, data))
}

func (h *handlers) staticReply(messageID string) Handler {
	return func(ctx context.Context, cc models.CommandContext, _ []string) error {
		repo, err := cc.Repository()
		if err != nil {
			return err
		}
		return h.reply(ctx, repo, cc.IssueNumber, messageID, nil)
	}
}

func (h *handlers) status(ctx context.Context, cc models.CommandContext, _ []string) error {
	repo, err := cc.Repository()
	if err != nil {
		return err
	}

	pr, err := h.client.GetPullRequest(ctx, repo, cc.IssueNumber)
	if err != nil {
		return err
	}

	return h.reply(ctx, repo, cc.IssueNumber, "reply_status", map[string]interface{}{
		"State":  pr.State,
		"Merged": pr.Merged,
	})
}

// merge never propagates a merge rejection; the failure is reported in the
// thread instead.
func (h *handlers) merge(ctx context.Context, cc models.CommandContext, _ []string) error {
	repo, err := cc.Repository()
	if err != nil {
		return err
	}

	if _, err := h.client.MergePullRequest(ctx, repo, cc.IssueNumber, mergeMethod); err != nil {
		logger.Warn(ctx, "merge failed", "error", err)
		return h.reply(ctx, repo, cc.IssueNumber, "reply_merge_failed", nil)
	}
	return h.reply(ctx, repo, cc.IssueNumber, "reply_merge_success", nil)
}

func (h *handlers) tag(ctx context.Context, cc models.CommandContext, args []string) error {
	repo, err := cc.Repository()
	if err != nil {
		return err
	}

	if len(args) == 0 || !models.ValidTagName(args[0]) {
		return h.reply(ctx, repo, cc.IssueNumber, "reply_tag_usage", nil)
	}
	name := args[0]

	sha, err := h.client.GetBranchHeadSHA(ctx, repo, h.defaultBranch)
	if err != nil {
		return err
	}

	if err := h.client.CreateTag(ctx, repo, models.TagRef{Name: name, SHA: sha}); err != nil {
		return err
	}
	logger.Info(ctx, "tag created", "tag", name, "sha", sha, "branch", h.defaultBranch)

	return h.reply(ctx, repo, cc.IssueNumber, "reply_tag_created", map[string]interface{}{
		"Tag":    name,
		"Branch": h.defaultBranch,
	})
}
