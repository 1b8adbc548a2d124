package vcs

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SolanaRemix/terminal/internal/models"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetPullRequest(ctx context.Context, repo models.Repository, number int) (*models.PullRequestStatus, error) {
	args := m.Called(ctx, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PullRequestStatus), args.Error(1)
}

func (m *MockClient) MergePullRequest(ctx context.Context, repo models.Repository, number int, method string) (*models.MergeResult, error) {
	args := m.Called(ctx, repo, number, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MergeResult), args.Error(1)
}

func (m *MockClient) CreateComment(ctx context.Context, repo models.Repository, number int, body string) error {
	args := m.Called(ctx, repo, number, body)
	return args.Error(0)
}

func (m *MockClient) GetBranchHeadSHA(ctx context.Context, repo models.Repository, branch string) (string, error) {
	args := m.Called(ctx, repo, branch)
	return args.String(0), args.Error(1)
}

func (m *MockClient) CreateTag(ctx context.Context, repo models.Repository, tag models.TagRef) error {
	args := m.Called(ctx, repo, tag)
	return args.Error(0)
}
