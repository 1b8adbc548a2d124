package models

import (
	"strings"

	domainErrors "github.com/SolanaRemix/terminal/internal/errors"
	"github.com/SolanaRemix/terminal/internal/regex"
)

// CommandPrefix is the token a comment must start with to be treated as a command.
const CommandPrefix = "/terminal"

// CommandContext is built once per accepted webhook delivery and never mutated.
type CommandContext struct {
	// Body is the raw comment text, untrimmed.
	Body string
	// Repo is the repository full name, "owner/name".
	Repo string
	// IssueNumber is the issue or pull request number the comment was left on.
	IssueNumber int
}

// Repository returns the owner and name parsed from Repo.
func (c CommandContext) Repository() (Repository, error) {
	return ParseRepository(c.Repo)
}

// HasCommandPrefix reports whether body, once trimmed, starts with the /terminal token.
func HasCommandPrefix(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), CommandPrefix)
}

type Repository struct {
	Owner string
	Name  string
}

func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

func ParseRepository(fullName string) (Repository, error) {
	m := regex.RepoFullName.FindStringSubmatch(strings.TrimSpace(fullName))
	if m == nil {
		return Repository{}, domainErrors.ErrInvalidRepository.WithContext("repo", fullName)
	}
	return Repository{Owner: m[1], Name: m[2]}, nil
}
