package models

import "github.com/SolanaRemix/terminal/internal/regex"

type (
	// PullRequestStatus is the subset of a pull request the status command reports.
	PullRequestStatus struct {
		Number int
		Title  string
		State  string
		Merged bool
	}

	// MergeResult describes a completed merge.
	MergeResult struct {
		SHA     string
		Message string
	}

	// TagRef is a lightweight tag pointing at a commit.
	TagRef struct {
		Name string
		SHA  string
	}
)

// Ref is the fully qualified git reference for the tag.
func (t TagRef) Ref() string {
	return "refs/tags/" + t.Name
}

// ValidTagName reports whether name can be created as refs/tags/<name>.
func ValidTagName(name string) bool {
	return name != "" && !regex.InvalidRefName.MatchString(name)
}
