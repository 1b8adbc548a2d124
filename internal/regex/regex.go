package regex

import "regexp"

var (
	// GitHub naming patterns
	RepoFullName = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9-]*)/([A-Za-z0-9._-]+)$`)

	// InvalidRefName matches tag names git check-ref-format refuses, plus a
	// leading '-' so a name is never read as an option.
	InvalidRefName = regexp.MustCompile(
		`[\x00-\x20\x7f~^:?*\[\\]` + // control chars, space and ref metacharacters
			`|\.\.|//|@\{|^@$` +
			`|^[/.-]|/\.` + // component starting with '.'
			`|\.lock(/|$)|[./]$`,
	)
)
