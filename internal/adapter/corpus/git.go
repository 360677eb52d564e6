package corpus

import (
	goGit "github.com/go-git/go-git/v5"
)

// Revision returns the HEAD commit hash of the repository containing
// the corpus directory, for run provenance. A corpus outside any git
// repository yields an empty revision, not an error.
func Revision(dataDir string) string {
	repo, err := goGit.PlainOpenWithOptions(dataDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
