package vcs

import (
	"fmt"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

// File states reported by git status.
const (
	StateModified  = "modified"
	StateAdded     = "added"
	StateDeleted   = "deleted"
	StateUntracked = "untracked"
	StateRenamed   = "renamed"
)

// StatusEntry is one changed path.
type StatusEntry struct {
	File   string `json:"file" yaml:"file"`
	Status string `json:"status" yaml:"status"`
	Staged bool   `json:"staged" yaml:"staged"`
}

// StatusResult is the working tree state.
type StatusResult struct {
	envelope.Status `yaml:",inline"`
	Files           []StatusEntry `json:"files" yaml:"files"`
	StagedCount     int           `json:"staged_count" yaml:"staged_count"`
	UnstagedCount   int           `json:"unstaged_count" yaml:"unstaged_count"`
	UntrackedCount  int           `json:"untracked_count" yaml:"untracked_count"`
	Total           int           `json:"total" yaml:"total"`
}

// Summary implements envelope.Result.
func (r StatusResult) Summary() string {
	return fmt.Sprintf("%d staged, %d unstaged, %d untracked",
		r.StagedCount, r.UnstagedCount, r.UntrackedCount)
}

func (r *StatusResult) count() {
	r.StagedCount, r.UnstagedCount, r.UntrackedCount = 0, 0, 0
	for _, f := range r.Files {
		switch {
		case f.Status == StateUntracked:
			r.UntrackedCount++
		case f.Staged:
			r.StagedCount++
		default:
			r.UnstagedCount++
		}
	}
	r.Total = len(r.Files)
}

// FileDiff holds the line statistics for one file.
type FileDiff struct {
	File      string `json:"file" yaml:"file"`
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
	Hunks     int    `json:"hunks" yaml:"hunks"`
}

// DiffResult aggregates a unified diff.
type DiffResult struct {
	envelope.Status `yaml:",inline"`
	Files           []FileDiff `json:"files" yaml:"files"`
	FilesChanged    int        `json:"files_changed" yaml:"files_changed"`
	Additions       int        `json:"additions" yaml:"additions"`
	Deletions       int        `json:"deletions" yaml:"deletions"`
}

// Summary implements envelope.Result.
func (r DiffResult) Summary() string {
	return fmt.Sprintf("%d file(s) changed, %d insertion(s)(+), %d deletion(s)(-)",
		r.FilesChanged, r.Additions, r.Deletions)
}

func (r *DiffResult) count() {
	r.Additions, r.Deletions = 0, 0
	for _, f := range r.Files {
		r.Additions += f.Additions
		r.Deletions += f.Deletions
	}
	r.FilesChanged = len(r.Files)
}

// Commit is one log record.
type Commit struct {
	Hash    string `json:"hash" yaml:"hash"`
	Author  string `json:"author" yaml:"author"`
	Date    string `json:"date" yaml:"date"`
	Message string `json:"message" yaml:"message"`
}

// LogResult is a list of commits, newest first as git prints them.
type LogResult struct {
	envelope.Status `yaml:",inline"`
	Commits         []Commit `json:"commits" yaml:"commits"`
	CommitCount     int      `json:"commit_count" yaml:"commit_count"`
}

// Summary implements envelope.Result.
func (r LogResult) Summary() string {
	return fmt.Sprintf("%d commit(s)", r.CommitCount)
}
