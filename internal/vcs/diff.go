package vcs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

const devNull = "/dev/null"

// hunkHeaderRe is "@@ -old[,n] +new[,n] @@"; an omitted count is 1.
var hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+\d+(?:,(\d+))? @@`)

// hunk tracks how many body lines of the current hunk are still expected on
// each side. While lines are expected a "--- " line is a deletion.
type hunk struct {
	oldLeft, newLeft int
}

func (h *hunk) open() bool { return h.oldLeft > 0 || h.newLeft > 0 }

// NormalizeDiff aggregates a unified diff (`git diff`) into per-file
// insertion, deletion and hunk counts. Every +/- body line is counted, also
// past the counts a hunk header declares.
func NormalizeDiff(raw []byte) DiffResult {
	text := string(raw)
	lines := splitLines(text)
	result := DiffResult{Files: []FileDiff{}}

	var current *FileDiff
	var oldPath string
	var h hunk
	inHunk, overflow := false, false

	start := func(name string) {
		result.Files = append(result.Files, FileDiff{File: name})
		current = &result.Files[len(result.Files)-1]
		h = hunk{}
	}

	for i, line := range lines {
		if inHunk && !isDiffHeader(lines, i, h.open()) {
			switch {
			case strings.HasPrefix(line, "+"):
				overflow = overflow || h.newLeft <= 0
				current.Additions++
				h.newLeft--
			case strings.HasPrefix(line, "-"):
				overflow = overflow || h.oldLeft <= 0
				current.Deletions++
				h.oldLeft--
			case strings.HasPrefix(line, " "), line == "":
				h.oldLeft--
				h.newLeft--
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "diff --git "):
			start(gitHeaderPath(line))
			oldPath = ""
			inHunk = false
		case strings.HasPrefix(line, "--- "):
			oldPath = diffPath(line[4:], "a/")
			inHunk = false
		case strings.HasPrefix(line, "+++ "):
			name := diffPath(line[4:], "b/")
			if name == devNull {
				name = oldPath
			}
			if current == nil || current.Hunks > 0 {
				start(name)
			} else if name != "" {
				current.File = name
			}
		case strings.HasPrefix(line, "@@"):
			if current == nil {
				start("")
			}
			current.Hunks++
			h = parseHunkHeader(line)
			inHunk = true
		}
	}

	result.count()
	if result.FilesChanged == 0 && strings.TrimSpace(text) != "" {
		result.Status = envelope.Drift(true,
			"diff output is not empty but contains no 'diff --git' or '---/+++' file header")
		return result
	}
	if overflow {
		result.Status = envelope.Drift(true,
			"a hunk holds more +/- lines than its @@ header declares; all of them were counted")
		return result
	}
	result.Status = envelope.Clean()
	return result
}

// isDiffHeader reports whether lines[i] starts a file or hunk inside a hunk
// body. A "--- " line is a file header only once the hunk is exhausted and
// a "+++ " line follows.
func isDiffHeader(lines []string, i int, hunkOpen bool) bool {
	line := lines[i]
	switch {
	case strings.HasPrefix(line, "diff --git "), strings.HasPrefix(line, "@@"):
		return true
	case strings.HasPrefix(line, "--- "):
		return !hunkOpen && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ")
	}
	return false
}

func parseHunkHeader(line string) hunk {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return hunk{}
	}
	return hunk{oldLeft: hunkCount(m[1]), newLeft: hunkCount(m[2])}
}

func hunkCount(s string) int {
	if s == "" {
		return 1
	}
	n, _ := strconv.Atoi(s)
	return n
}

// gitHeaderPath takes the b/ side of "diff --git a/x b/x".
func gitHeaderPath(line string) string {
	rest := strings.TrimPrefix(line, "diff --git ")
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+3:]
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[len(fields)-1], "b/")
}

// diffPath strips the side prefix and the tab-separated timestamp that some
// diff tools append.
func diffPath(p, prefix string) string {
	if i := strings.IndexByte(p, '\t'); i >= 0 {
		p = p[:i]
	}
	p = unquotePath(p)
	if p == devNull {
		return p
	}
	return strings.TrimPrefix(p, prefix)
}
