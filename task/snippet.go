package task

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Snippet extraction limits.
const (
	DefaultContextLines = 2           // lines shown above and below the task line
	maxSnippetLineLen   = 500         // longer source lines are truncated
	maxSnippetFileSize  = 1024 * 1024 // files larger than 1MB are skipped
	snippetBufferSize   = 256 * 1024  // scanner buffer, handles long lines
)

// sensitiveBasenames are files never read for snippets, to avoid leaking
// credentials into task output.
var sensitiveBasenames = map[string]bool{
	"credentials.json": true,
	"secrets.json":     true,
	"secrets.yaml":     true,
	"secrets.yml":      true,
	".netrc":           true,
	".npmrc":           true,
	"id_rsa":           true,
	"id_ed25519":       true,
	"id_ecdsa":         true,
}

// Snippet is a few source lines around a task's location.
type Snippet struct {
	Lines     []string `json:"lines"`
	StartLine int      `json:"startLine"`
	TaskLine  int      `json:"taskLine"` // 1-based index into Lines
}

// ExtractSnippet reads contextLines lines of source around line in file.
// Returns nil when the file is missing, too large, binary, a symlink, or
// looks like a credentials file. line counts from 1.
func ExtractSnippet(file string, line, contextLines int) *Snippet {
	if file == "" || line <= 0 || contextLines < 0 {
		return nil
	}
	clean := filepath.Clean(file)
	if isSensitiveFile(clean) {
		return nil
	}

	// Lstat first so a symlink to /etc/passwd or similar is rejected
	// before it is ever opened.
	info, err := os.Lstat(clean)
	if err != nil || info.Mode()&os.ModeSymlink != 0 || info.IsDir() || info.Size() > maxSnippetFileSize {
		return nil
	}

	f, err := os.Open(clean)
	if err != nil {
		return nil
	}
	defer f.Close()

	opened, err := f.Stat()
	if err != nil || !os.SameFile(info, opened) {
		return nil
	}

	start := max(1, line-contextLines)
	end := line + contextLines
	lines := make([]string, 0, end-start+1)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, snippetBufferSize), snippetBufferSize)
	n := 0
	for scanner.Scan() {
		n++
		if n < start {
			continue
		}
		if n > end {
			break
		}
		text := scanner.Text()
		if strings.ContainsRune(text, 0) {
			return nil // binary file
		}
		if len(text) > maxSnippetLineLen {
			text = text[:maxSnippetLineLen] + "..."
		}
		lines = append(lines, text)
	}
	if scanner.Err() != nil || len(lines) == 0 {
		return nil
	}

	taskLine := line - start + 1
	if taskLine > len(lines) {
		taskLine = len(lines)
	}
	return &Snippet{Lines: lines, StartLine: start, TaskLine: taskLine}
}

// AttachSnippets appends source context to the details of every task with
// a usable file and line. Tasks are modified in place; the return value is
// the number of tasks that received a snippet.
func AttachSnippets(tasks []Task, contextLines int) int {
	attached := 0
	for i := range tasks {
		t := &tasks[i]
		if t.File == "" || t.Line <= 0 {
			continue
		}
		snip := ExtractSnippet(t.File, t.Line, contextLines)
		if snip == nil {
			continue
		}
		for j, text := range snip.Lines {
			marker := "  "
			if j+1 == snip.TaskLine {
				marker = "> "
			}
			t.Details = append(t.Details, fmt.Sprintf("%s%4d | %s", marker, snip.StartLine+j, text))
		}
		attached++
	}
	return attached
}

func isSensitiveFile(file string) bool {
	base := filepath.Base(file)
	if sensitiveBasenames[base] || strings.HasPrefix(base, ".env") {
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".pem", ".key", ".p12", ".pfx":
		return true
	}
	return false
}
