// Package history keeps line-oriented conversation transcripts for
// the legacy search/retrieval surface. One file per conversation,
// one "[timestamp] [role]: message" line per entry.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var lineRe = regexp.MustCompile(`^\[(.*?)\] \[(.*?)\]: (.*)$`)

// Store appends and reads transcripts under a directory.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		now: time.Now,
	}
}

// Append writes one transcript line for the conversation.
func (s *Store) Append(conversationID, role, message string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	path := filepath.Join(s.dir, conversationID+".txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] [%s]: %s\n", s.now().Format(time.RFC3339), role, message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append transcript line: %w", err)
	}
	return nil
}

// Load returns a conversation's transcript lines.
func (s *Store) Load(conversationID string) ([]string, error) {
	path := filepath.Join(s.dir, conversationID+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}

// Search returns the ids of conversations whose transcript contains
// the term, case-insensitively. An empty term matches everything.
func (s *Store) Search(term string) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(data)), strings.ToLower(term)) {
			matches = append(matches, strings.TrimSuffix(entry.Name(), ".txt"))
		}
	}
	return matches, nil
}

// Line is one parsed transcript entry.
type Line struct {
	Timestamp string
	Role      string
	Message   string
}

// ParseLine splits a transcript line into its parts. Lines that do not
// match the format come back as unattributed bot text.
func ParseLine(line string) Line {
	if m := lineRe.FindStringSubmatch(line); m != nil {
		return Line{Timestamp: m[1], Role: m[2], Message: m[3]}
	}
	return Line{Role: "assistant", Message: line}
}
