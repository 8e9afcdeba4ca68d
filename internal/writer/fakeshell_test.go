package writer

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// fakeShell interprets the commands built in command.go against an afero.Fs.
// Like su on some devices, it reports failures in output with a zero exit.
type fakeShell struct {
	mu       sync.Mutex
	fs       afero.Fs
	denied   map[string]bool
	commands []string
}

func newFakeShell(fs afero.Fs) *fakeShell {
	return &fakeShell{fs: fs, denied: map[string]bool{}}
}

func (s *fakeShell) deny(dir string) { s.denied[dir] = true }

func (s *fakeShell) Execute(_ context.Context, command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command)

	words, err := shellWords(command)
	if err != nil {
		return "", err
	}
	for _, seg := range splitWords(words, "&&") {
		if out := s.run(seg); out != "" {
			return out, nil
		}
	}
	return "", nil
}

func (s *fakeShell) run(seg []string) string {
	switch seg[0] {
	case "printf":
		// printf %s <b64> | base64 -d > <tmp>
		data, err := base64.StdEncoding.DecodeString(seg[2])
		if err != nil {
			return "base64: invalid input"
		}
		return s.create(seg[7], data)
	case "cat":
		// cat <staged> > <tmp>
		data, err := afero.ReadFile(s.fs, seg[1])
		if err != nil {
			return fmt.Sprintf("cat: %s: No such file or directory", seg[1])
		}
		return s.create(seg[3], data)
	case "chmod":
		mode, _ := strconv.ParseUint(seg[1], 8, 32)
		if err := s.fs.Chmod(seg[2], os.FileMode(mode)); err != nil {
			return err.Error()
		}
	case "mv":
		if err := s.fs.Rename(seg[2], seg[3]); err != nil {
			return err.Error()
		}
	default:
		return "sh: " + seg[0] + ": not found"
	}
	return ""
}

func (s *fakeShell) create(path string, data []byte) string {
	if s.denied[filepath.Dir(path)] {
		return fmt.Sprintf("sh: can't create %s: Permission denied", path)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o600); err != nil {
		return err.Error()
	}
	return ""
}

// shellWords splits a command the way sh does for the subset we generate:
// single quotes and backslash escapes outside quotes.
func shellWords(cmd string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		switch {
		case c == '\'':
			end := strings.IndexByte(cmd[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote in %q", cmd)
			}
			cur.WriteString(cmd[i+1 : i+1+end])
			i += end + 1
			inWord = true
		case c == '\\' && i+1 < len(cmd):
			cur.WriteByte(cmd[i+1])
			i++
			inWord = true
		case c == ' ':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

func splitWords(words []string, sep string) [][]string {
	var out [][]string
	start := 0
	for i, w := range words {
		if w == sep {
			out = append(out, words[start:i])
			start = i + 1
		}
	}
	return append(out, words[start:])
}
