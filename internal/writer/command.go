package writer

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempSuffix is appended to the destination for the in-progress copy.
const TempSuffix = ".boxfetch.tmp"

// Quote single-quotes s for a POSIX shell. Inside single quotes nothing is
// special, so only the quote itself needs handling: it closes the string,
// emits an escaped quote and reopens.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ValidatePath rejects destinations that cannot be safely placed in a command.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("destination path is empty")
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("destination path %q is not absolute", path)
	}
	if strings.ContainsAny(path, "\x00\n\r") {
		return fmt.Errorf("destination path %q contains control characters", path)
	}
	return nil
}

// InlineCommand builds a command that writes content to dest.
// Content travels base64-encoded, so no payload byte ever reaches the shell parser.
func InlineCommand(content []byte, dest string, mode os.FileMode) string {
	encoded := base64.StdEncoding.EncodeToString(content)
	return fmt.Sprintf("printf '%%s' %s | base64 -d > %s && %s",
		Quote(encoded), Quote(dest+TempSuffix), finishCommand(dest, mode))
}

// StagedCommand builds a command that copies an already staged file to dest.
func StagedCommand(staged, dest string, mode os.FileMode) string {
	return fmt.Sprintf("cat %s > %s && %s",
		Quote(staged), Quote(dest+TempSuffix), finishCommand(dest, mode))
}

// finishCommand sets the mode on the temp copy and renames it over dest,
// leaving dest untouched if anything before the rename failed.
func finishCommand(dest string, mode os.FileMode) string {
	tmp := Quote(dest + TempSuffix)
	return fmt.Sprintf("chmod %o %s && mv -f %s %s", mode.Perm(), tmp, tmp, Quote(dest))
}
