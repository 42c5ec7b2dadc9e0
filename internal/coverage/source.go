package coverage

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"strings"
)

// LoadSource reads the full text of a source file and returns it along with
// its digest. Every call reads the file again.
func LoadSource(path string) (text string, digest string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", &NotFoundError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", "", &NotFoundError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", &NotFoundError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return "", "", &EmptyFileError{Path: path}
	}

	return string(data), Digest(data), nil
}

// Digest returns the hex-encoded MD5 hash of data.
func Digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// CountLines returns the number of lines of text when split on "\n" or "\r\n".
// A trailing newline opens one last empty line.
func CountLines(text string) int {
	return strings.Count(text, "\n") + 1
}
