package cli

import (
	"io"
	"os"
	"strings"
)

// readStdin returns piped standard input, trimmed. It never blocks: a
// terminal or an empty regular file yields an empty string immediately.
func readStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}

	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}
	if stat.Mode().IsRegular() && stat.Size() == 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
