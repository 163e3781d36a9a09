package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test binaries run with stdout piped, so the helpers are in plain mode and
// output is byte-for-byte predictable.

func TestShortOID(t *testing.T) {
	require.Equal(t, "0123456", ShortOID("0123456789abcdef0123456789abcdef01234567"))
	require.Equal(t, "abc", ShortOID("abc"))
	require.Equal(t, "", ShortOID(""))
}

func TestBranchMarksCurrent(t *testing.T) {
	require.Equal(t, "main (current)", Branch("main", true))
	require.Equal(t, "feature", Branch("feature", false))
}

func TestSubjectTruncatesLongFirstLines(t *testing.T) {
	require.Equal(t, "subject", Subject("subject\n\nbody text"))

	got := Subject(strings.Repeat("x", 100))
	require.Len(t, got, 72)
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestStyledHelpersPreserveText(t *testing.T) {
	for _, fn := range []func(string) string{Good, Bad, Dim, OID} {
		require.Contains(t, fn("abcdefg"), "abcdefg")
	}
}

func TestSplogWritesLines(t *testing.T) {
	var buf bytes.Buffer
	splog := NewSplogTo(&buf)

	splog.Info("checked out %s", "feature")
	splog.Warn("remote %s unreachable", "origin")
	splog.Tip("run %s to resume", "gitbridge rebase --continue")
	splog.Newline()
	splog.Page("history\n")

	out := buf.String()
	require.Contains(t, out, "checked out feature\n")
	require.Contains(t, out, "remote origin unreachable")
	require.Contains(t, out, "gitbridge rebase --continue")
	require.True(t, strings.HasSuffix(out, "history\n"))
}
