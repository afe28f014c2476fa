package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regexvm/regexvm/internal/compiler"
	"github.com/regexvm/regexvm/internal/parser"
)

func machine(t *testing.T, pattern string) *Machine {
	t.Helper()
	ast, err := parser.Parse(pattern)
	require.NoError(t, err)
	prog, err := compiler.Compile(ast)
	require.NoError(t, err)
	return New(prog)
}

func TestMatchLiteral(t *testing.T) {
	m := machine(t, "abc")

	tests := []struct {
		input string
		want  bool
	}{
		{"abc", true},
		{"abcd", true}, // trailing input allowed for the prefix entry point
		{"ab", false},
		{"xabc", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := m.Match([]rune(tt.input))
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestMatchFullLiteral(t *testing.T) {
	m := machine(t, "abc")

	got, err := m.MatchFull([]rune("abc"))
	require.NoError(t, err)
	require.True(t, got)

	got, err = m.MatchFull([]rune("abcd"))
	require.NoError(t, err)
	require.False(t, got)
}

func TestMatchOr(t *testing.T) {
	m := machine(t, "ab|cd")

	for input, want := range map[string]bool{
		"ab": true,
		"cd": true,
		"ac": false,
		"":   false,
	} {
		got, err := m.Match([]rune(input))
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", input)
	}
}

func TestMatchStarGreedy(t *testing.T) {
	m := machine(t, "a*")

	for _, input := range []string{"", "a", "aaa", "b", "ba"} {
		// zero repetitions always succeed
		got, err := m.Match([]rune(input))
		require.NoError(t, err)
		require.True(t, got, "input %q", input)
	}

	// greedy: the full run of a's is consumed
	full := machine(t, "a*")
	end, matched, err := full.exec([]rune("aaab"), 0, false)
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, 3, end)
}

func TestMatchPlus(t *testing.T) {
	m := machine(t, "a+")

	got, err := m.Match([]rune(""))
	require.NoError(t, err)
	require.False(t, got)

	got, err = m.Match([]rune("a"))
	require.NoError(t, err)
	require.True(t, got)

	got, err = m.Match([]rune("aaa"))
	require.NoError(t, err)
	require.True(t, got)
}

func TestMatchQuestion(t *testing.T) {
	m := machine(t, "ab?c")

	for input, want := range map[string]bool{
		"abc": true,
		"ac":  true,
		"abb": false,
	} {
		got, err := m.Match([]rune(input))
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", input)
	}
}

func TestMatchDot(t *testing.T) {
	m := machine(t, "a.c")

	got, err := m.Match([]rune("abc"))
	require.NoError(t, err)
	require.True(t, got)

	got, err = m.Match([]rune("axc"))
	require.NoError(t, err)
	require.True(t, got)

	got, err = m.Match([]rune("ac"))
	require.NoError(t, err)
	require.False(t, got)
}

func TestMatchEscapedStar(t *testing.T) {
	m := machine(t, `\*`)

	got, err := m.Match([]rune("*"))
	require.NoError(t, err)
	require.True(t, got)

	got, err = m.Match([]rune(""))
	require.NoError(t, err)
	require.False(t, got)
}

func TestMatchUnicode(t *testing.T) {
	m := machine(t, "日.語")

	got, err := m.Match([]rune("日本語"))
	require.NoError(t, err)
	require.True(t, got)
}

func TestZeroWidthLoopTerminates(t *testing.T) {
	// (a?)* can iterate without consuming; the visited-state guard must
	// cut the loop instead of spinning forever.
	for _, pattern := range []string{"(a?)*", "(a*)*", "(a?)+"} {
		m := machine(t, pattern)
		got, err := m.Match([]rune("bbb"))
		require.NoError(t, err, "pattern %q", pattern)
		// all three match zero-width; (a?)+ is satisfied by one
		// zero-width iteration
		require.True(t, got, "pattern %q", pattern)
	}
}

func TestSearchUnanchored(t *testing.T) {
	m := machine(t, "b+")

	start, end, ok, err := m.Search([]rune("aabbba"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, start)
	require.Equal(t, 5, end)
}

func TestSearchNoMatch(t *testing.T) {
	m := machine(t, "xyz")

	_, _, ok, err := m.Search([]rune("aabbba"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSearchLeftmost(t *testing.T) {
	m := machine(t, "ab|b")

	start, end, ok, err := m.Search([]rune("cab"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, start)
	require.Equal(t, 3, end)
}

func TestStepLimit(t *testing.T) {
	m := machine(t, "(a|a)+")
	m.StepLimit = 4

	_, err := m.Match([]rune("aaaaaaaaaaaaaaaaaaaab"))
	require.ErrorIs(t, err, ErrStepLimit)
}

func TestStepLimitNotHitOnSmallRun(t *testing.T) {
	m := machine(t, "abc")
	m.StepLimit = 100

	got, err := m.Match([]rune("abc"))
	require.NoError(t, err)
	require.True(t, got)
}

func TestConcurrentRunsShareProgram(t *testing.T) {
	ast, err := parser.Parse("(ab|c)*d")
	require.NoError(t, err)
	prog, err := compiler.Compile(ast)
	require.NoError(t, err)

	done := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		go func() {
			m := New(prog)
			got, err := m.Match([]rune("abcabd"))
			done <- got && err == nil
		}()
	}
	for i := 0; i < 8; i++ {
		require.True(t, <-done)
	}
}
