package regexvm

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regexvm/regexvm/internal/parser"
)

func TestCompileAndMatchLiteral(t *testing.T) {
	re, err := Compile("hello")
	require.NoError(t, err)

	require.True(t, re.MatchFullString("hello"))
	require.False(t, re.MatchFullString("hell"))
	require.False(t, re.MatchFullString("helloo"))
	require.True(t, re.MatchString("helloo")) // prefix entry point allows trailing input
}

func TestCompileParseError(t *testing.T) {
	re, err := Compile("a)")
	require.Nil(t, re)
	require.Error(t, err)

	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, parser.ErrInvalidRightParen, perr.Kind)
	require.Equal(t, 1, perr.Pos)
}

func TestCompileEmptyPattern(t *testing.T) {
	for _, pattern := range []string{"", "()"} {
		_, err := Compile(pattern)
		var perr *parser.ParseError
		require.True(t, errors.As(err, &perr), "pattern %q", pattern)
		require.Equal(t, parser.ErrEmpty, perr.Kind, "pattern %q", pattern)
	}
}

func TestMustCompilePanics(t *testing.T) {
	require.Panics(t, func() {
		MustCompile("(a")
	})
}

func TestRoundTripAlternation(t *testing.T) {
	re := MustCompile("ab|cd")

	require.True(t, re.MatchString("ab"))
	require.True(t, re.MatchString("cd"))
	require.False(t, re.MatchString("ac"))
}

func TestGreedyRepetition(t *testing.T) {
	star := MustCompile("a*")
	require.True(t, star.MatchString("aaa"))
	require.True(t, star.MatchString(""))

	plus := MustCompile("a+")
	require.False(t, plus.MatchString(""))
	require.True(t, plus.MatchString("a"))
}

func TestEscapedMetacharacter(t *testing.T) {
	re := MustCompile(`\*`)

	require.True(t, re.MatchString("*"))
	require.False(t, re.MatchString(""))
}

func TestFindStringIndex(t *testing.T) {
	re := MustCompile("l+o")

	require.Equal(t, []int{2, 5}, re.FindStringIndex("hello"))
	require.Nil(t, re.FindStringIndex("xyz"))
	require.Equal(t, "llo", re.FindString("hello"))
	require.Equal(t, "", re.FindString("xyz"))
}

func TestFindStringIndexUnicodeOffsets(t *testing.T) {
	re := MustCompile("本")

	// offsets are character offsets, not byte offsets
	require.Equal(t, []int{1, 2}, re.FindStringIndex("日本語"))
}

func TestZeroWidthRepetitionTerminates(t *testing.T) {
	re := MustCompile("(a?)*")

	require.True(t, re.MatchString("bbb"))
	require.True(t, re.MatchString(""))
}

func TestStepLimitReportsNoMatch(t *testing.T) {
	re := MustCompile("(a|a)(a|a)(a|a)b")
	re.StepLimit = 2

	require.False(t, re.MatchString("aaab"))
}

func TestProgramListing(t *testing.T) {
	re := MustCompile("a|b")

	listing := re.Program()
	require.Contains(t, listing, "split")
	require.Contains(t, listing, "match")
	require.Equal(t, "a|b", re.String())
}

func TestConcurrentMatching(t *testing.T) {
	re := MustCompile("(ab)+c?")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.True(t, re.MatchString("ababc"))
			require.False(t, re.MatchString("ba"))
		}()
	}
	wg.Wait()
}

func TestGenerateValidation(t *testing.T) {
	err := Generate(Options{})
	require.Error(t, err)

	err = Generate(Options{Pattern: "a"})
	require.Error(t, err)
}

func TestGenerateWritesMatcher(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "gen.go")

	err := Generate(Options{
		Pattern:    "ab|cd",
		Name:       "Pair",
		Package:    "gen",
		OutputFile: outputFile,
	})
	require.NoError(t, err)

	src, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	require.Contains(t, string(src), "func (Pair) MatchString(input string) bool")
}

func TestGenerateBadPattern(t *testing.T) {
	err := Generate(Options{
		Pattern:    "a(",
		Name:       "Broken",
		Package:    "gen",
		OutputFile: filepath.Join(t.TempDir(), "gen.go"),
	})
	require.Error(t, err)

	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, parser.ErrNoRightParen, perr.Kind)
}
