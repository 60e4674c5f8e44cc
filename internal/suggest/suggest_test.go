package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	title string
	err   error
	got   string
}

func (f *fakeSuggester) Suggest(_ context.Context, content string) (string, error) {
	f.got = content
	return f.title, f.err
}

func TestTitleNilSuggesterFallsBack(t *testing.T) {
	require.Equal(t, FallbackTitle, Title(context.Background(), nil, "anything"))
}

func TestTitleErrorFallsBack(t *testing.T) {
	s := &fakeSuggester{err: errors.New("model unavailable")}
	require.Equal(t, FallbackTitle, Title(context.Background(), s, "anything"))
}

func TestTitleEmptyReplyFallsBack(t *testing.T) {
	for _, reply := range []string{"", "   ", `""`, ` "" `} {
		s := &fakeSuggester{title: reply}
		require.Equal(t, FallbackTitle, Title(context.Background(), s, "anything"))
	}
}

func TestTitleTrimsQuotesAndSpace(t *testing.T) {
	s := &fakeSuggester{title: "  \"A Quiet Morning\"\n"}
	require.Equal(t, "A Quiet Morning", Title(context.Background(), s, "anything"))
}

func TestTitleSendsTruncatedHint(t *testing.T) {
	long := strings.Repeat("x", 1000)
	s := &fakeSuggester{title: "T"}
	Title(context.Background(), s, long)
	require.Equal(t, 300, len([]rune(s.got)))
}

func TestHintRuneSafeTruncation(t *testing.T) {
	short := "short entry"
	require.Equal(t, short, Hint(short))

	multibyte := strings.Repeat("日", 400)
	hint := Hint(multibyte)
	require.Equal(t, 300, len([]rune(hint)))
	require.Equal(t, strings.Repeat("日", 300), hint, "no split multibyte rune")
}
