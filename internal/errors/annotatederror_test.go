package errors

import (
	"github.com/stretchr/testify/require"
	"log/slog"
	"slices"
	"testing"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("slot", "page-a"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := NewSentinel("unknown slot")
	require.NotErrorIs(t, err, NewSentinel("test error"))
	wrapped := Wrap(sentinel, "load snapshot", slog.String("slot", "page-z"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "load snapshot: unknown slot", wrapped.Error())

	// Ensure log values are coming through.
	var annotated *AnnotatedError
	require.True(t, As(err, &annotated))
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("slot", "page-a"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.GreaterOrEqual(t, sourceIdx, 0)
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "nothing to wrap"))
}

func TestSlogError(t *testing.T) {
	inner := New("request timed out", slog.String("path", "/api/actions"))
	outer := Wrap(inner, "refresh dossier", slog.Int("turn", 3))

	attr := SlogError(outer)
	require.Equal(t, "error", attr.Key)
	group := attr.Value.Group()
	require.Equal(t, slog.String("message", "refresh dossier: request timed out"), group[0])

	keys := make([]string, 0, len(group))
	for _, a := range group {
		keys = append(keys, a.Key)
	}
	require.Equal(t, []string{"message", "refresh dossier", "request timed out"}, keys)
}
