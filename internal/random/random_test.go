package random_test

import (
	"github.com/myrjola/dossier/internal/random"
	"github.com/stretchr/testify/require"
	"regexp"
	"testing"
)

func TestLetters(t *testing.T) {
	letters := regexp.MustCompile(`^[a-zA-Z]*$`)
	tests := []struct {
		name   string
		length uint
	}{
		{name: "zero length", length: 0},
		{name: "nonce length", length: 24},
		{name: "long", length: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := random.Letters(tt.length)
			require.NoError(t, err)
			require.Len(t, got, int(tt.length))
			require.Regexp(t, letters, got)
		})
	}

	a, err := random.Letters(24)
	require.NoError(t, err)
	b, err := random.Letters(24)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
