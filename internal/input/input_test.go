package input_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/AlfredBerg/rod-profile-scraper/internal/input"
)

func TestLoadCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "links\nhttps://twitter.com/GTNUK1\n\n  https://twitter.com/other  \nnot a url\n"
	require.NoError(t, afero.WriteFile(fs, "links.csv", []byte(content), 0o644))

	urls, err := input.LoadCSV(fs, "links.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"https://twitter.com/GTNUK1", "https://twitter.com/other", "not a url"}, urls)
}

func TestLoadCSVErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "two.csv", []byte("a,b\n1,2\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "empty.csv", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "ragged.csv", []byte("a\nx\ny,z\n"), 0o644))

	for _, path := range []string{"missing.csv", "two.csv", "empty.csv", "ragged.csv"} {
		_, err := input.LoadCSV(fs, path)
		require.ErrorIs(t, err, input.ErrInput, path)
	}
}

func TestLoadLines(t *testing.T) {
	urls, err := input.LoadLines(strings.NewReader("https://twitter.com/a\n\n https://twitter.com/b\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"https://twitter.com/a", "https://twitter.com/b"}, urls)
}

func TestLoadCSVReportsLineOfRaggedRow(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "links\nhttps://twitter.com/a\n\n\nhttps://twitter.com/b,extra\n"
	require.NoError(t, afero.WriteFile(fs, "links.csv", []byte(content), 0o644))

	_, err := input.LoadCSV(fs, "links.csv")
	require.ErrorIs(t, err, input.ErrInput)
	require.ErrorContains(t, err, "line 5 has 2 columns")
}
