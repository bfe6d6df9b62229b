package fetch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlfredBerg/rod-profile-scraper/internal/fetch"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

func TestLeadingCount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1.2K Followers", "1.2K", true},
		{"1,024", "1,024", true},
		{"  37 Following", "37", true},
		{"3.4MFollowers", "3.4M", true},
		{"Followers", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := fetch.LeadingCount(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		require.Equal(t, tc.out, got, tc.in)
	}
}

func TestExtractEmptyPage(t *testing.T) {
	rec, err := fetch.Extract("<html><body></body></html>", "", profile.AllFields, fetch.DefaultLandmarks)
	require.NoError(t, err)
	require.Equal(t, profile.Empty(), rec)
}

func TestExtractCountWithoutNumber(t *testing.T) {
	html := `<a href="/x/followers"><span>Followers</span></a>`
	rec, err := fetch.Extract(html, "", profile.FieldSet{profile.FollowersCount}, fetch.DefaultLandmarks)
	require.NoError(t, err)
	require.Equal(t, profile.Sentinel, rec.FollowersCount)
}
