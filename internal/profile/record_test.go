package profile_test

import (
	"testing"

	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
	"github.com/stretchr/testify/require"
)

func TestEmptyRecordIsAllSentinel(t *testing.T) {
	r := profile.Empty()
	for _, f := range profile.AllFields {
		require.Equal(t, profile.Sentinel, r.Get(f), string(f))
	}
}

func TestRecordSet(t *testing.T) {
	r := profile.Empty()
	r.Set(profile.Location, "  London ")
	r.Set(profile.Bio, "   ")

	require.Equal(t, "London", r.Location)
	require.Equal(t, profile.Sentinel, r.Bio)
}

func TestParseFieldSet(t *testing.T) {
	set, err := profile.ParseFieldSet([]string{"Title", "followers_count", "title"})
	require.NoError(t, err)
	require.Equal(t, profile.FieldSet{profile.Title, profile.FollowersCount}, set)

	_, err = profile.ParseFieldSet([]string{"avatar"})
	require.Error(t, err)
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "inserted", profile.Inserted.String())
	require.Equal(t, "duplicate_skipped", profile.DuplicateSkipped.String())
	require.Equal(t, "failed", profile.Failed.String())
}
