package csv_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/AlfredBerg/rod-profile-scraper/internal/outputHandlers/csv"
	"github.com/AlfredBerg/rod-profile-scraper/internal/profile"
)

func TestCsvOutputWritesAllRowsInOrder(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out.csv", []byte("stale\n"), 0o644))

	o := &csv.CsvOutput{Path: "out.csv", Fs: fs}
	require.NoError(t, o.Init(ctx))

	first := profile.Empty()
	first.Bio = "Hello, world"
	first.FollowersCount = "1.2K"
	second := profile.Empty()
	second.Location = "Oslo"

	for _, rec := range []profile.Record{first, second, first} {
		out, err := o.HandleProfile(ctx, "https://twitter.com/a", rec)
		require.NoError(t, err)
		require.Equal(t, profile.Inserted, out)
	}
	require.Equal(t, 3, o.Len())
	require.NoError(t, o.Cleanup(context.Background()))

	b, err := afero.ReadFile(fs, "out.csv")
	require.NoError(t, err)
	require.Equal(t,
		"Bio,Following Count,Followers Count,Location,Website\n"+
			"\"Hello, world\",N/A,1.2K,N/A,N/A\n"+
			"N/A,N/A,N/A,Oslo,N/A\n"+
			"\"Hello, world\",N/A,1.2K,N/A,N/A\n",
		string(b))
}

func TestCsvOutputNoRecordsWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	o := &csv.CsvOutput{Path: "out.csv", Fs: fs}
	require.NoError(t, o.Init(context.Background()))
	require.NoError(t, o.Cleanup(context.Background()))

	exists, err := afero.Exists(fs, "out.csv")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCsvOutputRequiresPath(t *testing.T) {
	o := &csv.CsvOutput{}
	require.Error(t, o.Init(context.Background()))
}
