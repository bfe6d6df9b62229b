package browser

import (
	"context"
	"testing"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"
)

func TestRodSessionClosesStrayPages(t *testing.T) {
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no browser installed")
	}

	ctx := context.Background()
	s, err := LaunchRod(ctx, Options{Headless: true, Bin: bin, NavigateTimeout: DefaultNavigateTimeout})
	require.NoError(t, err)
	defer s.Close()

	// the tab is there as soon as the session is returned
	require.NotNil(t, s.page)

	_, err = s.browser.Page(proto.TargetCreateTarget{})
	require.NoError(t, err)

	s.closeStrayPages(ctx)

	pages, err := s.browser.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, s.page.TargetID, pages[0].TargetID)
}
