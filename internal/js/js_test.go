package js

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvoke(t *testing.T) {
	expr := Invoke(REMOVE_OVERLAYS)
	require.True(t, strings.HasPrefix(expr, "(\n() => {"))
	require.True(t, strings.HasSuffix(expr, "}\n)()"))
}
