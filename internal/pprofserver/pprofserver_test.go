package pprofserver_test

import (
	"context"
	"github.com/myrjola/dossier/internal/pprofserver"
	"github.com/myrjola/dossier/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
)

func TestLaunch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := pprofserver.Launch(ctx, "localhost:0", testhelpers.NewTestLogger(t))
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/debug/pprof/cmdline", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLaunch_addressInUse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := pprofserver.Launch(ctx, "localhost:0", testhelpers.NewTestLogger(t))
	require.NoError(t, err)
	_, err = pprofserver.Launch(ctx, addr, testhelpers.NewTestLogger(t))
	require.Error(t, err)
}
