package pipeline_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/liteseed/arcore/arcrypto"
	"github.com/liteseed/arcore/base64url"
	"github.com/liteseed/arcore/gateway"
	"github.com/liteseed/arcore/pipeline"
	"github.com/liteseed/arcore/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *gateway.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	c, err := gateway.New(server.URL + "/")
	require.NoError(t, err)
	return server, c
}

func writeTempFiles(t *testing.T, n int, content string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("file-%d.bin", i))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		paths[i] = p
	}
	return paths
}

func TestUploadOneWritesSubmittedStatus(t *testing.T) {
	server, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tx_anchor":
			fmt.Fprint(w, "LCwsLCwsLA")
		case "/price/5":
			fmt.Fprint(w, "100")
		case "/tx":
			w.WriteHeader(http.StatusOK)
		}
	})
	defer server.Close()

	signer, _, err := arcrypto.Generate()
	require.NoError(t, err)

	storeDir := t.TempDir()
	driver := pipeline.New(c, signer, status.NewStore(storeDir), pipeline.Config{Buffer: 1})

	paths := writeTempFiles(t, 1, "hello")
	st, err := driver.UploadOne(context.Background(), paths[0])
	require.NoError(t, err)
	assert.Equal(t, status.Submitted, st.Status)
	assert.False(t, st.ID.IsZero())

	reread, err := status.NewStore(storeDir).Read(paths[0])
	require.NoError(t, err)
	assert.True(t, st.ID.Equal(reread.ID))
}

func TestRefreshOneTransitionsToConfirmed(t *testing.T) {
	pending := true
	server, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if pending {
			fmt.Fprint(w, "Pending")
			return
		}
		fmt.Fprint(w, `{"block_height":10,"block_indep_hash":"h","number_of_confirmations":3}`)
	})
	defer server.Close()

	signer, _, err := arcrypto.Generate()
	require.NoError(t, err)

	storeDir := t.TempDir()
	store := status.NewStore(storeDir)
	driver := pipeline.New(c, signer, store, pipeline.Config{})

	filePath := "/virtual/0.png"
	now := time.Now().UTC()
	require.NoError(t, store.Write(status.Status{
		ID: base64url.FromString("tx-id"), FilePath: filePath, Status: status.Submitted, CreatedAt: now, LastModified: now,
	}))

	st, err := driver.RefreshOne(context.Background(), filePath)
	require.NoError(t, err)
	assert.Equal(t, status.Pending, st.Status)

	pending = false
	st, err = driver.RefreshOne(context.Background(), filePath)
	require.NoError(t, err)
	assert.Equal(t, status.Confirmed, st.Status)
	require.NotNil(t, st.RawStatus)
	assert.Equal(t, int64(3), st.RawStatus.NumberOfConfirmations)
	assert.True(t, st.CreatedAt.Equal(now))
	assert.True(t, st.LastModified.After(now))
}

func TestUploadStreamBoundsConcurrency(t *testing.T) {
	const buffer = 3
	var inFlight int32
	var maxObserved int32

	server, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tx_anchor":
			fmt.Fprint(w, "LCwsLCwsLA")
			return
		case "/price/5":
			fmt.Fprint(w, "0")
			return
		}
		current := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			observed := atomic.LoadInt32(&maxObserved)
			if current <= observed || atomic.CompareAndSwapInt32(&maxObserved, observed, current) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	signer, _, err := arcrypto.Generate()
	require.NoError(t, err)

	driver := pipeline.New(c, signer, status.NewStore(t.TempDir()), pipeline.Config{Buffer: buffer})
	paths := writeTempFiles(t, 10, "hello")

	seen := map[string]bool{}
	for result := range driver.UploadStream(context.Background(), paths) {
		require.NoError(t, result.Err)
		seen[result.Path] = true
	}

	assert.Len(t, seen, 10)
	assert.LessOrEqual(t, int(atomic.LoadInt32(&maxObserved)), buffer)
}
