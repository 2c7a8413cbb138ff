package morpho

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test uses go-vcr to record/replay a real vault history call.
// It skips by default if the cassette is absent and RECORD_CASSETTES != 1.
func TestClientGetSeries_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "morpho_vault_history")
	if _, err := os.Stat(cassette + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s.yaml", cassette)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassette), 0o755))
	}

	r, err := recorder.New(cassette)
	require.NoError(t, err, "recorder.New should not error")
	defer func() { _ = r.Stop() }()

	client := NewClient(WithHTTPClient(&http.Client{Transport: r}), WithMaxRetries(0))
	start, end := int64(1762387200), int64(1762992000) // 2025-11-06 .. 2025-11-13
	series, err := client.GetSeries(context.Background(), testVault, 1, &start, &end)
	require.NoError(t, err, "GetSeries should not error")
	require.NotEmpty(t, series, "series should not be empty")
	for i := 1; i < len(series); i++ {
		assert.LessOrEqual(t, series[i-1].Timestamp, series[i].Timestamp, "series must be sorted")
	}
}
