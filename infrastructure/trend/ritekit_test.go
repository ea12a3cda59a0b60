package trend

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salonsuite/bella/domain/trend"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRiteKitSource_LookupUpgradesHashtags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/stats/auto-hashtag", r.URL.Path)
		require.Equal(t, "hair", r.URL.Query().Get("text"))
		require.Equal(t, "test-client", r.URL.Query().Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":true,"hashtags":[
			{"tag":"HairGoals"},{"tag":"#SalonLife"},{"tag":"BalayageArt"}
		]}`))
	}))
	defer srv.Close()

	source := NewRiteKitSource("test-client", discardLogger(), WithBaseURL(srv.URL))

	set, err := source.Lookup(context.Background(), "hair")
	require.NoError(t, err)
	require.Equal(t, "#HairGoals #SalonLife #BalayageArt", set.Hashtags())
	require.NotEmpty(t, set.Audio(), "audio direction still comes from the static map")
}

func TestRiteKitSource_CapsHashtagCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":true,"hashtags":[
			{"tag":"a"},{"tag":"b"},{"tag":"c"},{"tag":"d"},{"tag":"e"},
			{"tag":"f"},{"tag":"g"},{"tag":"h"},{"tag":"i"},{"tag":"j"}
		]}`))
	}))
	defer srv.Close()

	source := NewRiteKitSource("test-client", discardLogger(), WithBaseURL(srv.URL))

	set, err := source.Lookup(context.Background(), "nails")
	require.NoError(t, err)
	require.Len(t, strings.Fields(set.Hashtags()), MaxHashtags)
}

func TestRiteKitSource_FallsBackOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	source := NewRiteKitSource("test-client", discardLogger(), WithBaseURL(srv.URL))

	set, err := source.Lookup(context.Background(), "lashes")
	require.NoError(t, err)
	require.Equal(t, trend.StaticLookup("lashes").Hashtags(), set.Hashtags())
}

func TestRiteKitSource_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	source := NewRiteKitSource("test-client", discardLogger(), WithBaseURL(srv.URL))

	for range 5 {
		set, err := source.Lookup(context.Background(), "makeup")
		require.NoError(t, err)
		require.Equal(t, trend.StaticLookup("makeup").Hashtags(), set.Hashtags())
	}

	// After three consecutive failures the breaker opens and stops
	// reaching the upstream.
	require.EqualValues(t, 3, count.Load())
}

func TestRiteKitSource_NoClientIDSkipsHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no HTTP call expected without a client id")
	}))
	defer srv.Close()

	source := NewRiteKitSource("", discardLogger(), WithBaseURL(srv.URL))

	set, err := source.Lookup(context.Background(), "skincare")
	require.NoError(t, err)
	require.Equal(t, trend.StaticLookup("skincare").Hashtags(), set.Hashtags())
}
