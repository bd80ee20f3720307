package trust

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mintVerified  = "VerifiedMint1111111111111111111111111111111"
	mintCommunity = "CommunityMint111111111111111111111111111111"
	mintRandom    = "RandomMint111111111111111111111111111111111"
)

func newListServer(t *testing.T, strictCalls, allCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/strict", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(strictCalls, 1)
		_, _ = w.Write([]byte(`[{"address": "` + mintVerified + `"}]`))
	})
	mux.HandleFunc("/all", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(allCalls, 1)
		_, _ = w.Write([]byte(`[{"address": "` + mintVerified + `"}, {"address": "` + mintCommunity + `"}]`))
	})
	return httptest.NewServer(mux)
}

func TestResolveTiers(t *testing.T) {
	var strictCalls, allCalls int32
	srv := newListServer(t, &strictCalls, &allCalls)
	defer srv.Close()

	s := NewService(&ServiceConfig{
		StrictListURL: srv.URL + "/strict",
		AllListURL:    srv.URL + "/all",
	})

	records := s.ResolveTiers(context.Background(), []string{mintRandom, mintVerified, mintCommunity})
	require.Len(t, records, 3)

	// one record per input mint, input order preserved
	assert.Equal(t, mintRandom, records[0].Mint)
	assert.Equal(t, TierUnknown, records[0].Tier)
	assert.Equal(t, mintVerified, records[1].Mint)
	assert.Equal(t, TierVerified, records[1].Tier)
	assert.Equal(t, mintCommunity, records[2].Mint)
	assert.Equal(t, TierCommunity, records[2].Tier)
}

func TestListsFetchedOnce(t *testing.T) {
	var strictCalls, allCalls int32
	srv := newListServer(t, &strictCalls, &allCalls)
	defer srv.Close()

	s := NewService(&ServiceConfig{
		StrictListURL: srv.URL + "/strict",
		AllListURL:    srv.URL + "/all",
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ResolveTiers(context.Background(), []string{mintVerified})
		}()
	}
	wg.Wait()

	// sequential calls after the cache is populated hit it too
	s.ResolveTiers(context.Background(), []string{mintCommunity})
	s.ResolveTiers(context.Background(), []string{mintRandom})

	assert.Equal(t, int32(1), atomic.LoadInt32(&strictCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&allCalls))
}

func TestFetchFailureDegradesToUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewService(&ServiceConfig{
		StrictListURL: srv.URL + "/strict",
		AllListURL:    srv.URL + "/all",
	})

	records := s.ResolveTiers(context.Background(), []string{mintVerified, mintCommunity})
	require.Len(t, records, 2)
	assert.Equal(t, TierUnknown, records[0].Tier)
	assert.Equal(t, TierUnknown, records[1].Tier)
}

func TestFetchFailureAllowsLaterRetry(t *testing.T) {
	var healthy int32
	mux := http.NewServeMux()
	mux.HandleFunc("/strict", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&healthy) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"address": "` + mintVerified + `"}]`))
	})
	mux.HandleFunc("/all", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&healthy) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"address": "` + mintVerified + `"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewService(&ServiceConfig{
		StrictListURL: srv.URL + "/strict",
		AllListURL:    srv.URL + "/all",
	})

	records := s.ResolveTiers(context.Background(), []string{mintVerified})
	assert.Equal(t, TierUnknown, records[0].Tier)

	// upstream recovers; a failed fetch was not cached
	atomic.StoreInt32(&healthy, 1)

	records = s.ResolveTiers(context.Background(), []string{mintVerified})
	assert.Equal(t, TierVerified, records[0].Tier)
}
