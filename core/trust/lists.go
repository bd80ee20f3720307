// Package trust resolves token mints against the aggregator operator's
// curated token lists.
package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStrictListURL = "https://token.jup.ag/strict"
	DefaultAllListURL    = "https://token.jup.ag/all"

	DefaultTimeout = 30 * time.Second
)

type Tier string

const (
	TierVerified  Tier = "Verified"
	TierCommunity Tier = "Community"
	TierUnknown   Tier = "Unknown"
)

// SafetyRecord is the trust tier attached to one mint.
type SafetyRecord struct {
	Mint string `json:"mint"`
	Tier Tier   `json:"tier"`
}

type listEntry struct {
	Address string `json:"address"`
}

type listSets struct {
	strict map[string]struct{}
	all    map[string]struct{}
}

// Service caches the strict and all trust lists for the lifetime of the
// process. The first caller triggers the fetch and concurrent callers
// share the in-flight result; a successful fetch is never invalidated.
// A failed fetch degrades that call to empty sets and leaves the cache
// unpopulated so a later call may try again.
type Service struct {
	httpClient *http.Client
	strictURL  string
	allURL     string

	group  singleflight.Group
	mu     sync.RWMutex
	sets   *listSets
	loaded bool
}

type ServiceConfig struct {
	StrictListURL string
	AllListURL    string
	HTTPClient    *http.Client
}

func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}

	strictURL := cfg.StrictListURL
	if strictURL == "" {
		strictURL = DefaultStrictListURL
	}
	allURL := cfg.AllListURL
	if allURL == "" {
		allURL = DefaultAllListURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Service{
		httpClient: httpClient,
		strictURL:  strictURL,
		allURL:     allURL,
	}
}

var defaultService *Service
var once sync.Once

func GetService() *Service {
	once.Do(func() {
		cfg := config.GetJupiterConfig()
		defaultService = NewService(&ServiceConfig{
			StrictListURL: cfg.StrictListURL,
			AllListURL:    cfg.AllListURL,
		})
	})
	return defaultService
}

// ResolveTiers returns one record per input mint, in input order.
// Verified when the mint is on the strict list, Community when only on
// the all list, Unknown otherwise (including when the lists could not
// be fetched).
func (s *Service) ResolveTiers(ctx context.Context, mints []string) []SafetyRecord {
	sets := s.load(ctx)

	records := make([]SafetyRecord, 0, len(mints))
	for _, mint := range mints {
		tier := TierUnknown
		if _, ok := sets.strict[mint]; ok {
			tier = TierVerified
		} else if _, ok := sets.all[mint]; ok {
			tier = TierCommunity
		}
		records = append(records, SafetyRecord{Mint: mint, Tier: tier})
	}
	return records
}

func (s *Service) load(ctx context.Context) *listSets {
	s.mu.RLock()
	if s.loaded {
		sets := s.sets
		s.mu.RUnlock()
		return sets
	}
	s.mu.RUnlock()

	// singleflight guarantees at most one outstanding fetch no matter
	// how many callers arrive concurrently.
	v, _, _ := s.group.Do("trustlists", func() (interface{}, error) {
		strict, strictErr := s.fetchList(ctx, s.strictURL)
		all, allErr := s.fetchList(ctx, s.allURL)

		if strictErr != nil || allErr != nil {
			logger.Logrus.WithFields(logrus.Fields{"StrictErr": strictErr, "AllErr": allErr}).Error("fetch trust lists failed, degrading to empty sets")
			empty := &listSets{strict: map[string]struct{}{}, all: map[string]struct{}{}}
			return empty, nil
		}

		sets := &listSets{strict: strict, all: all}

		s.mu.Lock()
		s.sets = sets
		s.loaded = true
		s.mu.Unlock()

		logger.Logrus.WithFields(logrus.Fields{"StrictCount": len(strict), "AllCount": len(all)}).Info("trust lists loaded")
		return sets, nil
	})

	return v.(*listSets)
}

func (s *Service) fetchList(ctx context.Context, listURL string) (map[string]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status, %v", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var entries []listEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.Address] = struct{}{}
	}
	return set, nil
}
