package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akademikku_backend/internals/helpers/apiclient"

	m "akademikku_backend/internals/features/akademik/peta_blok/model"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	c.ttl[key] = ttl
}

func (c *memCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
}

func TestBuildUsesCache(t *testing.T) {
	srv := fakeUpstream(t)
	defer srv.Close()

	cache := newMemCache()
	s := New(apiclient.New(srv.URL, 5*time.Second), cache, 0, 4)
	ctx := context.Background()
	key := CacheKey(m.ParityGanjil, m.ModeSemua)

	v, err := s.Build(ctx, "tok-123", m.ParityGanjil, m.ModeSemua, false)
	require.NoError(t, err)
	assert.False(t, v.Cached)
	require.Contains(t, cache.data, key)
	assert.Equal(t, 10*time.Minute, cache.ttl[key])

	v2, err := s.Build(ctx, "tok-123", m.ParityGanjil, m.ModeSemua, false)
	require.NoError(t, err)
	assert.True(t, v2.Cached)
	assert.Equal(t, v.TotalItems, v2.TotalItems)
	assert.Equal(t, v.StartDate, v2.StartDate)

	v3, err := s.Build(ctx, "tok-123", m.ParityGanjil, m.ModeSemua, true)
	require.NoError(t, err)
	assert.False(t, v3.Cached)

	s.Invalidate(ctx, m.ParityGanjil)
	assert.NotContains(t, cache.data, key)
}

func TestBuildCorruptCacheRebuilds(t *testing.T) {
	srv := fakeUpstream(t)
	defer srv.Close()

	cache := newMemCache()
	cache.data[CacheKey(m.ParityGanjil, m.ModeBlok)] = []byte("{bukan json")
	s := New(apiclient.New(srv.URL, 5*time.Second), cache, time.Minute, 2)

	v, err := s.Build(context.Background(), "tok-123", m.ParityGanjil, m.ModeBlok, false)
	require.NoError(t, err)
	assert.False(t, v.Cached)
}

func TestNewRedisCacheNil(t *testing.T) {
	assert.Nil(t, NewRedisCache(nil))
	assert.Equal(t, "peta_blok:v1:genap:non_blok", CacheKey(m.ParityGenap, m.ModeNonBlok))
}

func TestBuildCacheHitRequiresValidToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mata-kuliah", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"kode":"MKU002","nama":"Pancasila","jenis":"Non Blok","tipe_non_block":"Non-CSR",
			"tanggal_mulai":"2025-07-07","tanggal_akhir":"2025-07-08"}]}`))
	})
	mux.HandleFunc("/non-blok-non-csr/MKU002/jadwal", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cache := newMemCache()
	s := New(apiclient.New(srv.URL, 5*time.Second), cache, time.Minute, 2)
	ctx := context.Background()

	_, err := s.Build(ctx, "good", m.ParityGanjil, m.ModeSemua, false)
	require.NoError(t, err)
	require.Contains(t, cache.data, CacheKey(m.ParityGanjil, m.ModeSemua))

	for _, refresh := range []bool{false, true} {
		v, err := s.Build(ctx, "bogus", m.ParityGanjil, m.ModeSemua, refresh)
		require.Error(t, err, "refresh=%v", refresh)
		assert.Nil(t, v)
		assert.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))
	}

	v, err := s.Build(ctx, "good", m.ParityGanjil, m.ModeSemua, false)
	require.NoError(t, err)
	assert.True(t, v.Cached)
}
