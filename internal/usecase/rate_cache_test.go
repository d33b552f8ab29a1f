package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/au-parking/parking-core-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCacheLoadsOnce(t *testing.T) {
	settings := &fakeSettingsRepo{rate: 50}
	cache := usecase.NewRateCache(settings, time.Hour)

	for i := 0; i < 3; i++ {
		rate, err := cache.Get()
		require.NoError(t, err)
		assert.Equal(t, float64(50), rate)
	}
	assert.Equal(t, 1, settings.calls)
}

func TestRateCacheReloadsAfterTTL(t *testing.T) {
	settings := &fakeSettingsRepo{rate: 50}
	cache := usecase.NewRateCache(settings, 10*time.Millisecond)

	_, err := cache.Get()
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	settings.rate = 80
	rate, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, float64(80), rate)
	assert.Equal(t, 2, settings.calls)
}

func TestRateCacheInvalidateForcesReload(t *testing.T) {
	settings := &fakeSettingsRepo{rate: 50}
	cache := usecase.NewRateCache(settings, time.Hour)

	_, err := cache.Get()
	require.NoError(t, err)

	settings.rate = 60
	cache.Invalidate()

	rate, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, float64(60), rate)
	assert.Equal(t, 2, settings.calls)
}

func TestRateCacheSetSkipsStore(t *testing.T) {
	settings := &fakeSettingsRepo{rate: 50}
	cache := usecase.NewRateCache(settings, time.Hour)

	cache.Set(75)

	rate, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, float64(75), rate)
	assert.Equal(t, 0, settings.calls)
}

func TestRateCachePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("settings unavailable")
	settings := &fakeSettingsRepo{err: storeErr}
	cache := usecase.NewRateCache(settings, time.Hour)

	_, err := cache.Get()
	assert.ErrorIs(t, err, storeErr)
}
