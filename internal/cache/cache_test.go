package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/rental-market/internal/models"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "car:665f1c2e9b1d4a0012345678", Key(models.KindCar, "665f1c2e9b1d4a0012345678"))
	assert.Equal(t, "decoration:abc", Key(models.KindDecoration, "abc"))
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "car:1", models.Car{Color: "red"}))
	var car models.Car
	found, err := c.Get(ctx, "car:1", &car)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "car:1"))
	assert.NoError(t, c.Close())
}

func TestListingCache_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := NewListingCache(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0, time.Minute)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer c.Close()

	key := Key(models.KindCar, "cache-test")
	defer c.Delete(ctx, key)

	car := models.Car{Color: "blue", RentalPrice: 150, AdditionalAmenities: []string{"wifi"}}
	car.Title = "Cached"
	require.NoError(t, c.Set(ctx, key, car))

	var got models.Car
	found, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Cached", got.Title)
	assert.Equal(t, car.AdditionalAmenities, got.AdditionalAmenities)

	require.NoError(t, c.Delete(ctx, key))
	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
