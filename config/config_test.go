package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/redbco/nosqldb/wire"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := New("http://localhost:8080")

	require.Equal(t, "http://localhost:8080", c.Endpoint)
	require.Equal(t, CloudSimService, c.ServiceType)
	require.Equal(t, 5*time.Second, c.DefaultTimeout)
	require.Equal(t, wire.V4, c.SerialVersion)
	require.False(t, c.RateLimiterEnabled)
	require.Equal(t, 100.0, c.RateLimiterPercent)
	require.Equal(t, int64(32*1024*1024), c.MaxContentLength)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	c := New("http://host",
		WithServiceType(KVStoreService),
		WithDefaultTimeout(2*time.Second),
		WithSerialVersion(wire.V3),
		WithRateLimiter(75.0),
		WithMaxContentLength(1024),
	)

	require.Equal(t, KVStoreService, c.ServiceType)
	require.Equal(t, 2*time.Second, c.DefaultTimeout)
	require.Equal(t, wire.V3, c.SerialVersion)
	require.True(t, c.RateLimiterEnabled)
	require.Equal(t, 75.0, c.RateLimiterPercent)
	require.Equal(t, int64(1024), c.MaxContentLength)
}

func TestServiceTypeString(t *testing.T) {
	require.Equal(t, "CLOUD", CloudService.String())
	require.Equal(t, "CLOUDSIM", CloudSimService.String())
	require.Equal(t, "KVSTORE", KVStoreService.String())
	require.Equal(t, "UNKNOWN", ServiceType(99).String())
}
