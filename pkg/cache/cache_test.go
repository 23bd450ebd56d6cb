package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache map[string]string

func (m mapCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m mapCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m[key] = value
	return nil
}

func (m mapCache) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

type brokenCache struct{ mapCache }

func (brokenCache) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := mapCache{}

	type entry struct {
		City string `json:"city"`
	}
	require.NoError(t, SetJSON(ctx, c, "geo:1.2.3.4", entry{City: "Lisbon"}, time.Minute))

	var got entry
	found, err := GetJSON(ctx, c, "geo:1.2.3.4", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Lisbon", got.City)
}

func TestGetJSON_Miss(t *testing.T) {
	var dst map[string]string
	found, err := GetJSON(context.Background(), mapCache{}, "absent", &dst)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSON_CorruptValue(t *testing.T) {
	c := mapCache{"k": "{not json"}
	var dst map[string]string
	found, err := GetJSON(context.Background(), c, "k", &dst)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestGetJSON_BackendError(t *testing.T) {
	var dst map[string]string
	_, err := GetJSON(context.Background(), brokenCache{}, "k", &dst)
	assert.EqualError(t, err, "connection refused")
}
