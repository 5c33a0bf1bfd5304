package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{}, nil)
	require.Error(t, err)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(Config{URL: "not-a-redis-url"}, nil)
	require.Error(t, err)
}

func TestNilCacheIsAMiss(t *testing.T) {
	var c *ReportCache

	report, ok := c.Get(context.Background(), "Samsung", "Galaxy A54")
	assert.Nil(t, report)
	assert.False(t, ok)

	assert.NoError(t, c.Set(context.Background(), "Samsung", "Galaxy A54", nil))
	assert.NoError(t, c.Close())
}

func TestReportKey(t *testing.T) {
	assert.Equal(t, "report:samsung:galaxy a54", reportKey("Samsung", "Galaxy A54"))
}
