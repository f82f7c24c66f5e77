package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbsessions/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestErrors(t *testing.T) {
	t.Parallel()

	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil, nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	attr := logger.Duration(2 * time.Second)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, 2*time.Second, attr.Value.Duration())
}

func TestComponent(t *testing.T) {
	t.Parallel()

	attr := logger.Component("session")
	require.Equal(t, "component", attr.Key)
	assert.Equal(t, "session", attr.Value.String())
}

func TestID(t *testing.T) {
	t.Parallel()

	attr := logger.ID("session_id", "abc")
	require.Equal(t, "session_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())

	empty := logger.ID("session_id", nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestCount(t *testing.T) {
	t.Parallel()

	attr := logger.Count("rows", 7)
	require.Equal(t, "rows", attr.Key)
	assert.Equal(t, int64(7), attr.Value.Int64())
}

func TestRetryCount(t *testing.T) {
	t.Parallel()

	attr := logger.RetryCount(3)
	require.Equal(t, "retry_count", attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())
}
