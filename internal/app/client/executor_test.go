package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// scriptedRequests возвращает requestFunc, отдающий ответы по очереди,
// и счетчик фактических попыток
func scriptedRequests(responses ...func() (*http.Response, error)) (requestFunc, *int) {
	attempts := 0
	fn := func(ctx context.Context) (*http.Response, error) {
		idx := attempts
		attempts++
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		return responses[idx]()
	}
	return fn, &attempts
}

func TestExecutorRateLimitRetry(t *testing.T) {
	// [429, 429, 200] при трех попытках должен вернуть 200
	fn, attempts := scriptedRequests(
		func() (*http.Response, error) { return makeResponse(429, ""), nil },
		func() (*http.Response, error) { return makeResponse(429, ""), nil },
		func() (*http.Response, error) { return makeResponse(200, `{}`), nil },
	)

	exec := NewExecutor(ExecutorConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, testLogger())

	resp, err := exec.ExecuteWithRetry(context.Background(), fn)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 3, *attempts)
}

func TestExecutorRateLimitExhausted(t *testing.T) {
	fn, attempts := scriptedRequests(
		func() (*http.Response, error) { return makeResponse(429, ""), nil },
	)

	exec := NewExecutor(ExecutorConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, testLogger())

	_, err := exec.ExecuteWithRetry(context.Background(), fn)
	require.Error(t, err)
	assert.Equal(t, 3, *attempts)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
}

func TestExecutorServerErrorRetries(t *testing.T) {
	// [500, 500] при двух попытках: ошибка с кодом 500, ровно две попытки
	fn, attempts := scriptedRequests(
		func() (*http.Response, error) { return makeResponse(500, ""), nil },
		func() (*http.Response, error) { return makeResponse(500, ""), nil },
	)

	exec := NewExecutor(ExecutorConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}, testLogger())

	_, err := exec.ExecuteWithRetry(context.Background(), fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, 2, *attempts)
}

func TestExecutorNotFoundNeverRetried(t *testing.T) {
	fn, attempts := scriptedRequests(
		func() (*http.Response, error) { return makeResponse(404, ""), nil },
	)

	exec := NewExecutor(ExecutorConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, testLogger())

	_, err := exec.ExecuteWithRetry(context.Background(), fn)
	require.Error(t, err)
	// 404 не ретраится: решение принимается по структурному коду
	assert.Equal(t, 1, *attempts)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestExecutorUnauthorizedGuidance(t *testing.T) {
	fn, _ := scriptedRequests(
		func() (*http.Response, error) { return makeResponse(401, `{"message":"invalid token"}`), nil },
	)

	exec := NewExecutor(ExecutorConfig{MaxAttempts: 1, BaseDelay: time.Millisecond}, testLogger())

	_, err := exec.ExecuteWithRetry(context.Background(), fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid token")
	assert.Contains(t, err.Error(), "права на чтение и запись")
}

func TestExecutorNetworkErrorRetried(t *testing.T) {
	netErr := errors.New("connection refused")
	fn, attempts := scriptedRequests(
		func() (*http.Response, error) { return nil, netErr },
		func() (*http.Response, error) { return makeResponse(200, `{}`), nil },
	)

	exec := NewExecutor(ExecutorConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, testLogger())

	resp, err := exec.ExecuteWithRetry(context.Background(), fn)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 2, *attempts)
}

func TestExecutorSuccessNoExtraAttempts(t *testing.T) {
	fn, attempts := scriptedRequests(
		func() (*http.Response, error) { return makeResponse(200, `{}`), nil },
	)

	exec := NewExecutor(ExecutorConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, testLogger())

	resp, err := exec.ExecuteWithRetry(context.Background(), fn)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 1, *attempts)
}
