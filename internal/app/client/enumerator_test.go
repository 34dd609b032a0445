package client

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flagexpiry/internal/domain/flags"
)

func generateFlags(n int) []flags.FlagRecord {
	records := make([]flags.FlagRecord, n)
	for i := range records {
		records[i] = flags.FlagRecord{
			Key:          fmt.Sprintf("flag-%03d", i),
			Name:         fmt.Sprintf("Flag %d", i),
			CreationDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		}
	}
	return records
}

func TestEnumeratorFetchAllPagination(t *testing.T) {
	// 107 флагов при странице 50: три запроса, последняя страница короткая
	stub := newStubAPI(t, generateFlags(107))
	api := newTestClient(t, testConfig(stub.server.URL))

	enum := NewEnumerator(api, EnumeratorConfig{PageSize: 50}, testLogger())

	records, err := enum.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, records, 107)
	assert.Equal(t, 3, stub.listCalls)

	// Порядок прихода сохраняется
	assert.Equal(t, "flag-000", records[0].Key)
	assert.Equal(t, "flag-106", records[106].Key)
}

func TestEnumeratorFetchAllExactPageBoundary(t *testing.T) {
	// Ровно 50 флагов: вторая страница пустая, обход завершается
	stub := newStubAPI(t, generateFlags(50))
	api := newTestClient(t, testConfig(stub.server.URL))

	enum := NewEnumerator(api, EnumeratorConfig{PageSize: 50}, testLogger())

	records, err := enum.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, records, 50)
	assert.Equal(t, 2, stub.listCalls)
}

func TestEnumeratorFetchAllEmpty(t *testing.T) {
	stub := newStubAPI(t, nil)
	api := newTestClient(t, testConfig(stub.server.URL))

	enum := NewEnumerator(api, EnumeratorConfig{PageSize: 50}, testLogger())

	records, err := enum.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, 1, stub.listCalls)
}

func TestEnumeratorFetchAllErrorWrapsOffset(t *testing.T) {
	// Сервер недоступен: ошибка фатальна и содержит offset
	api := newTestClient(t, testConfig("http://127.0.0.1:1"))

	enum := NewEnumerator(api, EnumeratorConfig{PageSize: 50}, testLogger())

	_, err := enum.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 0")
}
