package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.InitSchema())

	return client
}

func insertRecord(t *testing.T, c *Client, queryID string, createdAt time.Time) {
	t.Helper()

	err := c.InsertHistoryRecord(&models.HistoryRecord{
		QueryID:       queryID,
		Symptoms:      "test symptoms",
		ModelResponse: `{"disclaimer":"d"}`,
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
}

func TestInsertAndReadBack(t *testing.T) {
	client := newTestClient(t)

	age := 42
	pregnant := false
	err := client.InsertHistoryRecord(&models.HistoryRecord{
		QueryID:           "q-1",
		UserID:            "user-1",
		Symptoms:          "mild headache",
		Age:               &age,
		Pregnant:          &pregnant,
		ChronicConditions: "asthma",
		ModelResponse:     `{"disclaimer":"d"}`,
		CreatedAt:         time.Now(),
	})
	require.NoError(t, err)

	records, err := client.RecentHistory(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "q-1", r.QueryID)
	assert.Equal(t, "user-1", r.UserID)
	assert.Equal(t, "mild headache", r.Symptoms)
	require.NotNil(t, r.Age)
	assert.Equal(t, 42, *r.Age)
	require.NotNil(t, r.Pregnant)
	assert.False(t, *r.Pregnant)
	assert.Equal(t, "asthma", r.ChronicConditions)
	assert.Equal(t, `{"disclaimer":"d"}`, r.ModelResponse)
}

func TestInsertWithNilOptionalFields(t *testing.T) {
	client := newTestClient(t)

	insertRecord(t, client, "q-1", time.Now())

	records, err := client.RecentHistory(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Age)
	assert.Nil(t, records[0].Pregnant)
}

func TestRecentHistoryNewestFirst(t *testing.T) {
	client := newTestClient(t)

	base := time.Now().Add(-time.Hour)
	insertRecord(t, client, "q-old", base)
	insertRecord(t, client, "q-mid", base.Add(time.Minute))
	insertRecord(t, client, "q-new", base.Add(2*time.Minute))

	records, err := client.RecentHistory(10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "q-new", records[0].QueryID)
	assert.Equal(t, "q-mid", records[1].QueryID)
	assert.Equal(t, "q-old", records[2].QueryID)
}

func TestRecentHistorySameSecondKeepsInsertionOrder(t *testing.T) {
	client := newTestClient(t)

	now := time.Now()
	for i := 0; i < 3; i++ {
		insertRecord(t, client, fmt.Sprintf("q-%d", i), now)
	}

	records, err := client.RecentHistory(10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "q-2", records[0].QueryID)
	assert.Equal(t, "q-0", records[2].QueryID)
}

func TestRecentHistoryLimit(t *testing.T) {
	client := newTestClient(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		insertRecord(t, client, fmt.Sprintf("q-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	records, err := client.RecentHistory(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "q-4", records[0].QueryID)
}

func TestClearHistoryIdempotent(t *testing.T) {
	client := newTestClient(t)

	insertRecord(t, client, "q-1", time.Now())

	require.NoError(t, client.ClearHistory())
	records, err := client.RecentHistory(10)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Clearing an empty store succeeds.
	require.NoError(t, client.ClearHistory())
}

func TestDuplicateQueryIDRejected(t *testing.T) {
	client := newTestClient(t)

	insertRecord(t, client, "q-1", time.Now())

	err := client.InsertHistoryRecord(&models.HistoryRecord{
		QueryID:   "q-1",
		Symptoms:  "other",
		CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}
