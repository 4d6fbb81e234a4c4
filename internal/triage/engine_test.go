package triage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage/backend/internal/llm"
	"github.com/symptom-triage/backend/internal/storage/sqlite"
)

type fakeGateway struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeGateway) Complete(ctx context.Context, model, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestEngine(t *testing.T, gateway llm.Gateway) (*Engine, *sqlite.Client) {
	t.Helper()

	db, err := sqlite.NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitSchema())

	return NewEngine(db, gateway, "gpt-4o-mini"), db
}

func TestProcessQuerySelfHarmShortCircuit(t *testing.T) {
	gw := &fakeGateway{reply: "{}"}
	engine, db := newTestEngine(t, gw)

	resp, err := engine.ProcessQuery(context.Background(), QueryRequest{
		Symptoms: "I want to end my life",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Escalation)
	assert.Equal(t, EscalationEmergency, resp.Escalation.Level)
	assert.Empty(t, resp.ProbableConditions)
	assert.Equal(t, 0, gw.calls)

	records, err := db.RecentHistory(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProcessQueryRedFlagShortCircuit(t *testing.T) {
	gw := &fakeGateway{reply: "{}"}
	engine, db := newTestEngine(t, gw)

	resp, err := engine.ProcessQuery(context.Background(), QueryRequest{
		Symptoms: "sudden chest pain and difficulty breathing",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Escalation)
	assert.Equal(t, "Red-flag symptoms detected: chest pain, difficulty breathing.", resp.Escalation.Message)
	assert.Empty(t, resp.ProbableConditions)
	assert.Equal(t, []string{"Go to the nearest emergency department."}, resp.NextSteps)
	assert.Equal(t, 0, gw.calls)

	records, err := db.RecentHistory(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProcessQuerySelfHarmWinsOverRedFlags(t *testing.T) {
	gw := &fakeGateway{}
	engine, _ := newTestEngine(t, gw)

	resp, err := engine.ProcessQuery(context.Background(), QueryRequest{
		Symptoms: "chest pain and I want to kill myself",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Escalation)
	assert.NotContains(t, resp.Escalation.Message, "chest pain")
	assert.Equal(t, []string{"Seek immediate help from emergency services or a crisis line."}, resp.NextSteps)
}

func TestProcessQueryRedactsPIIBeforeSafetyChecks(t *testing.T) {
	gw := &fakeGateway{}
	engine, _ := newTestEngine(t, gw)

	resp, err := engine.ProcessQuery(context.Background(), QueryRequest{
		Symptoms: "I have chest pain and my email is a@b.com",
	})
	require.NoError(t, err)

	// The red flag still fires on the sanitized text.
	require.NotNil(t, resp.Escalation)
	assert.Contains(t, resp.Escalation.Message, "chest pain")
	assert.Empty(t, resp.ProbableConditions)
	assert.Equal(t, 0, gw.calls)
}

func TestProcessQueryGatewayErrorPropagates(t *testing.T) {
	gwErr := &llm.GatewayError{Provider: "openai", Reason: "missing API key"}
	gw := &fakeGateway{err: gwErr}
	engine, db := newTestEngine(t, gw)

	resp, err := engine.ProcessQuery(context.Background(), QueryRequest{
		Symptoms: "mild headache for two days",
	})

	require.Error(t, err)
	assert.Nil(t, resp)

	var asGateway *llm.GatewayError
	assert.True(t, errors.As(err, &asGateway))
	assert.Equal(t, 1, gw.calls)

	records, err := db.RecentHistory(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProcessQuerySuccessPersistsHistory(t *testing.T) {
	age := 30
	gw := &fakeGateway{reply: wellFormedReply}
	engine, db := newTestEngine(t, gw)

	resp, err := engine.ProcessQuery(context.Background(), QueryRequest{
		UserID:   "user-1",
		Symptoms: "mild headache for two days",
		Age:      &age,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, 1, gw.calls)
	assert.Contains(t, gw.prompt, "mild headache for two days")
	assert.Contains(t, gw.prompt, "Patient age: 30")

	records, err := db.RecentHistory(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, resp.Metadata["query_id"], records[0].QueryID)
	assert.Equal(t, "user-1", records[0].UserID)
	assert.Equal(t, "mild headache for two days", records[0].Symptoms)
	require.NotNil(t, records[0].Age)
	assert.Equal(t, 30, *records[0].Age)

	var stored ModelResponse
	require.NoError(t, json.Unmarshal([]byte(records[0].ModelResponse), &stored))
	assert.Equal(t, resp.ProbableConditions, stored.ProbableConditions)
}

func TestProcessQueryAppendsRedactionNoteToPrompt(t *testing.T) {
	gw := &fakeGateway{reply: wellFormedReply}
	engine, _ := newTestEngine(t, gw)

	_, err := engine.ProcessQuery(context.Background(), QueryRequest{
		Symptoms: "headache, contact me at a@b.com",
	})
	require.NoError(t, err)

	assert.Contains(t, gw.prompt, "<EMAIL_REDACTED>")
	assert.Contains(t, gw.prompt, "(PII removed)")
	assert.NotContains(t, gw.prompt, "a@b.com")
}

func TestProcessQueryFallbackStillPersists(t *testing.T) {
	gw := &fakeGateway{reply: "no json here at all"}
	engine, db := newTestEngine(t, gw)

	resp, err := engine.ProcessQuery(context.Background(), QueryRequest{
		Symptoms: "mild headache",
	})
	require.NoError(t, err)

	require.Len(t, resp.ProbableConditions, 1)
	assert.Equal(t, "Unclear response", resp.ProbableConditions[0].Name)

	records, err := db.RecentHistory(10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestProcessQueryGeneratesDistinctQueryIDs(t *testing.T) {
	gw := &fakeGateway{reply: wellFormedReply}
	engine, _ := newTestEngine(t, gw)

	first, err := engine.ProcessQuery(context.Background(), QueryRequest{Symptoms: "mild headache"})
	require.NoError(t, err)
	second, err := engine.ProcessQuery(context.Background(), QueryRequest{Symptoms: "mild headache"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Metadata["query_id"], second.Metadata["query_id"])
}
