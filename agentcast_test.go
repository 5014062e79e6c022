package agentcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/source"
	"github.com/hanjuhn/agentcast/source/mock"
)

func newTestSystem(t *testing.T, adapters []source.Adapter, opts ...SystemOption) *System {
	t.Helper()
	system, err := NewSystem(adapters, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { system.Close(context.Background()) })
	return system
}

func TestNewSystem_Validation(t *testing.T) {
	_, err := NewSystem(nil)
	assert.Error(t, err)

	_, err = NewSystem([]source.Adapter{mock.NewMockAdapter("slack")}, WithRules(nil))
	assert.Error(t, err)
}

func TestCollect_MixedOutcome(t *testing.T) {
	ts := time.Date(2024, 8, 16, 9, 0, 0, 0, time.UTC)

	slack := mock.NewMockAdapter("slack")
	slack.FetchAllFunc = func(ctx context.Context, kind core.RecordKind, filters source.Filters) ([]core.SourceRecord, error) {
		first, err := core.NewMessageRecord("slack", "AI research update", ts, nil)
		require.NoError(t, err)
		second, err := core.NewMessageRecord("slack", "lunch plans", ts, nil)
		require.NoError(t, err)
		return []core.SourceRecord{first, second}, nil
	}

	gmail := mock.NewMockAdapter("gmail")
	gmail.RecordKind = core.KindEmail
	gmail.FetchAllFunc = func(ctx context.Context, kind core.RecordKind, filters source.Filters) ([]core.SourceRecord, error) {
		return nil, errors.New("mailbox offline")
	}

	system := newTestSystem(t, []source.Adapter{slack, gmail})

	categories, results := system.Collect(context.Background(), source.DefaultFilters())

	require.Len(t, results, 2)
	assert.False(t, results[0].Degraded)
	assert.True(t, results[1].Degraded)

	items := make(map[string]int, len(categories))
	for _, category := range categories {
		items[category.Name] = len(category.Items)
	}
	assert.Equal(t, 3, items["AI_Research"], "the real slack record plus both fallback mails")
	assert.Equal(t, 1, items["General_Discussion"], "lunch chatter falls through to the catch-all")
}

func TestWriteScript_DisabledWithoutConfig(t *testing.T) {
	system := newTestSystem(t, []source.Adapter{mock.NewMockAdapter("slack")})

	_, err := system.WriteScript(context.Background(), []core.Category{{Name: "AI_Research"}})
	assert.ErrorIs(t, err, ErrScriptWriterDisabled)
}
