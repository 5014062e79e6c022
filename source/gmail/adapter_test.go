package gmail

import (
	"context"
	"errors"
	"testing"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/source"
)

// fakeMailbox is a scriptable stand-in for the Gmail API.
type fakeMailbox struct {
	probeErr error
	ids      []string
	listErr  error
	messages map[string]*gmailapi.Message
	getErr   error

	lastQuery string
	lastMax   int64
}

func (f *fakeMailbox) Probe(ctx context.Context) error {
	return f.probeErr
}

func (f *fakeMailbox) ListIDs(ctx context.Context, query string, max int64) ([]string, error) {
	f.lastQuery = query
	f.lastMax = max
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *fakeMailbox) Message(ctx context.Context, id string) (*gmailapi.Message, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.messages[id], nil
}

func mail(subject, from, snippet string, date time.Time) *gmailapi.Message {
	headers := []*gmailapi.MessagePartHeader{}
	if subject != "" {
		headers = append(headers, &gmailapi.MessagePartHeader{Name: "Subject", Value: subject})
	}
	if from != "" {
		headers = append(headers, &gmailapi.MessagePartHeader{Name: "From", Value: from})
	}
	return &gmailapi.Message{
		Snippet:      snippet,
		InternalDate: date.UnixMilli(),
		Payload:      &gmailapi.MessagePart{Headers: headers},
	}
}

func fastSettings() *source.Settings {
	return source.NewSettings(
		source.WithMaxRetries(0),
		source.WithBaseDelay(time.Millisecond),
		source.WithTimeout(time.Second),
	)
}

func newTestAdapter(t *testing.T, fake *fakeMailbox) *Adapter {
	t.Helper()
	adapter, err := New("",
		[]source.LifecycleOption{source.WithSettings(fastSettings())},
		withMailbox(fake))
	require.NoError(t, err)
	return adapter
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New("", nil)
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestNewFromEnv_MissingPath(t *testing.T) {
	t.Setenv(EnvCredentials, "")
	_, err := NewFromEnv(nil)
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestConnect_Probes(t *testing.T) {
	adapter := newTestAdapter(t, &fakeMailbox{})

	assert.True(t, adapter.Connect(context.Background()))
	assert.True(t, adapter.IsConnected())
	assert.Equal(t, core.KindEmail, adapter.Kind())
}

func TestConnect_Unauthorized(t *testing.T) {
	fake := &fakeMailbox{probeErr: &googleapi.Error{Code: 401, Message: "Invalid Credentials"}}
	adapter := newTestAdapter(t, fake)

	assert.False(t, adapter.Connect(context.Background()))
	assert.Contains(t, adapter.Info().LastError, "authentication_failed")
}

func TestFetchAll_NormalizesMail(t *testing.T) {
	sent := time.Date(2024, 8, 16, 9, 0, 0, 0, time.UTC)
	fake := &fakeMailbox{
		ids: []string{"m1", "m2"},
		messages: map[string]*gmailapi.Message{
			"m1": mail("AI Research Meeting Schedule", "chair@lab.example", "Coordinating a meeting to discuss AI research", sent),
			"m2": mail("", "", "", sent), // no signal, skipped
		},
	}
	adapter := newTestAdapter(t, fake)

	records, err := adapter.FetchAll(context.Background(), core.KindEmail, source.DefaultFilters())
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, SourceName, record.SourceName)
	assert.Equal(t, core.KindEmail, record.Kind)
	assert.Equal(t, "AI Research Meeting Schedule", record.Title)
	assert.Equal(t, "Coordinating a meeting to discuss AI research", record.Body)
	assert.Equal(t, "ai research meeting schedule coordinating a meeting to discuss ai research", record.TextSignal)
	assert.Equal(t, "chair@lab.example", record.Metadata["from"])
	assert.Equal(t, "m1", record.Metadata["message_id"])
	assert.Equal(t, sent, record.Timestamp)
}

func TestFetchAll_FiltersPropagated(t *testing.T) {
	fake := &fakeMailbox{}
	adapter := newTestAdapter(t, fake)

	since := time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC)
	_, err := adapter.FetchAll(context.Background(), core.KindEmail,
		source.Filters{Query: "is:unread", Limit: 25, Since: since})
	require.NoError(t, err)

	assert.Equal(t, "is:unread after:1723766400", fake.lastQuery)
	assert.Equal(t, int64(25), fake.lastMax)
}

func TestFetchAll_RejectsOtherKinds(t *testing.T) {
	adapter := newTestAdapter(t, &fakeMailbox{})

	_, err := adapter.FetchAll(context.Background(), core.KindMessage, source.DefaultFilters())
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestFetchAll_ErrorClassified(t *testing.T) {
	fake := &fakeMailbox{listErr: &googleapi.Error{Code: 503, Message: "Backend Error"}}
	adapter := newTestAdapter(t, fake)

	_, err := adapter.FetchAll(context.Background(), core.KindEmail, source.DefaultFilters())
	require.Error(t, err)

	var se *core.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, core.CodeServerUnavailable, se.Code)
}

func TestClassify_Taxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want core.ErrorCode
	}{
		{"unauthorized", &googleapi.Error{Code: 401}, core.CodeAuthFailed},
		{"forbidden", &googleapi.Error{Code: 403}, core.CodePermissionDenied},
		{"quota as forbidden", &googleapi.Error{
			Code:   403,
			Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}},
		}, core.CodeRateLimited},
		{"too many requests", &googleapi.Error{Code: 429}, core.CodeRateLimited},
		{"server error", &googleapi.Error{Code: 500}, core.CodeServerUnavailable},
		{"deadline", context.DeadlineExceeded, core.CodeTimeout},
		{"opaque", errors.New("boom"), core.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var se *core.SourceError
			require.ErrorAs(t, classify(tt.err), &se)
			assert.Equal(t, tt.want, se.Code)
		})
	}
}
