// Copyright 2025 Agentcast Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package slack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/source"
)

// SourceName is the registry name of this adapter.
const SourceName = "slack"

// EnvToken names the environment variable holding the bot token.
const EnvToken = "SLACK_BOT_TOKEN"

// api is the slice of the Slack client this adapter uses.
// *slackapi.Client satisfies it; tests substitute a fake.
type api interface {
	AuthTestContext(ctx context.Context) (*slackapi.AuthTestResponse, error)
	GetConversationsContext(ctx context.Context, params *slackapi.GetConversationsParameters) ([]slackapi.Channel, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slackapi.GetConversationHistoryParameters) (*slackapi.GetConversationHistoryResponse, error)
}

// Adapter collects channel messages from one Slack workspace.
type Adapter struct {
	*source.Lifecycle

	client       api
	channelTypes []string
}

var _ source.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithChannelTypes sets the conversation types to walk.
// Default is public channels only.
func WithChannelTypes(types ...string) Option {
	return func(a *Adapter) {
		if len(types) > 0 {
			a.channelTypes = types
		}
	}
}

// withClient substitutes the Slack client. Test hook.
func withClient(client api) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// New creates a Slack adapter authenticated with the given bot token.
func New(token string, opts ...Option) (*Adapter, error) {
	return newAdapter(token, nil, opts...)
}

// NewFromEnv creates a Slack adapter from the SLACK_BOT_TOKEN
// environment variable. Fails fast when the variable is unset.
func NewFromEnv(lifecycleOpts []source.LifecycleOption, opts ...Option) (*Adapter, error) {
	token := os.Getenv(EnvToken)
	if token == "" {
		return nil, fmt.Errorf("%s not set: %w", EnvToken, ErrTokenRequired)
	}
	return newAdapter(token, lifecycleOpts, opts...)
}

func newAdapter(token string, lifecycleOpts []source.LifecycleOption, opts ...Option) (*Adapter, error) {
	a := &Adapter{
		channelTypes: []string{"public_channel"},
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		if token == "" {
			return nil, ErrTokenRequired
		}
		a.client = slackapi.New(token)
	}

	dialer := &restDialer{client: a.client}
	lifecycle, err := source.NewLifecycle(SourceName, dialer, lifecycleOpts...)
	if err != nil {
		return nil, err
	}
	a.Lifecycle = lifecycle
	return a, nil
}

// NewWithLifecycle creates a Slack adapter with explicit lifecycle
// configuration (settings, logger, clock).
func NewWithLifecycle(token string, lifecycleOpts []source.LifecycleOption, opts ...Option) (*Adapter, error) {
	return newAdapter(token, lifecycleOpts, opts...)
}

// Kind returns core.KindMessage; Slack produces message records.
func (a *Adapter) Kind() core.RecordKind {
	return core.KindMessage
}

// FetchAll walks the workspace conversations and returns their recent
// history as message records. Channel names and author IDs are carried
// in record metadata.
func (a *Adapter) FetchAll(ctx context.Context, kind core.RecordKind, filters source.Filters) ([]core.SourceRecord, error) {
	if kind != core.KindMessage {
		return nil, classify(fmt.Errorf("kind %v: %w", kind, ErrUnsupportedKind))
	}
	if filters.Limit <= 0 {
		filters.Limit = source.DefaultFilters().Limit
	}

	var records []core.SourceRecord
	err := a.ExecuteWithRetry(ctx, func(ctx context.Context) error {
		collected, err := a.collect(ctx, filters)
		if err != nil {
			return classify(err)
		}
		records = collected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *Adapter) collect(ctx context.Context, filters source.Filters) ([]core.SourceRecord, error) {
	channels, _, err := a.client.GetConversationsContext(ctx, &slackapi.GetConversationsParameters{
		Types:           a.channelTypes,
		ExcludeArchived: true,
		Limit:           filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	var oldest string
	if !filters.Since.IsZero() {
		oldest = strconv.FormatInt(filters.Since.Unix(), 10)
	}

	var records []core.SourceRecord
	for _, channel := range channels {
		history, err := a.client.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
			ChannelID: channel.ID,
			Limit:     filters.Limit,
			Oldest:    oldest,
		})
		if err != nil {
			return nil, fmt.Errorf("history of #%s: %w", channel.Name, err)
		}

		for _, message := range history.Messages {
			// Join/leave notices and other system subtypes carry no
			// classifiable content.
			if message.SubType != "" || strings.TrimSpace(message.Text) == "" {
				continue
			}
			if filters.Query != "" && !strings.Contains(strings.ToLower(message.Text), strings.ToLower(filters.Query)) {
				continue
			}

			record, err := core.NewMessageRecord(SourceName, message.Text, parseSlackTime(message.Timestamp), map[string]string{
				"channel": channel.Name,
				"user":    message.User,
			})
			if err != nil {
				continue
			}
			records = append(records, record)

			if len(records) >= filters.Limit {
				return records, nil
			}
		}
	}
	return records, nil
}

// parseSlackTime converts a Slack "seconds.micros" timestamp string.
// Unparseable values fall back to the zero time.
func parseSlackTime(ts string) time.Time {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

// restDialer probes the workspace via auth.test. The Slack Web API is
// stateless, so Hangup has nothing to tear down.
type restDialer struct {
	client api
}

func (d *restDialer) Dial(ctx context.Context) error {
	if _, err := d.client.AuthTestContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (d *restDialer) Hangup(ctx context.Context) error {
	return nil
}

func (d *restDialer) Ping(ctx context.Context) error {
	if _, err := d.client.AuthTestContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps Slack client errors onto the shared taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *slackapi.RateLimitedError
	if errors.As(err, &rateErr) {
		return core.NewSourceError(SourceName, core.CodeRateLimited, err)
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "invalid_auth", "not_authed", "token_revoked", "token_expired", "account_inactive"):
		return core.NewSourceError(SourceName, core.CodeAuthFailed, err)
	case containsAny(msg, "missing_scope", "access_denied", "restricted_action", "not_in_channel"):
		return core.NewSourceError(SourceName, core.CodePermissionDenied, err)
	case containsAny(msg, "service_unavailable", "fatal_error", "internal_error"):
		return core.NewSourceError(SourceName, core.CodeServerUnavailable, err)
	}

	return core.ClassifyErr(SourceName, err)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
