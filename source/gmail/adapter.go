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


package gmail

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/source"
)

// SourceName is the registry name of this adapter.
const SourceName = "gmail"

// EnvCredentials names the environment variable holding the path to the
// Google service credentials file.
const EnvCredentials = "GMAIL_CREDENTIALS_FILE"

// mailbox is the slice of the Gmail API this adapter uses.
// Tests substitute a fake; production wires *gmailapi.Service through
// restClient.
type mailbox interface {
	// Probe verifies the mailbox is reachable and readable.
	Probe(ctx context.Context) error

	// ListIDs returns the IDs of the most recent messages matching the
	// query, newest first.
	ListIDs(ctx context.Context, query string, max int64) ([]string, error)

	// Message loads one message's subject, snippet, sender, and
	// internal date.
	Message(ctx context.Context, id string) (*gmailapi.Message, error)
}

// Adapter collects recent mail from one Gmail mailbox.
type Adapter struct {
	*source.Lifecycle

	credentialsFile string
	client          mailbox
}

var _ source.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// withMailbox substitutes the Gmail client. Test hook.
func withMailbox(m mailbox) Option {
	return func(a *Adapter) {
		a.client = m
	}
}

// New creates a Gmail adapter reading credentials from the given file.
// The API client itself is built lazily on the first connect, so the
// constructor performs no I/O.
func New(credentialsFile string, lifecycleOpts []source.LifecycleOption, opts ...Option) (*Adapter, error) {
	a := &Adapter{credentialsFile: credentialsFile}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil && a.credentialsFile == "" {
		return nil, ErrCredentialsRequired
	}

	lifecycle, err := source.NewLifecycle(SourceName, &restDialer{adapter: a}, lifecycleOpts...)
	if err != nil {
		return nil, err
	}
	a.Lifecycle = lifecycle
	return a, nil
}

// NewFromEnv creates a Gmail adapter from the GMAIL_CREDENTIALS_FILE
// environment variable. Fails fast when the variable is unset.
func NewFromEnv(lifecycleOpts []source.LifecycleOption, opts ...Option) (*Adapter, error) {
	path := os.Getenv(EnvCredentials)
	if path == "" {
		return nil, fmt.Errorf("%s not set: %w", EnvCredentials, ErrCredentialsRequired)
	}
	return New(path, lifecycleOpts, opts...)
}

// Kind returns core.KindEmail; Gmail produces email records.
func (a *Adapter) Kind() core.RecordKind {
	return core.KindEmail
}

// FetchAll lists recent mail and returns it as email records. The text
// signal combines subject and snippet; sender and message ID are
// carried in record metadata.
func (a *Adapter) FetchAll(ctx context.Context, kind core.RecordKind, filters source.Filters) ([]core.SourceRecord, error) {
	if kind != core.KindEmail {
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
	query := filters.Query
	if !filters.Since.IsZero() {
		// Gmail's after: operator takes epoch seconds.
		query = fmt.Sprintf("%s after:%d", query, filters.Since.Unix())
	}

	ids, err := a.client.ListIDs(ctx, query, int64(filters.Limit))
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	records := make([]core.SourceRecord, 0, len(ids))
	for _, id := range ids {
		message, err := a.client.Message(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading message %s: %w", id, err)
		}

		subject, from := headerValues(message)
		metadata := map[string]string{"message_id": id}
		if from != "" {
			metadata["from"] = from
		}

		record, err := core.NewEmailRecord(SourceName, subject, message.Snippet,
			time.UnixMilli(message.InternalDate).UTC(), metadata)
		if err != nil {
			// Mail with neither subject nor snippet has no signal to
			// classify on.
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// headerValues extracts the Subject and From headers from a message
// payload fetched in metadata format.
func headerValues(message *gmailapi.Message) (subject, from string) {
	if message == nil || message.Payload == nil {
		return "", ""
	}
	for _, header := range message.Payload.Headers {
		switch header.Name {
		case "Subject":
			subject = header.Value
		case "From":
			from = header.Value
		}
	}
	return subject, from
}

// restDialer builds the Gmail service on first dial and probes the
// mailbox. The REST API is stateless, so Hangup has nothing to tear
// down.
type restDialer struct {
	adapter *Adapter
}

func (d *restDialer) Dial(ctx context.Context) error {
	if d.adapter.client == nil {
		service, err := gmailapi.NewService(ctx,
			option.WithCredentialsFile(d.adapter.credentialsFile),
			option.WithScopes(gmailapi.GmailReadonlyScope))
		if err != nil {
			return classify(fmt.Errorf("building gmail service: %w", err))
		}
		d.adapter.client = &restClient{service: service}
	}

	if err := d.adapter.client.Probe(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (d *restDialer) Hangup(ctx context.Context) error {
	return nil
}

func (d *restDialer) Ping(ctx context.Context) error {
	if err := d.adapter.client.Probe(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// restClient adapts *gmailapi.Service to the mailbox interface.
type restClient struct {
	service *gmailapi.Service
}

func (c *restClient) Probe(ctx context.Context) error {
	_, err := c.service.Users.GetProfile("me").Context(ctx).Do()
	return err
}

func (c *restClient) ListIDs(ctx context.Context, query string, max int64) ([]string, error) {
	call := c.service.Users.Messages.List("me").MaxResults(max).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}

	response, err := call.Do()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Messages))
	for _, message := range response.Messages {
		ids = append(ids, message.Id)
	}
	return ids, nil
}

func (c *restClient) Message(ctx context.Context, id string) (*gmailapi.Message, error) {
	return c.service.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("Subject", "From").
		Context(ctx).
		Do()
}

// classify maps Google API errors onto the shared taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401:
			return core.NewSourceError(SourceName, core.CodeAuthFailed, err)
		case apiErr.Code == 429:
			return core.NewSourceError(SourceName, core.CodeRateLimited, err)
		case apiErr.Code == 403:
			if rateLimitReason(apiErr) {
				return core.NewSourceError(SourceName, core.CodeRateLimited, err)
			}
			return core.NewSourceError(SourceName, core.CodePermissionDenied, err)
		case apiErr.Code >= 500:
			return core.NewSourceError(SourceName, core.CodeServerUnavailable, err)
		}
	}

	return core.ClassifyErr(SourceName, err)
}

// rateLimitReason reports whether a 403 is really a quota rejection.
func rateLimitReason(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}
