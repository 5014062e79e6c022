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


package gdocs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	docsapi "google.golang.org/api/docs/v1"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/hanjuhn/agentcast/core"
	"github.com/hanjuhn/agentcast/source"
)

// SourceName is the registry name of this adapter.
const SourceName = "gdocs"

// EnvCredentials names the environment variable holding the path to the
// Google service credentials file.
const EnvCredentials = "GDOCS_CREDENTIALS_FILE"

// docMimeType selects native Google Docs files in Drive queries.
const docMimeType = "application/vnd.google-apps.document"

// excerptLimit caps the body excerpt carried on a document record.
const excerptLimit = 500

// DocFile is one listed document before normalization.
type DocFile struct {
	ID       string
	Title    string
	Modified time.Time
}

// library is the slice of the Drive and Docs APIs this adapter uses.
// Tests substitute a fake; production wires the real services through
// restClient.
type library interface {
	// Probe verifies the account is reachable and readable.
	Probe(ctx context.Context) error

	// ListDocuments returns the most recently modified Google Docs
	// files matching the query.
	ListDocuments(ctx context.Context, query string, since time.Time, max int64) ([]DocFile, error)

	// DocumentText returns the plain body text of one document.
	DocumentText(ctx context.Context, id string) (string, error)
}

// Adapter collects Google Docs documents from one Drive account.
type Adapter struct {
	*source.Lifecycle

	credentialsFile string
	client          library
}

var _ source.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// withLibrary substitutes the Drive and Docs client. Test hook.
func withLibrary(l library) Option {
	return func(a *Adapter) {
		a.client = l
	}
}

// New creates a Docs adapter reading credentials from the given file.
// The API clients are built lazily on the first connect.
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

// NewFromEnv creates a Docs adapter from the GDOCS_CREDENTIALS_FILE
// environment variable. Fails fast when the variable is unset.
func NewFromEnv(lifecycleOpts []source.LifecycleOption, opts ...Option) (*Adapter, error) {
	path := os.Getenv(EnvCredentials)
	if path == "" {
		return nil, fmt.Errorf("%s not set: %w", EnvCredentials, ErrCredentialsRequired)
	}
	return New(path, lifecycleOpts, opts...)
}

// Kind returns core.KindDocument; Drive produces document records.
func (a *Adapter) Kind() core.RecordKind {
	return core.KindDocument
}

// FetchAll lists Google Docs files and returns them as document
// records. The title is the classification signal; a body excerpt and
// the file ID ride along on the record.
func (a *Adapter) FetchAll(ctx context.Context, kind core.RecordKind, filters source.Filters) ([]core.SourceRecord, error) {
	if kind != core.KindDocument {
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
	files, err := a.client.ListDocuments(ctx, filters.Query, filters.Since, int64(filters.Limit))
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	records := make([]core.SourceRecord, 0, len(files))
	for _, file := range files {
		record, err := core.NewDocumentRecord(SourceName, file.Title, file.Modified,
			map[string]string{"document_id": file.ID})
		if err != nil {
			// Untitled documents carry no classification signal.
			continue
		}

		text, err := a.client.DocumentText(ctx, file.ID)
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", file.ID, err)
		}
		record.Body = excerpt(text)

		records = append(records, record)
	}
	return records, nil
}

// excerpt trims body text to a bounded, single-spaced excerpt.
func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > excerptLimit {
		text = text[:excerptLimit]
	}
	return text
}

// restDialer builds the Drive and Docs services on first dial and
// probes the account.
type restDialer struct {
	adapter *Adapter
}

func (d *restDialer) Dial(ctx context.Context) error {
	if d.adapter.client == nil {
		drive, err := driveapi.NewService(ctx,
			option.WithCredentialsFile(d.adapter.credentialsFile),
			option.WithScopes(driveapi.DriveReadonlyScope))
		if err != nil {
			return classify(fmt.Errorf("building drive service: %w", err))
		}

		docs, err := docsapi.NewService(ctx,
			option.WithCredentialsFile(d.adapter.credentialsFile),
			option.WithScopes(docsapi.DocumentsReadonlyScope))
		if err != nil {
			return classify(fmt.Errorf("building docs service: %w", err))
		}

		d.adapter.client = &restClient{drive: drive, docs: docs}
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

// restClient adapts the Drive and Docs services to the library
// interface.
type restClient struct {
	drive *driveapi.Service
	docs  *docsapi.Service
}

func (c *restClient) Probe(ctx context.Context) error {
	_, err := c.drive.About.Get().Fields("user").Context(ctx).Do()
	return err
}

func (c *restClient) ListDocuments(ctx context.Context, query string, since time.Time, max int64) ([]DocFile, error) {
	terms := []string{fmt.Sprintf("mimeType='%s'", docMimeType), "trashed=false"}
	if query != "" {
		terms = append(terms, fmt.Sprintf("name contains '%s'", strings.ReplaceAll(query, "'", `\'`)))
	}
	if !since.IsZero() {
		terms = append(terms, fmt.Sprintf("modifiedTime > '%s'", since.UTC().Format(time.RFC3339)))
	}

	response, err := c.drive.Files.List().
		Q(strings.Join(terms, " and ")).
		OrderBy("modifiedTime desc").
		PageSize(max).
		Fields("files(id, name, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	files := make([]DocFile, 0, len(response.Files))
	for _, file := range response.Files {
		modified, _ := time.Parse(time.RFC3339, file.ModifiedTime)
		files = append(files, DocFile{ID: file.Id, Title: file.Name, Modified: modified})
	}
	return files, nil
}

func (c *restClient) DocumentText(ctx context.Context, id string) (string, error) {
	document, err := c.docs.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return flatten(document), nil
}

// flatten walks a document body and concatenates its paragraph text.
func flatten(document *docsapi.Document) string {
	if document == nil || document.Body == nil {
		return ""
	}

	var b strings.Builder
	for _, element := range document.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, pe := range element.Paragraph.Elements {
			if pe.TextRun != nil {
				b.WriteString(pe.TextRun.Content)
			}
		}
	}
	return b.String()
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
			return core.NewSourceError(SourceName, core.CodePermissionDenied, err)
		case apiErr.Code >= 500:
			return core.NewSourceError(SourceName, core.CodeServerUnavailable, err)
		}
	}

	return core.ClassifyErr(SourceName, err)
}
