// Package gdocs adapts a Google Drive account as a document source.
//
// The adapter lists Google Docs files via the Drive API, pulls a body
// excerpt for each via the Docs API, and normalizes them into document
// records keyed on the document title.
package gdocs
