// Package gmail adapts a Gmail mailbox as an email source.
//
// The adapter lists recent messages for the authenticated user and
// normalizes subject and snippet into email records. HTTP statuses from
// the Google API are mapped onto the shared error taxonomy.
package gmail
