package agentcast

import "errors"

// ErrScriptWriterDisabled is returned by WriteScript when the system
// was built without a podcast configuration.
var ErrScriptWriterDisabled = errors.New("script writer not configured")
