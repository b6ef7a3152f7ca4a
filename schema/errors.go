package schema

import "errors"

var (
	// ErrChannelClosed indicates the raw channel reached end of file or hung up.
	ErrChannelClosed = errors.New("channel closed")
	// ErrMissingDevice indicates no channel device path was configured.
	ErrMissingDevice = errors.New("tty device path is required")
	// ErrMissingAPIKey indicates the model API key is not configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
	// ErrEmptyQuery indicates a search command without a query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownPreset indicates a preset name missing from the catalog.
	ErrUnknownPreset = errors.New("unknown preset")
)
