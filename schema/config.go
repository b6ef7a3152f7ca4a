package schema

import "time"

const (
	// DefaultCols is the default terminal width.
	DefaultCols = 80
	// DefaultRows is the default terminal height.
	DefaultRows = 24
	// DefaultModel is used when no model is configured.
	DefaultModel ModelID = "gpt-4o-mini"
	// DefaultRefreshInterval throttles redraws while streaming.
	DefaultRefreshInterval = 100 * time.Millisecond
	// DefaultPollInterval bounds each idle wait on the channel.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultHistoryMax caps the history ledger.
	DefaultHistoryMax = 20
	// DefaultPresetName is preferred when the requested preset is unknown.
	DefaultPresetName PresetName = "default"
	// TutorialPresetName is used by the tutorial command.
	TutorialPresetName PresetName = "tutorial"
	// MinCols and MinRows bound the accepted geometry.
	MinCols = 20
	MinRows = 6
)
