package yearly

import "errors"

// Error taxonomy for a derivation run. Only these two classes abort a run;
// everything else degrades to an absent field or a zero default.
var (
	// ErrBadTimezone indicates an unrecognized IANA timezone identifier.
	// Callers are expected to validate zones before invoking the engine.
	ErrBadTimezone = errors.New("yearly: unrecognized timezone")

	// ErrStoreInit indicates the embedded store could not be built or bulk
	// loaded. Every downstream statistic assumes the full dataset is
	// present, so partial loads are never tolerated.
	ErrStoreInit = errors.New("yearly: store initialization failed")
)
