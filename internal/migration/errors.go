package migration

import "errors"

// ErrLegacyStateMalformed is returned if the legacy state file exists but
// cannot be parsed into the expected shape.
var ErrLegacyStateMalformed = errors.New("legacy state file is malformed")

// ErrVerificationFailed is returned if records written to the durable store
// during a migration cannot be read back, or the stored count does not match
// the transformed input count.
var ErrVerificationFailed = errors.New("migrated record verification failed")
