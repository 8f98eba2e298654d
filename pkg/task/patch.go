package task

import "time"

// Patch is a partial task update. Nil fields keep the stored value; the
// id and createdAt are never patchable. Storage owns the merge rules.
type Patch struct {
	Name     *string
	Status   *Status
	Execute  Handler
	Options  *OptionsPatch
	Metadata *MetadataPatch
}

// OptionsPatch updates individual option fields.
type OptionsPatch struct {
	Expression *string
	Timezone   *string
	MaxRetries *int
	RetryDelay *time.Duration
	Timeout    *time.Duration
	Exclusive  *bool
	CatchUp    *bool
}

// MetadataPatch updates individual metadata fields. LastRun and NextRun
// only replace the stored timestamps when the supplied value is itself
// valid; a zero time keeps the prior value instead of clearing it.
type MetadataPatch struct {
	RunCount  *int
	LastRun   *time.Time
	NextRun   *time.Time
	LastError *string
}
