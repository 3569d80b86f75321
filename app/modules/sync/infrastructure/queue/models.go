package syncqueue

// RetentionJob sweeps completed queue items past the retention window. It
// carries no args: one sweep covers every user.
type RetentionJob struct{}

// Kind returns the job type identifier for River.
func (RetentionJob) Kind() string { return "sync_retention" }
