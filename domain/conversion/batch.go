package conversion

// Failure pairs an upload name with the message explaining why it failed
type Failure struct {
	Name    string
	Message string
}

// BatchResult aggregates the outcomes of one batch run in processing order
type BatchResult struct {
	ID         string
	Successes  []string // Output paths
	Failures   []Failure
	BundlePath string // Empty when no bundle was produced
}

// Total returns the number of items that were attempted
func (r *BatchResult) Total() int {
	return len(r.Successes) + len(r.Failures)
}

// HasBundle reports whether the batch produced an archive
func (r *BatchResult) HasBundle() bool {
	return r.BundlePath != ""
}

// Report is the result of submitting uploads: validation rejections plus the batch result
type Report struct {
	Rejected []Rejection
	Result   *BatchResult
}
