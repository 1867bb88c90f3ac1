package check

func newSummary(n int) *Summary {
	return &Summary{
		Attempts:   make([]*Attempt, n),
		TotalCount: n,
	}
}

// Summary provides a detailed report of a Run.
type Summary struct {
	Success      bool
	Error        error      // first failure in declaration order
	Attempts     []*Attempt // attempts in declaration order
	TotalCount   int
	LoadedCount  int
	FailedCount  int
	SkippedCount int
	LoadedBytes  int64
}
