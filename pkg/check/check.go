// Package check verifies ahead of time that every asset of a manifest can be loaded, so
// that a missing or malformed file is reported before the program that needs it aborts.
package check

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"peertech.de/rtembed/pkg/load"
	"peertech.de/rtembed/pkg/loader"
	"peertech.de/rtembed/pkg/manifest"
	"peertech.de/rtembed/pkg/report"
)

// Attempt stores the outcome of loading a single asset.
type Attempt struct {
	Asset   manifest.Asset
	Size    int
	Loaded  bool
	Error   error
	Skipped bool
}

func New(options ...Option) *Checker {
	// Default options
	opts := Options{
		Reporter:    report.EmojiReporter{},
		Loader:      loader.Default,
		Concurrency: 1,
	}

	for _, option := range options {
		option(&opts)
	}

	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	// Loads run concurrently; reporters write to shared output.
	opts.Reporter = &lockedReporter{r: opts.Reporter}

	return &Checker{options: opts}
}

// Checker loads assets the same way the program would at run time. Every asset is
// loaded independently, even if several entries name the same file.
type Checker struct {
	options Options
}

// Run loads every asset with at most Concurrency loads in flight. A failing asset does
// not stop the others; assets not yet started when ctx is cancelled are skipped.
func (c *Checker) Run(ctx context.Context, assets []manifest.Asset) *Summary {
	summary := newSummary(len(assets))

	g := &errgroup.Group{}
	g.SetLimit(c.options.Concurrency)

	for i, asset := range assets {
		attempt := &Attempt{Asset: asset}
		summary.Attempts[i] = attempt

		if ctx.Err() != nil {
			attempt.Skipped = true
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				attempt.Skipped = true
				return nil
			}
			c.load(attempt)
			return nil
		})
	}
	_ = g.Wait()

	for _, attempt := range summary.Attempts {
		switch {
		case attempt.Skipped:
			summary.SkippedCount++
		case attempt.Loaded:
			summary.LoadedCount++
			summary.LoadedBytes += int64(attempt.Size)
		default:
			summary.FailedCount++
			if summary.Error == nil {
				summary.Error = attempt.Error
			}
		}
	}

	if summary.Error == nil && summary.SkippedCount > 0 {
		summary.Error = ctx.Err()
	}

	summary.Success = summary.Error == nil
	return summary
}

func (c *Checker) load(attempt *Attempt) {
	asset := attempt.Asset
	c.options.Reporter.Loading(asset.Name, asset.Rel)

	var size int
	var err error
	if asset.Text {
		var s string
		s, err = c.options.Loader.Text(asset.Path)
		size = len(s)
	} else {
		var data []byte
		data, err = c.options.Loader.Bytes(asset.Path)
		size = len(data)
	}

	if err != nil {
		attempt.Error = load.NewError("check", asset.Rel, asset.Path, err)
		c.options.Reporter.Fail(asset.Name, asset.Rel, attempt.Error)
		return
	}

	attempt.Loaded = true
	attempt.Size = size
	c.options.Reporter.Loaded(asset.Name, asset.Rel, size)
}

// lockedReporter serializes calls to a reporter.
type lockedReporter struct {
	mu sync.Mutex
	r  report.Reporter
}

func (l *lockedReporter) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Info(msg)
}

func (l *lockedReporter) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Warn(msg)
}

func (l *lockedReporter) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Error(msg)
}

func (l *lockedReporter) Loading(name, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Loading(name, path)
}

func (l *lockedReporter) Loaded(name, path string, size int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Loaded(name, path, size)
}

func (l *lockedReporter) Fail(name, path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Fail(name, path, err)
}
