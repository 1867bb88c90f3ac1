package check

import (
	"peertech.de/rtembed/pkg/loader"
	"peertech.de/rtembed/pkg/report"
)

type Option = func(*Options)

type Options struct {
	Reporter    report.Reporter
	Loader      *loader.Loader
	Concurrency int
}

func WithReporter(r report.Reporter) Option {
	return func(o *Options) {
		o.Reporter = r
	}
}

func WithLoader(l *loader.Loader) Option {
	return func(o *Options) {
		o.Loader = l
	}
}

func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}
