package report

import (
	"fmt"
	"io"
	"os"
	"time"
)

type Reporter interface {
	// Info logs general informational messages to the user
	Info(msg string)

	// Warn logs warnings about misconfiguration or recoverable issues.
	Warn(msg string)

	// Error logs non-fatal errors
	Error(msg string)

	// Loading reports the start of an asset load
	Loading(name, path string)

	// Loaded reports a successfully loaded asset and its size in bytes
	Loaded(name, path string, size int)

	// Fail reports a failed load
	Fail(name, path string, err error)
}

func timestamp() string {
	return time.Now().Format(time.TimeOnly)
}

func display(name, path string) string {
	if name != "" && name != path {
		return fmt.Sprintf("%s (%s)", name, path)
	}
	return path
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

type EmojiReporter struct {
	Out io.Writer
}

func (r EmojiReporter) Info(msg string) {
	fmt.Fprintf(out(r.Out), "%s 📢 %s\n", timestamp(), msg)
}

func (r EmojiReporter) Warn(msg string) {
	fmt.Fprintf(out(r.Out), "%s ⚠️  %s\n", timestamp(), msg)
}

func (r EmojiReporter) Error(msg string) {
	fmt.Fprintf(out(r.Out), "%s ❌ %s\n", timestamp(), msg)
}

func (r EmojiReporter) Loading(name, path string) {
	fmt.Fprintf(out(r.Out), "%s 🔍 Loading: %s\n", timestamp(), display(name, path))
}

func (r EmojiReporter) Loaded(name, path string, size int) {
	fmt.Fprintf(out(r.Out), "%s ✅ Loaded: %s, %d bytes\n", timestamp(), display(name, path), size)
}

func (r EmojiReporter) Fail(name, path string, err error) {
	fmt.Fprintf(out(r.Out), "%s ❌ Failed: %s: %s\n", timestamp(), display(name, path), err)
}

type PlainReporter struct {
	Out io.Writer
}

func (r PlainReporter) Info(msg string) {
	fmt.Fprintf(out(r.Out), "%s Info: %s\n", timestamp(), msg)
}

func (r PlainReporter) Warn(msg string) {
	fmt.Fprintf(out(r.Out), "%s Warning: %s\n", timestamp(), msg)
}

func (r PlainReporter) Error(msg string) {
	fmt.Fprintf(out(r.Out), "%s Error: %s\n", timestamp(), msg)
}

func (r PlainReporter) Loading(name, path string) {
	fmt.Fprintf(out(r.Out), "%s Loading: %s\n", timestamp(), display(name, path))
}

func (r PlainReporter) Loaded(name, path string, size int) {
	fmt.Fprintf(out(r.Out), "%s Loaded: %s, %d bytes\n", timestamp(), display(name, path), size)
}

func (r PlainReporter) Fail(name, path string, err error) {
	fmt.Fprintf(out(r.Out), "%s Failed: %s: %v\n", timestamp(), display(name, path), err)
}

type NilReporter struct{}

func (r NilReporter) Info(msg string)                    {}
func (r NilReporter) Warn(msg string)                    {}
func (r NilReporter) Error(msg string)                   {}
func (r NilReporter) Loading(name, path string)          {}
func (r NilReporter) Loaded(name, path string, size int) {}
func (r NilReporter) Fail(name, path string, err error)  {}
