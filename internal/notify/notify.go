// Package notify carries user-facing notices (the admin UI shows them as toasts)
// out of the data layer. Use cases emit structured notices; what the user sees
// is decided by the Notifier wired at the presentation boundary.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is one user-facing notification.
type Notice struct {
	Level   Level     `json:"level"`
	Op      string    `json:"op"`
	Message string    `json:"message"`
	Err     string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

func Success(op, message string) Notice {
	return Notice{Level: LevelSuccess, Op: op, Message: message, At: time.Now()}
}

func Failure(op, message string, err error) Notice {
	n := Notice{Level: LevelError, Op: op, Message: message, At: time.Now()}
	if err != nil {
		n.Err = err.Error()
	}
	return n
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Nop drops every notice.
var Nop Notifier = NotifierFunc(func(context.Context, Notice) {})

// LogNotifier writes notices to a zerolog logger.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(l zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Notify(_ context.Context, notice Notice) {
	event := n.log.Info()
	if notice.Level == LevelError {
		event = n.log.Warn().Str("error", notice.Err)
	}
	event.Str("op", notice.Op).Msg(notice.Message)
}

// Feed keeps the most recent notices in a bounded ring so the admin UI can poll them.
type Feed struct {
	mu     sync.Mutex
	buf    []Notice
	next   int
	filled bool
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 50
	}
	return &Feed{buf: make([]Notice, capacity)}
}

func (f *Feed) Notify(_ context.Context, n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf[f.next] = n
	f.next = (f.next + 1) % len(f.buf)
	if f.next == 0 {
		f.filled = true
	}
}

// Recent returns the stored notices, newest first.
func (f *Feed) Recent() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	size := f.next
	if f.filled {
		size = len(f.buf)
	}
	out := make([]Notice, 0, size)
	for i := 1; i <= size; i++ {
		idx := (f.next - i + len(f.buf)) % len(f.buf)
		out = append(out, f.buf[idx])
	}
	return out
}

// Fanout delivers every notice to all notifiers in order.
func Fanout(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notice) {
		for _, nt := range notifiers {
			nt.Notify(ctx, n)
		}
	})
}

type recorderKey struct{}

// Recorder collects the notices emitted while serving one request.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// WithRecorder attaches a fresh Recorder to ctx.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Last returns the latest notice and false when none was recorded.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Request forwards notices to the Recorder attached to ctx, if any.
var Request Notifier = NotifierFunc(func(ctx context.Context, n Notice) {
	if rec, ok := ctx.Value(recorderKey{}).(*Recorder); ok {
		rec.Notify(ctx, n)
	}
})
