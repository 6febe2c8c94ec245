package build

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/linkcheck"
)

// Status indicates the overall build outcome.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Report describes one build run.
type Report struct {
	BuildID  string
	Status   Status
	Revision string // HEAD of the repository holding the content, if any

	Copied   int
	Rendered int
	Cached   int
	Drafts   int

	BrokenLinks []linkcheck.BrokenLink
	Warnings    []string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Err error
}

func (r *Report) finish(status Status, err error) {
	r.Status = status
	r.Err = err
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// Event converts the report for publishing.
func (r *Report) Event() events.BuildCompleted {
	e := events.BuildCompleted{
		BuildID:     r.BuildID,
		Status:      string(r.Status),
		Rendered:    r.Rendered,
		Cached:      r.Cached,
		Drafts:      r.Drafts,
		Copied:      r.Copied,
		BrokenLinks: len(r.BrokenLinks),
		DurationMS:  r.Duration.Milliseconds(),
		Revision:    r.Revision,
		Timestamp:   r.EndTime.UTC(),
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return e
}
