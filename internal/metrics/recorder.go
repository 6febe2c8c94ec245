package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
	ResultSkipped  ResultLabel = "skipped"
)

// PageResult labels the outcome of a single page.
type PageResult string

const (
	PageRendered PageResult = "rendered"
	PageCached   PageResult = "cached"
	PageDraft    PageResult = "draft"
	PageFailed   PageResult = "failed"
)

// Recorder defines observability hooks for builds, stages and pages.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome ResultLabel)
	IncPageResult(result PageResult)
	AddBrokenLinks(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)                {}
func (NoopRecorder) IncPageResult(PageResult)                   {}
func (NoopRecorder) AddBrokenLinks(int)                         {}
