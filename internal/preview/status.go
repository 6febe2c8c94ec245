package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/build"
)

// Status is the body of the /healthz endpoint.
type Status struct {
	Status       string    `json:"status"` // starting, ok or failing
	Builds       int       `json:"builds"`
	LastBuildID  string    `json:"last_build_id,omitempty"`
	LastBuildAt  time.Time `json:"last_build_at"`
	LastError    string    `json:"last_error,omitempty"`
	HasGoodBuild bool      `json:"has_good_build"`
}

// buildStatus tracks the outcome of the latest build.
type buildStatus struct {
	mu           sync.RWMutex
	builds       int
	lastID       string
	lastAt       time.Time
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) record(report *build.Report, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastError = err
	bs.lastAt = time.Now()
	if report != nil {
		bs.lastID = report.BuildID
	}
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) snapshot() Status {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	s := Status{
		Status:       "ok",
		Builds:       bs.builds,
		LastBuildID:  bs.lastID,
		LastBuildAt:  bs.lastAt,
		HasGoodBuild: bs.hasGoodBuild,
	}
	switch {
	case bs.builds == 0:
		s.Status = "starting"
	case bs.lastError != nil:
		s.Status = "failing"
		s.LastError = bs.lastError.Error()
	}
	return s
}

// ServeHTTP reports the build status; anything but "ok" is a 503.
func (bs *buildStatus) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	s := bs.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if s.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(s)
}
