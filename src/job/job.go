package job

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Job is a batch of inputs as received from the job queue.
type Job struct {
	ID    string   `json:"id"`
	Paths []string `json:"paths"`
	Rate  *float64 `json:"rate,omitempty"`
}

// Result is the outcome of processing a single input path.
type Result struct {
	TaskID string        `json:"task_id"`
	Path   string        `json:"path"`
	Output string        `json:"output,omitempty"`
	Frames int           `json:"frames"`
	Took   time.Duration `json:"took"`
	Error  string        `json:"error,omitempty"`

	Err error `json:"-"`
}

func (r *Result) Fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

func (r Result) Success() bool {
	return r.Err == nil && r.Error == ""
}

type Summary struct {
	Started time.Time     `json:"started"`
	Took    time.Duration `json:"took"`
	Results []Result      `json:"results"`
}

func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
}

func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Success() {
			n++
		}
	}
	return n
}

func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Err joins the failures of every path, or returns nil if all succeeded.
func (s Summary) Err() error {
	var err error
	for _, r := range s.Results {
		if r.Success() {
			continue
		}

		cause := r.Err
		if cause == nil {
			cause = fmt.Errorf("%s", r.Error)
		}
		err = multierror.Append(err, fmt.Errorf("%s: %w", r.Path, cause))
	}

	return err
}
