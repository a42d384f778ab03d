package task

import "time"

type TaskEvent struct {
	JobID     string        `json:"job_id,omitempty"`
	TaskID    string        `json:"task_id"`
	Path      string        `json:"path"`
	Type      TaskEventType `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
}

type TaskEventType string

const (
	Started    TaskEventType = "started"
	Downloaded TaskEventType = "downloaded"
	Extracted  TaskEventType = "extracted"
	Shifted    TaskEventType = "shifted"
	Encoded    TaskEventType = "encoded"
	Uploaded   TaskEventType = "uploaded"
	Failed     TaskEventType = "failed"
	Completed  TaskEventType = "completed"
)
