package task

import (
	"bytes"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/seventv/RainbowProcessor/src/containers"
	"github.com/seventv/RainbowProcessor/src/containers/gif"
	"github.com/seventv/RainbowProcessor/src/global"
	"github.com/seventv/RainbowProcessor/src/image"
	"github.com/seventv/RainbowProcessor/src/job"
	"github.com/seventv/RainbowProcessor/src/rainbow"
)

// Task converts a single input into its rainbow animation.
type Task struct {
	id   uuid.UUID
	path string
	rate float64

	events []TaskEvent
	hook   func(TaskEvent)
}

func New(path string, rate float64) *Task {
	id, _ := uuid.NewRandom()
	return &Task{
		id:   id,
		path: path,
		rate: rate,
	}
}

func (t *Task) ID() uuid.UUID {
	return t.id
}

// OnEvent registers fn to be called synchronously for every event.
func (t *Task) OnEvent(fn func(TaskEvent)) {
	t.hook = fn
}

func (t *Task) Events() []TaskEvent {
	events := make([]TaskEvent, len(t.events))
	copy(events, t.events)
	return events
}

func (t *Task) emit(typ TaskEventType) {
	event := TaskEvent{
		TaskID:    t.id.String(),
		Path:      t.path,
		Type:      typ,
		Timestamp: time.Now(),
	}

	t.events = append(t.events, event)
	if t.hook != nil {
		t.hook(event)
	}
}

// Run reads, transforms and writes the task's input. Failures are reported in
// the result, never retried.
func (t *Task) Run(ctx global.Context) job.Result {
	start := time.Now()
	log := logrus.WithFields(logrus.Fields{
		"task": t.id.String(),
		"path": t.path,
	})

	result := job.Result{
		TaskID: t.id.String(),
		Path:   t.path,
	}

	t.emit(Started)

	var (
		err  error
		data []byte
		seq  image.Sequence
		out  bytes.Buffer
	)

	if data, err = Read(ctx, t.path); err != nil {
		err = fmt.Errorf("read: %w", err)
		goto completed
	}

	t.emit(Downloaded)

	if seq, err = containers.Extract(data); err != nil {
		err = fmt.Errorf("decode: %w", err)
		goto completed
	}

	t.emit(Extracted)

	log.WithField("frames", seq.Len()).Debug("extracted")
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		log.Trace(spew.Sdump(seq.Loop, seq.Durations(), seq.Frames[0].Meta))
	}

	seq = rainbow.Shift(seq, t.rate)
	if err = seq.Validate(); err != nil {
		err = fmt.Errorf("decode: %w", err)
		goto completed
	}

	t.emit(Shifted)

	if err = gif.Encode(&out, seq); err != nil {
		err = fmt.Errorf("encode: %w", err)
		goto completed
	}

	t.emit(Encoded)

	result.Output = OutputPath(t.path)
	if err = Write(ctx, result.Output, out.Bytes()); err != nil {
		err = fmt.Errorf("write: %w", err)
		goto completed
	}

	t.emit(Uploaded)

	result.Frames = seq.Len()

completed:
	result.Took = time.Since(start)
	if err != nil {
		result.Fail(err)
		t.emit(Failed)
	} else {
		t.emit(Completed)
		log.WithField("took", result.Took).Debug("completed")
	}

	return result
}
