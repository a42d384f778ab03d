package task

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/seventv/RainbowProcessor/src/global"
	"github.com/seventv/RainbowProcessor/src/job"
	"github.com/seventv/RainbowProcessor/src/utils"
)

var ErrNoPaths = fmt.Errorf("job has no paths")

type RmqResult struct {
	JobID   string       `json:"job_id"`
	Success bool         `json:"success"`
	Results []job.Result `json:"results"`
	Error   string       `json:"error,omitempty"`
}

// Listen consumes jobs until ctx is done or the delivery channel closes.
// Jobs are processed one after another, each tracked on ctx.
func Listen(ctx global.Context) {
	msgCh, err := ctx.Instances().Rmq.Subscribe(ctx.Config().Rmq.JobQueueName)
	if err != nil {
		logrus.Fatal("failed to listen to jobs: ", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			done := ctx.Track()
			process(ctx, msg)
			done()
		}
	}
}

func process(ctx global.Context, msg amqp.Delivery) {
	j := job.Job{}
	if err := json.Unmarshal(msg.Body, &j); err != nil {
		logrus.WithError(err).Warn("bad job message: ", utils.B2S(msg.Body))
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		return
	}

	rate := ctx.Config().Rate
	if j.Rate != nil {
		rate = *j.Rate
	}

	cfg := ctx.Config()
	lCtx, cancel := context.WithTimeout(ctx, time.Second*time.Duration(cfg.MaxJobDuration))
	defer cancel()

	logrus.WithField("job", j.ID).Infof("starting job with %d paths", len(j.Paths))

	summary := RunBatch(ctx.With(lCtx), j.Paths, rate, func(event TaskEvent) {
		event.JobID = j.ID
		data, _ := json.Marshal(event)
		if err := ctx.Instances().Rmq.Publish(cfg.Rmq.UpdateQueueName, "application/json", amqp.Transient, data); err != nil {
			logrus.Warn("failed to send update: ", err)
		}
	})

	err := summary.Err()
	if len(j.Paths) == 0 {
		err = ErrNoPaths
	}

	res := RmqResult{
		JobID:   j.ID,
		Success: err == nil,
		Results: summary.Results,
	}

	if err != nil {
		res.Error = err.Error()
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		logrus.WithField("job", j.ID).Errorf("job failed: %s", err)
	} else if err := msg.Ack(false); err != nil {
		logrus.Warn("failed to ack: ", err)
	}

	data, _ := json.Marshal(res)
	if err := ctx.Instances().Rmq.Publish(cfg.Rmq.ResultQueueName, "application/json", amqp.Persistent, data); err != nil {
		logrus.Error("failed to publish result: ", err)
	}

	logrus.WithField("job", j.ID).Info("finished job")
}
