package task

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seventv/RainbowProcessor/src/global"
	"github.com/seventv/RainbowProcessor/src/job"
)

// RunBatch converts every path in order. A failing path is logged and the
// batch moves on; once ctx is done the remaining paths are not started.
func RunBatch(ctx global.Context, paths []string, rate float64, hook func(TaskEvent)) job.Summary {
	summary := job.Summary{
		Started: time.Now(),
	}

	for i, path := range paths {
		logrus.Infof("Convert %s (%d/%d)", path, i+1, len(paths))

		if err := ctx.Err(); err != nil {
			result := job.Result{Path: path}
			result.Fail(err)
			summary.Add(result)
			continue
		}

		t := New(path, rate)
		t.OnEvent(hook)

		result := t.Run(ctx)
		if !result.Success() {
			logrus.WithError(result.Err).WithFields(logrus.Fields{
				"task": result.TaskID,
				"path": path,
			}).Error("convert failed")
		}

		summary.Add(result)
	}

	summary.Took = time.Since(summary.Started)

	return summary
}
