package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/bugsnag/panicwrap"
	"github.com/sirupsen/logrus"

	"github.com/seventv/RainbowProcessor/src/aws"
	"github.com/seventv/RainbowProcessor/src/configure"
	"github.com/seventv/RainbowProcessor/src/global"
	"github.com/seventv/RainbowProcessor/src/rmq"
	"github.com/seventv/RainbowProcessor/src/task"
)

var (
	Version = "development"
	Unix    = ""
	Time    = "unknown"
	User    = "unknown"
)

func init() {
	if i, err := strconv.Atoi(Unix); err == nil {
		Time = time.Unix(int64(i), 0).Format(time.RFC3339)
	}
}

func main() {
	config := configure.New()

	exitStatus, err := panicwrap.BasicWrap(func(s string) {
		logrus.Error(s)
	})
	if err != nil {
		logrus.Error("failed to setup panic handler: ", err)
		os.Exit(2)
	}

	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}

	if !config.NoHeader {
		logrus.Info("7TV Rainbow Processor")
		logrus.Infof("Version: %s", Version)
		logrus.Infof("build.Time: %s", Time)
		logrus.Infof("build.User: %s", User)
	}

	logrus.Debug("MaxProcs: ", runtime.GOMAXPROCS(0))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	c, cancel := context.WithCancel(context.Background())

	ctx := global.New(c, config)

	if ctx.Config().Aws.Region != "" {
		ctx.Instances().AwsS3 = aws.NewS3(ctx)
	}

	if !config.Listen {
		go func() {
			<-sig
			logrus.Info("interrupted, skipping remaining paths")
			cancel()
		}()

		summary := task.RunBatch(ctx, config.Paths, config.Rate, nil)
		task.PrintSummary(os.Stdout, summary)

		if config.Report != "" {
			if err := task.WriteReport(config.Report, summary); err != nil {
				logrus.Error("failed to write report: ", err)
			}
		}

		// per path failures were already reported, the batch itself succeeded
		os.Exit(0)
	}

	ctx.Instances().Rmq = rmq.New(ctx)

	listening := ctx.Track()
	go func() {
		defer listening()
		task.Listen(ctx)
	}()

	logrus.Info("running")

	done := make(chan struct{})
	go func() {
		<-sig
		cancel()
		go func() {
			select {
			case <-time.After(time.Minute):
			case <-sig:
			}
			logrus.Fatal("force shutdown")
		}()

		logrus.Info("shutting down")

		ctx.Wait()

		ctx.Instances().Rmq.Shutdown()

		close(done)
	}()

	<-done

	logrus.Info("shutdown")
	os.Exit(0)
}
