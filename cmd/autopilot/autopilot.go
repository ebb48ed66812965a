package autopilot

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"signaldesk/src/executors"
	"signaldesk/src/server"
)

// Autopilot generates signals on a schedule without serving HTTP.
type Autopilot struct {
	Log *logrus.Entry
}

func (a *Autopilot) Start() error {
	log := a.Log
	if log == nil {
		log = logrus.WithField("cmd", "autopilot")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	app, err := server.NewApp(ctx, log)
	if err != nil {
		log.WithError(err).Error("Failed to build app")
		return err
	}
	defer app.Close()

	if err := executors.StartLoop(ctx, app.Generator); err != nil {
		log.WithError(err).Error("Autopilot loop failed")
		return err
	}

	return nil
}
