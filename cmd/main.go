package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"signaldesk/cmd/autopilot"
	"signaldesk/src/server"
)

var Version string

func main() {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()
	server.SetupLogger(server.GetConfig())

	app := cli.NewApp()
	app.Name = "signaldesk"
	app.Usage = "AI consensus trading signals"
	app.Version = Version

	app.Commands = []cli.Command{
		serveCMD,
		generateCMD,
		clearCMD,
		autopilotCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the HTTP API",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Serve the dashboard API, websocket stream and metrics`,
	}
	generateCMD = cli.Command{
		Name:      "generate",
		Usage:     "generate one signal",
		Action:    generateAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "pair, p",
				Usage: "instrument, e.g. EUR/USD",
			},
		},
		Description: `Ask all providers once, store and print the consensus signal`,
	}
	clearCMD = cli.Command{
		Name:        "clear",
		Usage:       "delete all stored signals",
		Action:      clearAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Clear the signal history`,
	}
	autopilotCMD = cli.Command{
		Name:        "autopilot",
		Usage:       "run the autopilot",
		Action:      autopilotAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Generate signals for AUTOPILOT_PAIRS every AUTOPILOT_PERIOD`,
	}
)

func serveAction(_ *cli.Context) error {
	log := logrus.WithField("cmd", "serve")
	log.Info("Starting serve CMD")

	config := server.GetConfig()
	app, err := server.NewApp(context.Background(), log)
	if err != nil {
		log.WithError(err).Error("Failed to build app")
		return err
	}
	defer app.Close()

	server.StartServer(config.Port, app.Router(config), config.ShutdownTimeout)
	return nil
}

func generateAction(c *cli.Context) error {
	log := logrus.WithField("cmd", "generate")

	pair := c.String("pair")
	if pair == "" {
		return errors.New("--pair is required")
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, log)
	if err != nil {
		log.WithError(err).Error("Failed to build app")
		return err
	}
	defer app.Close()

	signal, err := app.Generator.Generate(ctx, pair)
	if err != nil {
		log.WithError(err).Error("Failed to generate signal")
		return err
	}

	fmt.Printf("#%d %s %s %d%% %s - %s [%v]\n",
		signal.ID, signal.Pair, signal.Action, signal.Confidence,
		signal.StartTime, signal.EndTime, []string(signal.Verifiers))
	return nil
}

func clearAction(_ *cli.Context) error {
	log := logrus.WithField("cmd", "clear")

	ctx := context.Background()
	app, err := server.NewApp(ctx, log)
	if err != nil {
		log.WithError(err).Error("Failed to build app")
		return err
	}
	defer app.Close()

	return app.Generator.Clear(ctx)
}

func autopilotAction(_ *cli.Context) error {
	log := logrus.WithField("cmd", "autopilot")
	log.Info("Starting autopilot CMD")

	ap := &autopilot.Autopilot{Log: log}
	if err := ap.Start(); err != nil {
		log.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}
