package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"

	"signaldesk/src/server"
)

var APP_NAME = os.Getenv("APP_NAME")

func main() {
	_ = godotenv.Load()

	config := server.GetConfig()
	server.SetupLogger(config)
	defer handlePanic()

	app, err := server.NewApp(context.Background(), logger.WithField("app", APP_NAME))
	if err != nil {
		logger.WithError(err).Fatal("Failed to start")
	}
	defer app.Close()

	server.StartServer(config.Port, app.Router(config), config.ShutdownTimeout)
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
		//nolint
		time.Sleep(time.Second * 5)
	}
}
