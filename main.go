package main

import (
	"fixcal-go/internal/config"
	"fixcal-go/internal/database"
	logger "fixcal-go/internal/logging"
	"fixcal-go/internal/markers"
	"fixcal-go/internal/models"
	"fixcal-go/internal/report"
	"fixcal-go/internal/router"
	"fixcal-go/internal/session"
	"fixcal-go/internal/trial"

	"go.uber.org/zap"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Load the calibration point set at startup
	points, err := models.LoadCalibrationSet(config.Conf.Trial.PointsFile)
	if err != nil {
		log.Fatal("Failed to load calibration points", zap.Error(err))
	}

	// Attach the sample source. The hardware build wires the real acquisition
	// glue here; without it a replay script must be configured.
	var source trial.FrameSource
	if path := config.Conf.Session.ReplayFile; path != "" {
		source, err = trial.LoadReplaySource(path)
		if err != nil {
			log.Fatal("Failed to load replay script", zap.Error(err))
		}
		log.Info("Running from replay script", zap.String("file", path))
	} else {
		log.Fatal("No sample source configured; set session.replay_file or attach hardware glue")
	}

	clock := trial.RealClock()
	sink := markers.NewLogSink(log)
	cons := report.NewLogConsequences(log, nil)

	sess, err := session.New(config.Conf, log, points.Points, source, sink, cons, clock)
	if err != nil {
		log.Fatal("Session preconditions failed", zap.Error(err))
	}

	// Serve the monitor API alongside the session loop.
	r := router.Setup(log)
	port := ":" + config.Conf.Server.Port
	go func() {
		log.Info("Monitor listening on http://localhost" + port)
		if err := r.Run(port); err != nil {
			log.Error("Monitor server stopped", zap.Error(err))
		}
	}()

	sess.Run()
}
