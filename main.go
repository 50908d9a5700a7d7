package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"riskscreen/config"
	"riskscreen/dataset"
	"riskscreen/db"
	qhttp "riskscreen/http"
	"riskscreen/logging"
	"riskscreen/ml"
	"riskscreen/monitoring"
	"riskscreen/risk"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}
		cfg = config.Default()
	}

	logger, level := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer logger.Sync()

	// Log level follows the config file while the process runs.
	stopWatch, err := config.Watch("config.yaml", func(updated *config.Config) {
		level.SetLevel(logging.ParseLevel(updated.Log.Level))
		logger.Info("log level updated", zap.String("level", updated.Log.Level))
	})
	if err == nil {
		defer stopWatch()
	}

	// 1. Load and prepare the dataset.
	frame, err := dataset.Load(cfg.Dataset.Source)
	if err != nil {
		logger.Fatal("loading dataset", zap.Error(err))
	}
	logger.Info("dataset loaded",
		zap.Int("rows", len(frame.Rows)),
		zap.Int("features", len(frame.Columns)),
	)

	// 2. Train the model once at startup; it is read-only afterward.
	start := time.Now()
	pipeline, err := ml.TrainPipeline(frame.Columns, frame.Rows, frame.Labels, ml.TrainOptions{
		Config: ml.GBDTConfig{
			Rounds:       cfg.Model.Rounds,
			MaxDepth:     cfg.Model.MaxDepth,
			LearningRate: cfg.Model.LearningRate,
		},
		TestRatio:  cfg.Model.TestRatio,
		Seed:       cfg.Model.Seed,
		SelectTopN: cfg.Model.TopFeatures,
	})
	if err != nil {
		logger.Fatal("training model", zap.Error(err))
	}
	monitoring.TrainingDuration.Set(time.Since(start).Seconds())
	logger.Info("model trained",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("features", len(pipeline.Features)),
		zap.Float64("accuracy", pipeline.Metrics.Accuracy),
		zap.Float64("recall", pipeline.Metrics.Recall),
	)

	scorer, err := risk.NewScorer(pipeline)
	if err != nil {
		logger.Fatal("building scorer", zap.Error(err))
	}

	// 3. Optional history persistence.
	persist := false
	if cfg.Database.Path != "" {
		if err := db.InitDB(cfg.Database.Path); err != nil {
			logger.Fatal("initializing database", zap.Error(err))
		}
		defer db.Close()
		persist = true
		if err := db.LogTraining(len(pipeline.Features), pipeline.Metrics); err != nil {
			logger.Warn("recording training log", zap.Error(err))
		}
		logger.Info("database initialized", zap.String("path", cfg.Database.Path))
	}

	// 4. Start the HTTP server.
	hub := monitoring.NewActivityHub(logger)
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.HTTP.Port,
		Timeout:        time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, qhttp.Deps{
		Scorer:   scorer,
		Pipeline: pipeline,
		Hub:      hub,
		Logger:   logger,
		Persist:  persist,
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
}
