package main

import (
	"log/slog"
	"os"

	"github.com/crewline/pulse/internal/alert"
	"github.com/crewline/pulse/internal/config"
	"github.com/crewline/pulse/internal/engine"
	"github.com/crewline/pulse/internal/events"
	"github.com/crewline/pulse/internal/store/postgres"
)

// runtime bundles the wired components shared by the serve and one-shot
// commands.
type runtime struct {
	cfg       *config.Config
	store     *postgres.PostgresStore
	publisher events.Publisher
	engine    *engine.Engine
	logger    *slog.Logger
}

// newRuntime loads configuration and connects the store, the event bus,
// and the engine. Callers must close() when done.
func newRuntime() (*runtime, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return nil, err
	}

	st, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			st.Close()
			return nil, err
		}
		publisher = pub
		logger.Info("events enabled", "nats_url", cfg.NATSURL)
	} else {
		publisher = &events.NoopPublisher{}
		logger.Info("events disabled (PULSE_NATS_URL not set)")
	}

	emitter := alert.NewEmitter(st, publisher, logger)
	eng := engine.New(st, emitter, publisher, engine.Params{
		Defaults:   tuning.MergedAlertConfig(),
		Weights:    tuning.MergedWeights(),
		MinScore:   tuning.MinScore(),
		MaxResults: tuning.MaxResults(),
		Budget:     cfg.RunBudget,
	}, logger)

	return &runtime{
		cfg:       cfg,
		store:     st,
		publisher: publisher,
		engine:    eng,
		logger:    logger,
	}, nil
}

func (r *runtime) close() {
	if err := r.publisher.Close(); err != nil {
		r.logger.Error("error closing publisher", "err", err)
	}
	if err := r.store.Close(); err != nil {
		r.logger.Error("error closing store", "err", err)
	}
}
