package app

import (
	"log/slog"

	"harvest-timer/internal/adapter/harvest"
	"harvest-timer/internal/config"
	"harvest-timer/internal/ports"
	"harvest-timer/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log *slog.Logger
	uc  *usecase.TimerUseCase
}

func New(log *slog.Logger, cfg config.Config, opts ...harvest.Option) *App {
	if cfg.Harvest.Timeout > 0 {
		opts = append([]harvest.Option{harvest.WithTimeout(cfg.Harvest.Timeout)}, opts...)
	}
	client := harvest.NewClient(cfg.Harvest.BaseURL, harvest.Credentials{
		Token:     cfg.Harvest.Token,
		AccountID: cfg.Harvest.AccountID,
	}, log, opts...)
	return NewWithHarvest(log, client)
}

// NewWithHarvest builds an App around any ports.Harvest implementation.
func NewWithHarvest(log *slog.Logger, h ports.Harvest) *App {
	return &App{
		log: log,
		uc:  &usecase.TimerUseCase{Log: log, Harvest: h},
	}
}

func (a *App) Timer() *usecase.TimerUseCase {
	return a.uc
}
