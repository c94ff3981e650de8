package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/butler/pkg/adapter"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/session"
	"github.com/m-mizutani/butler/pkg/task"
	"github.com/m-mizutani/butler/pkg/usecase/assistant"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

func runCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, oracleFlags(&cfg)...)
	flags = append(flags, taskFlags(&cfg)...)
	flags = append(flags, assistantFlags(&cfg)...)

	return &cli.Command{
		Name:  "run",
		Usage: "Start the interactive assistant",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.applyFile(); err != nil {
				return err
			}

			logger := logging.New(cfg.logLevel, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			mode := model.InputMode(cfg.inputMode)
			if err := mode.Validate(); err != nil {
				return goerr.Wrap(err, "invalid input-mode")
			}

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}

			oracle, err := cfg.newPlanner(ctx)
			if err != nil {
				return err
			}

			store, err := session.New(cfg.dataDir)
			if err != nil {
				return goerr.Wrap(err, "failed to create session store")
			}

			voice, err := adapter.NewConsole(os.Stdout)
			if err != nil {
				return goerr.Wrap(err, "failed to open console")
			}
			defer voice.Close()

			registry := task.New(
				task.NewTimeHandler(nil),
				task.NewDateHandler(nil),
				task.NewWeatherHandler(cfg.weatherAPIKey),
				task.NewNewsHandler(cfg.newsAPIKey),
				task.NewStockHandler(cfg.stockAPIKey),
				task.NewNotepadHandler(filepath.Join(cfg.dataDir, "notepad.txt"), nil),
			)

			var search task.Searcher
			if cfg.serperAPIKey != "" {
				search = task.NewSerperSearch(cfg.serperAPIKey)
			}

			asst, err := assistant.New(assistant.Input{
				Planner:  oracle,
				Registry: registry,
				Repo:     repo,
				Session:  store,
				Voice:    voice,
				Shell:    adapter.NewExecShell(),
				Sound:    adapter.NewExecSound(),
				Search:   search,
				Config: assistant.Config{
					InitialMode:  mode,
					AlarmSound:   cfg.alarmSound,
					PollInterval: time.Second,
					ShowProgress: true,
				},
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create assistant")
			}

			logger.Info("assistant starting",
				"data_dir", cfg.dataDir,
				"input_mode", mode,
				"session", store.Path(),
			)
			return asst.Run(ctx)
		},
	}
}
