package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/fieldcrypt/cmd/app/commands"
	"github.com/allisson/fieldcrypt/internal/app"
	"github.com/allisson/fieldcrypt/internal/config"
	recordUseCase "github.com/allisson/fieldcrypt/internal/record/usecase"
)

func getRecordCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt a value under the current key version, optionally storing it for an identity",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "identity",
					Aliases: []string{"i"},
					Usage:   "Store the envelope as a new record for this identity",
				},
				&cli.StringFlag{
					Name:     "plaintext",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Value to encrypt",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				envelopeUC, err := container.EnvelopeUseCase()
				if err != nil {
					return err
				}

				// Stateless encryption does not need a database connection.
				identity := cmd.String("identity")
				var recordUC recordUseCase.RecordUseCase
				if identity != "" {
					recordUC, err = container.RecordUseCase()
					if err != nil {
						return err
					}
				}

				return commands.RunEncrypt(
					ctx,
					envelopeUC,
					recordUC,
					commands.DefaultIO().Writer,
					identity,
					cmd.String("plaintext"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "reveal",
			Usage: "Decrypt a stored record, rotating it first if its key version is stale",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "identity",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Record identity",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				recordUC, err := container.RecordUseCase()
				if err != nil {
					return err
				}

				return commands.RunReveal(
					ctx,
					recordUC,
					commands.DefaultIO().Writer,
					cmd.String("identity"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-records",
			Usage: "Re-encrypt every record sealed under a stale key version",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				recordUC, err := container.RecordUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateRecords(
					ctx,
					recordUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
