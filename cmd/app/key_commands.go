package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/fieldcrypt/cmd/app/commands"
	"github.com/allisson/fieldcrypt/internal/app"
	"github.com/allisson/fieldcrypt/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-key",
			Usage: "Generate a new key version for a key family",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "family",
					Aliases: []string{"k"},
					Usage:   "Key family name (defaults to KEY_FAMILY)",
				},
				&cli.StringFlag{
					Name:     "version",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Key version label (e.g., v2, 2026-10)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "Wrap the key with this KMS key (e.g., base64key://, hashivault://transit-key)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				family := cmd.String("family")
				if family == "" {
					family = cfg.KeyFamily
				}

				return commands.RunCreateKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					family,
					cmd.String("version"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "create-admin-token",
			Usage: "Generate an admin token and the hash to configure as ADMIN_TOKEN_HASH",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateAdminToken(
					container.AdminTokenService(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
