package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hwenergy/hwenergy-integration/cmd"
)

func main() {
	app := &cli.App{
		Name:   "hwenergy-bridge",
		Usage:  "bridge for homewizard energy meters",
		Action: cmd.EnergyCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "energy-host",
				Usage: "address of the meter on the local network, overrides ENERGY_HOST",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per request timeout, overrides ENERGY_TIMEOUT",
			},
			&cli.DurationFlag{
				Name:  "poll-interval",
				Usage: "how often readings are polled, overrides POLL_INTERVAL",
			},
			&cli.StringFlag{
				Name:  "mqtt-host",
				Usage: "mqtt broker, overrides MQTT_HOST",
			},
			&cli.StringFlag{
				Name:  "mqtt-user",
				Usage: "overrides MQTT_USER",
			},
			&cli.StringFlag{
				Name:  "mqtt-pass",
				Usage: "overrides MQTT_PASS",
			},
			&cli.StringFlag{
				Name:  "listen-addr",
				Usage: "bridge api listen address, overrides LISTEN_ADDR",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "overrides LOG_LEVEL",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
