// beaconwatch subscribes to a beacon node's event stream and prints the
// typed events it receives.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/beaconapi/beaconclient"
	"github.com/erigontech/beaconapi/beaconevents"
)

func main() {
	app := &cli.App{
		Name:  "beaconwatch",
		Usage: "watch a beacon node's event stream",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "node-url",
				Usage: "base URL of the beacon node REST API",
				Value: "http://localhost:5052",
			},
			&cli.StringSliceFlag{
				Name:  "topics",
				Usage: "event topics to subscribe to",
				Value: cli.NewStringSlice("head", "finalized_checkpoint", "chain_reorg"),
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "terminate the stream on unknown or undecodable events",
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "resume from the server cursor (Last-Event-ID) on reconnect",
			},
			&cli.DurationFlag{
				Name:  "inactivity-timeout",
				Usage: "reconnect when no frames arrive within this window (0 disables)",
			},
			&cli.Uint64Flag{
				Name:  "max-reconnects",
				Usage: "consecutive failed reconnect attempts before giving up",
				Value: beaconclient.DefaultMaxReconnects,
			},
			&cli.StringFlag{
				Name:  "verbosity",
				Usage: "log verbosity (crit, error, warn, info, debug, trace)",
				Value: "info",
			},
		},
		Action: watch,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func watch(cliCtx *cli.Context) error {
	lvl, err := log.LvlFromString(cliCtx.String("verbosity"))
	if err != nil {
		return err
	}
	logger := log.Root()
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))

	topics := make([]beaconevents.EventTopic, 0)
	for _, t := range cliCtx.StringSlice("topics") {
		topics = append(topics, beaconevents.EventTopic(t))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := beaconclient.NewClient(cliCtx.String("node-url"),
		beaconclient.WithLogger(logger),
		beaconclient.WithTimeout(30*time.Second))
	defer client.Close()

	if version, err := client.GetNodeVersion(ctx); err == nil {
		logger.Info("connected", "node", version.Version)
	}

	sub, err := client.Subscribe(ctx, topics, beaconclient.SubscribeOptions{
		Strict:                cliCtx.Bool("strict"),
		ResumeFromLastEventID: cliCtx.Bool("resume"),
		InactivityTimeout:     cliCtx.Duration("inactivity-timeout"),
		MaxReconnects:         cliCtx.Uint64("max-reconnects"),
	})
	if err != nil {
		return err
	}
	defer sub.Close()

	for ev := range sub.Events() {
		if ev.Err != nil {
			logger.Warn("bad event", "topic", ev.Topic, "err", ev.Err)
			continue
		}
		payload, err := json.Marshal(ev.Data)
		if err != nil {
			logger.Warn("unprintable event", "topic", ev.Topic, "err", err)
			continue
		}
		logger.Info("event", "topic", ev.Topic, "data", string(payload))
	}
	return sub.Err()
}
