package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Comcast/temple/sio"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		s         sources
		couplings []string
		watch     bool
		limit     int

		stdio = &sio.Stdio{
			InputEOF: make(chan bool),
		}

		wsURL string

		mqOpts    sio.MQTTOptions
		subTopics string
		outTopic  string
		quiesce   uint
		inTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process utterances from stdin, a WebSocket, or an MQTT broker",
		Long: `Run processes utterances until input ends or it's interrupted.

Each input line (or WebSocket frame or MQTT message) is an utterance.
A line that's a JSON object can give an "id" and a "replyTo" along
with the "text".  Each result is written as JSON.

With --watch, library files are reloaded when they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := a.log()

			svc, err := a.service(ctx, &s)
			if err != nil {
				return err
			}
			svc.Limit = limit
			svc.Receiver = &sio.LogReceiver{Logger: log.Named("notes")}

			var cs []sio.Couplings
			for _, name := range couplings {
				switch name {
				case "stdio":
					stdio.In = a.in
					stdio.Out = cmd.OutOrStdout()
					stdio.Logger = log
					cs = append(cs, stdio)
				case "ws":
					ws := sio.NewWebSocket(wsURL)
					ws.Logger = log
					cs = append(cs, ws)
				case "mqtt":
					opts, err := mqOpts.ClientOptions(log)
					if err != nil {
						return err
					}
					mq := sio.NewMQTT(mqtt.NewClient(opts), subTopics, outTopic)
					mq.Logger = log
					mq.Quiesce = quiesce
					mq.InTimeout = inTimeout
					cs = append(cs, mq)
				default:
					return fmt.Errorf("unknown couplings %q", name)
				}
			}

			g, gctx := errgroup.WithContext(ctx)

			runCtx, cancel := context.WithCancel(gctx)
			defer cancel()

			g.Go(func() error {
				defer cancel()
				return svc.Run(runCtx, cs...)
			})

			if watch && 0 < len(s.filenames) {
				g.Go(func() error {
					return sio.Watch(runCtx, log, s.filenames, func() error {
						ds, err := s.loadDicta(runCtx, log)
						if err != nil {
							return err
						}
						svc.SetDicta(ds)
						log.Info("reloaded", zap.Int("dicta", len(ds)))
						return nil
					})
				})
			}

			return g.Wait()
		},
	}

	addSourceFlags(cmd, &s)

	fs := cmd.Flags()
	fs.StringSliceVarP(&couplings, "couplings", "c", []string{"stdio"}, "couplings: stdio, ws, mqtt")
	fs.BoolVar(&watch, "watch", false, "reload library files when they change")
	fs.IntVar(&limit, "limit", 0, "maximum tasks per utterance (zero means no limit)")

	fs.BoolVar(&stdio.EchoInput, "echo", false, "echo input lines")
	fs.BoolVar(&stdio.Tags, "tags", false, "tag output lines")
	fs.BoolVar(&stdio.PadTags, "pad-tags", false, "pad tags")
	fs.BoolVar(&stdio.Timestamps, "timestamps", false, "timestamp output lines")
	fs.BoolVar(&stdio.Pretty, "pretty", false, "multi-line JSON")
	fs.BoolVar(&stdio.PrintNotes, "notes", false, "print notes after each result")
	fs.BoolVar(&stdio.ShellExpand, "sh", false, "expand <<shell commands>> in input")

	fs.StringVar(&wsURL, "url", "ws://localhost:8080", "target URL for WebSocket server")

	// Follow mosquitto_sub command line args where possible.
	fs.StringVar(&mqOpts.Broker, "mq-host", "tcp://localhost", "MQTT broker hostname")
	fs.IntVar(&mqOpts.Port, "mq-port", 1883, "MQTT broker port")
	fs.StringVar(&mqOpts.ClientId, "mq-id", "", "MQTT client id")
	fs.DurationVar(&mqOpts.KeepAlive, "mq-keepalive", 10*time.Second, "MQTT keep-alive")
	fs.StringVar(&mqOpts.Username, "mq-user", "", "MQTT username")
	fs.StringVar(&mqOpts.Password, "mq-password", "", "MQTT password")
	fs.BoolVar(&mqOpts.Reconnect, "mq-reconnect", false, "automatically attempt to reconnect")
	fs.BoolVar(&mqOpts.Clean, "mq-clean", true, "clean session")
	fs.StringVar(&mqOpts.WillTopic, "mq-will-topic", "", "optional will topic")
	fs.StringVar(&mqOpts.WillPayload, "mq-will-payload", "", "optional will message")
	fs.IntVar(&mqOpts.WillQoS, "mq-will-qos", 0, "optional will QoS")
	fs.BoolVar(&mqOpts.WillRetain, "mq-will-retain", false, "optional will retention")
	fs.StringVar(&mqOpts.CertFilename, "mq-cert", "", "optional cert filename")
	fs.StringVar(&mqOpts.KeyFilename, "mq-key", "", "optional key filename")
	fs.StringVar(&mqOpts.CAFilename, "mq-cafile", "", "optional CA cert filename")
	fs.StringVar(&mqOpts.CAPath, "mq-capath", "", "optional directory for the CA cert file")
	fs.BoolVar(&mqOpts.Insecure, "mq-insecure", false, "skip broker cert checking")
	fs.StringVar(&subTopics, "mq-sub", "temple/in", "subscription topic(s), each with an optional :QOS")
	fs.StringVar(&outTopic, "mq-out", "temple/out", "topic (with an optional :QOS) for results")
	fs.UintVar(&quiesce, "mq-quiesce", 100, "disconnection quiescence (in milliseconds)")
	fs.DurationVar(&inTimeout, "mq-in-timeout", time.Second, "timeout for in-bound queuing")

	return cmd
}
