package main

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/badge.go/pkg/framework"
	"github.com/robotalks/badge.go/pkg/telemetry"
	"github.com/robotalks/badge.go/pkg/telemetry/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/badges/"
)

func init() {
	if val := os.Getenv("BADGE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	reader := mqtt.NewReader(q, mqtt.TraceTopicPattern)
	runner := fx.NewRunner().HandleSignals()
	runner.StopOnExit = true
	runner.Go(
		fx.NamedFunc("mqtt", func(ctx context.Context) error {
			if err := q.ConnectContext(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return q.Close()
		}),
		fx.NamedRun("subscriber", reader),
		fx.NamedFunc("printer", func(context.Context) error {
			return printTraces(reader)
		}),
	)
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}

func printTraces(reader *mqtt.Reader) error {
	for {
		pkt, err := reader.ReadTopicPacket()
		if err != nil {
			return nil
		}
		id, ok := mqtt.BadgeIDFromTopic(pkt.Topic)
		if !ok {
			continue
		}
		trace, err := telemetry.DecodeTrace(pkt.Payload)
		if err != nil {
			glog.Warningf("%s: bad trace: %v", pkt.Topic, err)
			continue
		}
		glog.Infof("%s #%d %s at %s", id, trace.Seq, trace.Event, trace.Time().Format("15:04:05.000000"))
	}
}
