package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/badge.go/pkg/telemetry/mqtt"
	"github.com/robotalks/badge.go/pkg/telemetry/stream"
	"github.com/robotalks/badge.go/pkg/telemetry/websocket"
)

type nopCloser struct {
	PacketWriter
}

func (nopCloser) Close() error { return nil }

// NewSink opens a trace sink by URL:
//
//	mqtt://host:1883/prefix/  publishes to prefix<badge-id>/trace
//	ws://host/path            sends binary websocket messages
//	file:///path/to/file      appends length-prefixed packets
//	-                         writes length-prefixed packets to stdout
func NewSink(ctx context.Context, sinkURL, badgeID string) (Sink, error) {
	if sinkURL == "-" {
		return nopCloser{stream.NewWriter(os.Stdout)}, nil
	}
	u, err := url.Parse(sinkURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse trace url %q", sinkURL)
	}
	switch u.Scheme {
	case "mqtt", "mqtts", "tcp", "ssl":
		q, err := mqtt.NewQueueFromURL(sinkURL)
		if err != nil {
			return nil, errors.Wrapf(err, "trace url %q", sinkURL)
		}
		if err := q.ConnectContext(ctx); err != nil {
			return nil, errors.Wrapf(err, "connect %s", u.Host)
		}
		glog.Infof("tracing to MQTT %s topic %s", u.Host, q.TopicPrefix+mqtt.TraceTopic(badgeID))
		return mqtt.NewWriter(q, mqtt.TraceTopic(badgeID)), nil
	case "ws", "wss":
		rw, err := websocket.Dial(sinkURL)
		if err != nil {
			return nil, errors.Wrapf(err, "dial %s", sinkURL)
		}
		glog.Infof("tracing to websocket %s", sinkURL)
		return rw, nil
	case "file", "":
		fn := u.Path
		if u.Scheme == "" {
			fn = sinkURL
		}
		f, err := os.OpenFile(fn, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "open trace file")
		}
		glog.Infof("tracing to file %s", fn)
		return stream.NewWriter(f), nil
	}
	return nil, fmt.Errorf("unsupported trace url scheme %q", u.Scheme)
}
