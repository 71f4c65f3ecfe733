// Package metrics provides MatchSink implementations.
package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/dinehop/matchd/core/metrics"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/infra/logger"
)

// InfluxSink writes match results to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails, so a missing backend never blocks matching.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MatchSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordMatchResult writes one point per group plus a summary point.
func (s *InfluxSink) RecordMatchResult(eventID string, res model.MatchResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := time.Now()
	for _, g := range res.Groups {
		p := write.NewPointWithMeasurement("match_group").
			AddTag("event_id", eventID).
			AddTag("algorithm", res.Algorithm).
			AddTag("phase", string(g.Phase)).
			AddTag("host_id", g.HostID).
			AddTag("warned", strconv.FormatBool(len(g.Warnings) > 0)).
			AddField("guests", len(g.GuestIDs)).
			AddField("score", round3(g.Score)).
			AddField("travel_seconds", round3(g.TravelSeconds)).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	sum := write.NewPointWithMeasurement("match_result").
		AddTag("event_id", eventID).
		AddTag("algorithm", res.Algorithm).
		AddField("total_score", round3(res.Metrics.TotalScore)).
		AddField("total_units", res.Metrics.TotalUnitCount).
		AddField("assigned_units", res.Metrics.AssignedUnitCount).
		AddField("unmatched_units", res.Metrics.UnmatchedUnitCount).
		AddField("unmatched_participants", res.Metrics.UnmatchedParticipantCount).
		SetTime(now)
	return s.writeAPI.WritePoint(ctx, sum)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
