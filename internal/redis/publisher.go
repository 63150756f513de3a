package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const trackChannelPrefix = "rides:track:"

// RideSnapshot is the live tracking update published while a ride is in
// progress. It is a display side-channel; the final charge is computed at
// ride finish, not from these snapshots.
type RideSnapshot struct {
	RideID          string   `json:"ride_id"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	BatteryLevel    int      `json:"battery_level"`
	DurationMinutes float64  `json:"duration_minutes"`
	RunningCost     float64  `json:"running_cost"`
}

// TrackPublisher publishes ride tracking snapshots over Redis pub/sub.
type TrackPublisher struct {
	client *redis.Client
}

// NewTrackPublisher creates a new TrackPublisher.
func NewTrackPublisher(client *redis.Client) *TrackPublisher {
	return &TrackPublisher{client: client}
}

// Publish sends a snapshot to the ride's tracking channel.
func (p *TrackPublisher) Publish(ctx context.Context, snapshot RideSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, trackChannelPrefix+snapshot.RideID, data).Err()
}
