package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// Each event type is published to the topic of the same name.
type EventType string

const (
	EventRecomputeRankings EventType = "recompute-rankings"
)

// ScorecardMessage carries one match's values for one player.
type ScorecardMessage struct {
	PlayerID    string    `msgpack:"player_id"`
	Runs        []string  `msgpack:"runs"`
	Balls       []string  `msgpack:"balls"`
	Wickets     []string  `msgpack:"wickets"`
	Innings     []string  `msgpack:"innings"`
	DateOfMatch time.Time `msgpack:"date_of_match"`
}

// RecomputeMessage asks a worker to run and persist the ranking.
type RecomputeMessage struct {
	Reason      string    `msgpack:"reason"`
	PlayerID    string    `msgpack:"player_id,omitempty"`
	RequestedAt time.Time `msgpack:"requested_at"`
}

// PushEnvelope is the JSON body Pub/Sub posts to push subscriptions.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID         string            `json:"messageId"`
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}
