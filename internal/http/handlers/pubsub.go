package handlers

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/processor"
	"github.com/mauv0809/cricket-stats/internal/pubsub"
)

// ScorecardPushHandler applies a scorecard delivered by a Pub/Sub push subscription
// on the scorecard-submitted topic, which scoring apps publish to.
// A non-2xx response makes Pub/Sub redeliver the message.
func ScorecardPushHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := readPush(w, r)
		if !ok {
			return
		}
		var msg pubsub.ScorecardMessage
		if err := pubsubClient.ProcessMessage(raw, &msg); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		outcome, err := proc.HandleScorecard(r.Context(), msg, IsDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to handle scorecard message", "error", err)
			http.Error(w, "Failed to apply scorecard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(outcome))
	}
}

// RecomputePushHandler persists the ranking when a recompute event arrives.
func RecomputePushHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := readPush(w, r)
		if !ok {
			return
		}
		var msg pubsub.RecomputeMessage
		if err := pubsubClient.ProcessMessage(raw, &msg); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		outcome, err := proc.HandleRecompute(r.Context(), msg, IsDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to handle recompute message", "error", err)
			http.Error(w, "Failed to recompute rankings", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(outcome))
	}
}

func readPush(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return nil, false
	}
	log.Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	raw, err := pubsub.UnwrapPush(bodyBytes)
	if err != nil {
		log.Error("Failed to unwrap push message", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return raw, true
}
