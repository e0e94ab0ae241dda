package websocket

import (
	"context"
	"encoding/json"

	"fintrust-support-be/internal/pkg/logger"
	"fintrust-support-be/internal/presence"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "support_cluster_events"

// Hub delivers event frames to live connections. Local delivery resolves
// through the presence registry; every push is also published on a Redis
// channel so peers in a multi-instance deployment can deliver to actors
// connected elsewhere (registry membership itself stays process-local).
type Hub struct {
	registry presence.Registry
	rdb      *redis.Client
	logger   logger.ILogger

	// instanceID filters out our own frames on the cluster channel.
	instanceID string
}

func NewHub(registry presence.Registry, rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		registry:   registry,
		rdb:        rdb,
		logger:     log,
		instanceID: uuid.NewString(),
	}
}

// Run starts the cross-instance subscriber. Blocks; run in a goroutine.
func (h *Hub) Run() {
	if h.rdb == nil {
		return
	}
	h.subscribeToCluster()
}

type clusterFrame struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Event        string          `json:"event"`
	Data         json.RawMessage `json:"data"`
}

// SendToUser pushes an event frame to the user's live connection if one is
// present. Absence is not an error: the payload is simply only retrievable
// on the recipient's next fetch.
func (h *Hub) SendToUser(userID uuid.UUID, event string, data interface{}) bool {
	delivered := false

	if handle, ok := h.registry.Lookup(userID); ok {
		if handle.Push(event, data) {
			delivered = true
		} else {
			h.logger.Warn("Hub", "Send buffer full, dropping frame", map[string]interface{}{
				"user_id": userID,
				"event":   event,
			})
		}
	}

	// Publish for peer instances regardless of local delivery; a peer that
	// does not host the user ignores the frame.
	if h.rdb != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			payload, _ := json.Marshal(clusterFrame{
				Origin:       h.instanceID,
				TargetUserID: userID.String(),
				Event:        event,
				Data:         raw,
			})
			h.rdb.Publish(context.Background(), clusterChannel, payload)
		}
	}

	return delivered
}

func (h *Hub) subscribeToCluster() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame clusterFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			h.logger.Warn("Hub", "Bad cluster frame", map[string]interface{}{"error": err.Error()})
			continue
		}

		if frame.Origin == h.instanceID {
			continue
		}

		uid, err := uuid.Parse(frame.TargetUserID)
		if err != nil {
			continue
		}

		if handle, ok := h.registry.Lookup(uid); ok {
			var data interface{}
			if err := json.Unmarshal(frame.Data, &data); err != nil {
				continue
			}
			handle.Push(frame.Event, data)
		}
	}
}
