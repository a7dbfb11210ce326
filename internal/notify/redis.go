// Package notify fans friend-set changes out over Redis pub/sub so that
// real-time gateways can push them to connected wallets.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/sui-chat/api/internal/model"
)

// Channel is the pub/sub channel carrying changes to address's friend set.
func Channel(address string) string { return "friends:" + address }

type Publisher struct {
	client *redis.Client
}

func New(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, ev model.FriendEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(ev.Address), payload).Err()
}
