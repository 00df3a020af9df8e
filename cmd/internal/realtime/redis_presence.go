package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const (
	presenceKey   = "presence:users"
	eventsChannel = "realtime:events"
)

// RedisPresenceStore shares presence through a hash and events through a
// pub/sub channel so every instance sees the same set of online users.
type RedisPresenceStore struct {
	rdb *redis.Client
}

func NewRedisPresenceStore(redisURL string) (*RedisPresenceStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisPresenceStore{rdb: redis.NewClient(opts)}, nil
}

func (r *RedisPresenceStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisPresenceStore) Register(ctx context.Context, p Presence) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, presenceKey, p.UserID, raw).Err()
}

func (r *RedisPresenceStore) Unregister(ctx context.Context, userID string) error {
	return r.rdb.HDel(ctx, presenceKey, userID).Err()
}

func (r *RedisPresenceStore) Lookup(ctx context.Context, userID string) (*Presence, error) {
	raw, err := r.rdb.HGet(ctx, presenceKey, userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Presence
	if err = json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode presence of %s: %w", userID, err)
	}
	return &p, nil
}

func (r *RedisPresenceStore) List(ctx context.Context) ([]Presence, error) {
	entries, err := r.rdb.HGetAll(ctx, presenceKey).Result()
	if err != nil {
		return nil, err
	}

	list := make([]Presence, 0, len(entries))
	for userID, raw := range entries {
		var p Presence
		if err = json.Unmarshal([]byte(raw), &p); err != nil {
			log.Warnf("skipping malformed presence of %s: %v", userID, err)
			continue
		}
		list = append(list, p)
	}
	sortPresence(list)
	return list, nil
}

func (r *RedisPresenceStore) Broadcast(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, eventsChannel, raw).Err()
}

func (r *RedisPresenceStore) Subscribe(ctx context.Context, handler func(Envelope)) error {
	sub := r.rdb.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	// wait for the subscription to be confirmed before reading
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", eventsChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warnf("dropping malformed realtime event: %v", err)
				continue
			}
			handler(env)
		}
	}
}

func (r *RedisPresenceStore) Close() error {
	return r.rdb.Close()
}
