// Package events publishes activity notifications for project, task and
// comment changes. Publishing is best effort: a failed publish is logged and
// never fails the request that caused it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Type string

const (
	ProjectCreated Type = "project.created"
	ProjectDeleted Type = "project.deleted"
	MemberAdded    Type = "project.member_added"
	MemberUpdated  Type = "project.member_updated"
	MemberRemoved  Type = "project.member_removed"
	TaskCreated    Type = "task.created"
	TaskUpdated    Type = "task.updated"
	TaskDeleted    Type = "task.deleted"
	CommentCreated Type = "comment.created"
	CommentUpdated Type = "comment.updated"
	CommentDeleted Type = "comment.deleted"
)

// Event is the payload written to the channel.
type Event struct {
	Type       Type      `json:"type"`
	ActorID    uint64    `json:"actorId"`
	ProjectID  uint64    `json:"projectId,omitempty"`
	TaskID     uint64    `json:"taskId,omitempty"`
	CommentID  uint64    `json:"commentId,omitempty"`
	UserID     uint64    `json:"userId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// redisClient is the subset of redis.UniversalClient used here.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher sends events as JSON on a pub/sub channel.
type RedisPublisher struct {
	client  redisClient
	channel string
	log     *zap.Logger
}

func NewRedisPublisher(client redisClient, channel string, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, log: log}
}

// NewRedisClient connects to redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("encode event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Warn("publish event",
			zap.String("type", string(ev.Type)),
			zap.String("channel", p.channel),
			zap.Error(err),
		)
	}
}

// NopPublisher drops every event. It is used when redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
