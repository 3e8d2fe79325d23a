package store

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"

	"github.com/effective-security/dinefind/pkg/session"
)

// The redis store implements the ReservationStore interface using Redis as
// the backend, for deployments where several server processes share one
// session space. The keys namespace is organized as follows:
// - `/<prefix>/reservations/<sessionID>` for the list of reservations

// keep at most this many reservations per session
const maxReservationsPerSession = 50

type redisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) ReservationStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) key(sessionID string) string {
	return path.Join(m.prefix, "reservations", sessionID)
}

func (m *redisStore) Add(ctx context.Context, res Reservation) error {
	sessionID := session.GetSessionID(ctx)
	if sessionID == "" {
		return ErrNoSession
	}

	data, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "failed to marshal reservation")
	}

	key := m.key(sessionID)
	pipe := m.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -maxReservationsPerSession, -1)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to store reservation in Redis")
	}
	return nil
}

func (m *redisStore) List(ctx context.Context) ([]Reservation, error) {
	sessionID := session.GetSessionID(ctx)
	if sessionID == "" {
		return nil, ErrNoSession
	}

	data, err := m.client.LRange(ctx, m.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read reservations from Redis")
	}

	var res []Reservation
	for _, item := range data {
		var r Reservation
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal reservation", "err", err.Error())
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func (m *redisStore) Reset(ctx context.Context) error {
	sessionID := session.GetSessionID(ctx)
	if sessionID == "" {
		return ErrNoSession
	}

	err := m.client.Del(ctx, m.key(sessionID)).Err()
	if err != nil {
		return errors.Wrap(err, "failed to reset reservations in Redis")
	}
	return nil
}
