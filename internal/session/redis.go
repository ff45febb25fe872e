package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session records in Redis so several bot instances can
// share them. Values are written without TTL: abandoned proposals persist
// until explicitly cleared.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func stateKey(userID int64) string    { return fmt.Sprintf("session:state:%d", userID) }
func proposalKey(userID int64) string { return fmt.Sprintf("session:proposal:%d", userID) }
func clearKey(userID int64) string    { return fmt.Sprintf("session:clear:%d", userID) }

func (s *RedisStore) State(ctx context.Context, userID int64) (State, error) {
	v, err := s.rdb.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return StateIdle, nil
	}
	if err != nil {
		return StateIdle, err
	}
	return State(v), nil
}

func (s *RedisStore) SetState(ctx context.Context, userID int64, st State) error {
	return s.rdb.Set(ctx, stateKey(userID), string(st), 0).Err()
}

func (s *RedisStore) ClearState(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, stateKey(userID)).Err()
}

func (s *RedisStore) Proposal(ctx context.Context, userID int64) (*Proposal, error) {
	v, err := s.rdb.Get(ctx, proposalKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p Proposal
	if err := json.Unmarshal(v, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RedisStore) SetProposal(ctx context.Context, userID int64, p Proposal) error {
	v, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, proposalKey(userID), v, 0).Err()
}

func (s *RedisStore) ClearProposal(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, proposalKey(userID)).Err()
}

func (s *RedisStore) PendingClear(ctx context.Context, userID int64) (string, error) {
	v, err := s.rdb.Get(ctx, clearKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) SetPendingClear(ctx context.Context, userID int64, yearMonth string) error {
	return s.rdb.Set(ctx, clearKey(userID), yearMonth, 0).Err()
}

func (s *RedisStore) DropPendingClear(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, clearKey(userID)).Err()
}

func ReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
}
