package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

const (
	projectKeyPrefix   = "fund:project:" // fund:project:{id} -> JSON document
	ownerSetPrefix     = "fund:owner:"   // fund:owner:{owner_id}:projects -> set of ids
	allProjectsSetKey  = "fund:projects" // set of every project id
	maxOptimisticTries = 50
)

// RedisStore keeps project documents as JSON strings and uses WATCH/MULTI
// so a mutation only commits if nobody wrote the document in between.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context, p *domain.Project) error {
	if p.OwnerID == "" {
		return fmt.Errorf("owner id required")
	}
	generate := p.ID == ""
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	for i := 0; i < maxCreateAttempts; i++ {
		if generate {
			id, err := domain.NewProjectID()
			if err != nil {
				return err
			}
			p.ID = id
		}

		data, err := encode(p)
		if err != nil {
			return err
		}

		ok, err := r.client.SetNX(ctx, r.projectKey(p.ID), data, 0).Result()
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		if !ok {
			if generate {
				continue
			}
			return fmt.Errorf("project %q already exists", p.ID)
		}

		pipe := r.client.Pipeline()
		pipe.SAdd(ctx, r.ownerSetKey(p.OwnerID), p.ID)
		pipe.SAdd(ctx, allProjectsSetKey, p.ID)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to index project: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to generate unique project id")
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	data, err := r.client.Get(ctx, r.projectKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.NotFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return decode(data)
}

func (r *RedisStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	ids, err := r.client.SMembers(ctx, r.ownerSetKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for owner: %w", err)
	}

	out := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *RedisStore) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, allProjectsSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return ids, nil
}

func (r *RedisStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Project, error) {
	key := r.projectKey(id)
	var result *domain.Project

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return domain.NotFound("project", id)
		}
		if err != nil {
			return err
		}

		p, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()

		out, err := encode(p)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = p
		return nil
	}

	for i := 0; i < maxOptimisticTries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("project %q: too much write contention", id)
}

func (r *RedisStore) projectKey(id string) string {
	return projectKeyPrefix + id
}

func (r *RedisStore) ownerSetKey(ownerID string) string {
	return fmt.Sprintf("%s%s:projects", ownerSetPrefix, ownerID)
}

func sortNewestFirst(ps []domain.Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}
