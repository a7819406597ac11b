package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Table operations

func (s *Storage) SaveTable(ctx context.Context, table *model.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, tableKey(table.ID), data, s.cfg.TableTTL)
	pipe.SAdd(ctx, tableIndexKey(), string(table.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTable(ctx context.Context, id model.TableID) (*model.Table, error) {
	data, err := s.client.Get(ctx, tableKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTableNotFound
		}
		return nil, err
	}

	var table model.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *Storage) ListTables(ctx context.Context) (map[model.TableID]*model.Table, error) {
	ids, err := s.client.SMembers(ctx, tableIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	tables := make(map[model.TableID]*model.Table, len(ids))
	for _, id := range ids {
		table, err := s.GetTable(ctx, model.TableID(id))
		if errors.Is(err, model.ErrTableNotFound) {
			// Expired entry still in the index; drop it.
			_ = s.client.SRem(ctx, tableIndexKey(), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		tables[table.ID] = table
	}
	return tables, nil
}

func (s *Storage) DeleteTable(ctx context.Context, id model.TableID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, tableKey(id))
	pipe.SRem(ctx, tableIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Referral code operations

func (s *Storage) SaveReferral(ctx context.Context, ref *model.ReferralCode) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, referralKey(ref.Code), data, s.cfg.TableTTL)
	pipe.SAdd(ctx, referralIndexKey(), ref.Code)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetReferral(ctx context.Context, code string) (*model.ReferralCode, error) {
	data, err := s.client.Get(ctx, referralKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrInvalidReferral
		}
		return nil, err
	}

	var ref model.ReferralCode
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *Storage) ListReferrals(ctx context.Context) ([]*model.ReferralCode, error) {
	codes, err := s.client.SMembers(ctx, referralIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	refs := make([]*model.ReferralCode, 0, len(codes))
	for _, code := range codes {
		ref, err := s.GetReferral(ctx, code)
		if errors.Is(err, model.ErrInvalidReferral) {
			_ = s.client.SRem(ctx, referralIndexKey(), code).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Storage) DeleteReferral(ctx context.Context, code string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, referralKey(code))
	pipe.SRem(ctx, referralIndexKey(), code)
	_, err := pipe.Exec(ctx)
	return err
}

// Chat history operations

func (s *Storage) AppendChatMessage(ctx context.Context, id model.TableID, msg model.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, chatKey(id), data)
	pipe.Expire(ctx, chatKey(id), s.cfg.TableTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetChatHistory(ctx context.Context, id model.TableID) ([]model.ChatMessage, error) {
	entries, err := s.client.LRange(ctx, chatKey(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	history := make([]model.ChatMessage, 0, len(entries))
	for _, entry := range entries {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, err
		}
		history = append(history, msg)
	}
	return history, nil
}

func (s *Storage) DeleteChatHistory(ctx context.Context, id model.TableID) error {
	return s.client.Del(ctx, chatKey(id)).Err()
}

// Statistics operations

func (s *Storage) RecordAdmitted(ctx context.Context, id model.ParticipantID) error {
	return s.client.SAdd(ctx, admittedKey(), string(id)).Err()
}

func (s *Storage) AdmittedCount(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, admittedKey()).Result()
	return int(n), err
}

func (s *Storage) IncrementSplitTables(ctx context.Context) error {
	return s.client.Incr(ctx, splitTablesKey()).Err()
}

func (s *Storage) SplitTableCount(ctx context.Context) (int, error) {
	n, err := s.client.Get(ctx, splitTablesKey()).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// Admin log operations

func (s *Storage) AppendAdminLog(ctx context.Context, entry model.AdminLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, adminLogKey(), data).Err()
}

func (s *Storage) AdminLogs(ctx context.Context) ([]model.AdminLogEntry, error) {
	entries, err := s.client.LRange(ctx, adminLogKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	logs := make([]model.AdminLogEntry, 0, len(entries))
	for _, entry := range entries {
		var log model.AdminLogEntry
		if err := json.Unmarshal([]byte(entry), &log); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}
