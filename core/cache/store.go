// Package cache 只读快照缓存
//
// 缓存比赛信息和排行榜的最终一致快照，供 UI 层高频读取。
// 快照永远不作为同步依据，写操作前的门禁判断不读缓存。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// 快照键
const (
	keyCompetition = "competition"
	keyLeaderboard = "leaderboard"
	keyEntryFee    = "entry_fee"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

// Store 快照存储
type Store struct {
	cache *bigcache.BigCache
}

// NewStore 创建快照存储
//
// ttl 是快照的最长存活时间，过期后读取返回 ErrMiss。
func NewStore(ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c, err := bigcache.New(context.Background(), bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return &Store{cache: c}, nil
}

// Close 关闭存储
func (s *Store) Close() error {
	return s.cache.Close()
}

func (s *Store) set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}
	return s.cache.Set(key, data)
}

func (s *Store) get(key string, out any) error {
	data, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return ErrMiss
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal snapshot %s: %w", key, err)
	}
	return nil
}

// SetCompetition 写入比赛快照
func (s *Store) SetCompetition(v any) error {
	return s.set(keyCompetition, v)
}

// GetCompetition 读取比赛快照
func (s *Store) GetCompetition(out any) error {
	return s.get(keyCompetition, out)
}

// SetLeaderboard 写入排行榜快照
func (s *Store) SetLeaderboard(v any) error {
	return s.set(keyLeaderboard, v)
}

// GetLeaderboard 读取排行榜快照
func (s *Store) GetLeaderboard(out any) error {
	return s.get(keyLeaderboard, out)
}

// SetEntryFee 写入入场费快照
func (s *Store) SetEntryFee(v any) error {
	return s.set(keyEntryFee, v)
}

// GetEntryFee 读取入场费快照
func (s *Store) GetEntryFee(out any) error {
	return s.get(keyEntryFee, out)
}

// SetPlayerStats 写入玩家战绩快照
func (s *Store) SetPlayerStats(account string, v any) error {
	return s.set("stats:"+account, v)
}

// GetPlayerStats 读取玩家战绩快照
func (s *Store) GetPlayerStats(account string, out any) error {
	return s.get("stats:"+account, out)
}
