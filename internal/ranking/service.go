package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/logger"
)

// Service maintains the balance, level and inventory-value leaderboards.
// Rankings are advisory: they update after commits, outside the money
// transaction, and tolerate being briefly stale.
type Service interface {
	RecordPlayer(ctx context.Context, player *domain.Player, inventoryValue int64)
	GetLeaderboard(ctx context.Context, kind domain.RankingKind, limit int) ([]domain.RankingEntry, error)
	GetPlayerRank(ctx context.Context, kind domain.RankingKind, playerID string) (int, error)
	Enabled() bool
	Close() error
}

type playerInfo struct {
	Username string `json:"username"`
	Level    int    `json:"level"`
}

type service struct {
	client *redis.Client
	cache  *lru.LRU[string, playerInfo]
}

// NewService connects to redis and returns the ranking service. An empty
// addr disables rankings: the returned service answers every call with
// empty results instead of errors.
func NewService(addr, password string) (Service, error) {
	if addr == "" {
		return &service{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &service{
		client: client,
		cache:  lru.NewLRU[string, playerInfo](playerInfoCacheSize, nil, playerInfoTTL),
	}, nil
}

func (s *service) Enabled() bool { return s.client != nil }

func (s *service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// RecordPlayer refreshes the player's scores on every board. Failures are
// logged, never surfaced; a lost update heals on the player's next action.
func (s *service) RecordPlayer(ctx context.Context, player *domain.Player, inventoryValue int64) {
	if s.client == nil {
		return
	}
	log := logger.FromContext(ctx)

	scores := map[string]float64{
		keyBalance:   float64(player.Balance),
		keyLevel:     float64(player.Level),
		keyInventory: float64(inventoryValue),
	}
	for key, score := range scores {
		if err := s.client.ZAdd(ctx, key, &redis.Z{Score: score, Member: player.ID}).Err(); err != nil {
			log.Error("Failed to update leaderboard", "key", key, "error", err)
			return
		}
	}

	info := playerInfo{Username: player.Username, Level: player.Level}
	s.cache.Add(player.ID, info)
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, playerInfoPrefix+player.ID, data, playerInfoTTL).Err(); err != nil {
		log.Error("Failed to cache player info", "playerID", player.ID, "error", err)
	}
}

// GetLeaderboard reads the top entries of one board, best first.
func (s *service) GetLeaderboard(ctx context.Context, kind domain.RankingKind, limit int) ([]domain.RankingEntry, error) {
	if s.client == nil {
		return []domain.RankingEntry{}, nil
	}
	key, err := boardKey(kind)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	members, err := s.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]domain.RankingEntry, 0, len(members))
	for i, member := range members {
		playerID, ok := member.Member.(string)
		if !ok {
			continue
		}
		info := s.lookupPlayerInfo(ctx, playerID)
		entries = append(entries, domain.RankingEntry{
			Rank:     i + 1,
			PlayerID: playerID,
			Username: info.Username,
			Score:    member.Score,
			Level:    info.Level,
		})
	}
	return entries, nil
}

// GetPlayerRank returns the player's 1-based rank, or 0 when unranked.
func (s *service) GetPlayerRank(ctx context.Context, kind domain.RankingKind, playerID string) (int, error) {
	if s.client == nil {
		return 0, nil
	}
	key, err := boardKey(kind)
	if err != nil {
		return 0, err
	}

	rank, err := s.client.ZRevRank(ctx, key, playerID).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read player rank: %w", err)
	}
	return int(rank) + 1, nil
}

func (s *service) lookupPlayerInfo(ctx context.Context, playerID string) playerInfo {
	if info, ok := s.cache.Get(playerID); ok {
		return info
	}
	data, err := s.client.Get(ctx, playerInfoPrefix+playerID).Result()
	if err != nil {
		return playerInfo{}
	}
	var info playerInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return playerInfo{}
	}
	s.cache.Add(playerID, info)
	return info
}

func boardKey(kind domain.RankingKind) (string, error) {
	switch kind {
	case domain.RankingBalance:
		return keyBalance, nil
	case domain.RankingLevel:
		return keyLevel, nil
	case domain.RankingInventory:
		return keyInventory, nil
	default:
		return "", fmt.Errorf("%w: ranking kind %q", domain.ErrInvalidInput, kind)
	}
}
