// Package contract 比赛合约客户端
//
// 在意图编排器之上提供比赛合约的动作接口：读操作走只读模拟，
// 写操作生成意图并走完整生命周期。
package contract

import (
	"fmt"
	"math/big"

	"github.com/gridsnake/v1/core/builder"
	"github.com/gridsnake/v1/core/encoding"
)

// CompetitionStatus 比赛状态
//
// 状态只由合约推进，客户端只读不改。
type CompetitionStatus string

const (
	StatusPending CompetitionStatus = "Pending"
	StatusActive  CompetitionStatus = "Active"
	StatusEnded   CompetitionStatus = "Ended"
)

// Competition 比赛信息
type Competition struct {
	SessionID    uint32            `json:"session_id"`
	Deadline     uint64            `json:"deadline"` // unix 秒
	Status       CompetitionStatus `json:"status"`
	PrizePool    *builder.Amount   `json:"prize_pool"`
	TotalPlayers uint32            `json:"total_players"`
	EntryFee     *builder.Amount   `json:"entry_fee"`
}

// CanPlay 当前是否可参赛
//
// 要求比赛处于 Active 且距截止时间至少还有一局的余量。
func (c *Competition) CanPlay(now int64) bool {
	if c == nil || c.Status != StatusActive {
		return false
	}
	return uint64(now+60) < c.Deadline
}

// PlayerStanding 玩家排名
//
// Rank 由合约按 TotalScore 降序派生，客户端不自行计算。
type PlayerStanding struct {
	Player     string `json:"player"`
	TotalGames uint32 `json:"total_games"`
	TotalScore uint64 `json:"total_score"`
	Rank       uint32 `json:"rank"`
}

// ===== 原生值编解码 =====

// ToValue 编码为合约原生值
func (c *Competition) ToValue() (encoding.Value, error) {
	sessionID, err := encoding.U32FromInt("session_id", int64(c.SessionID))
	if err != nil {
		return encoding.Value{}, err
	}
	status, err := encoding.Symbol("status", string(c.Status))
	if err != nil {
		return encoding.Value{}, err
	}
	prizePool, err := encoding.I128("prize_pool", c.PrizePool.BigInt())
	if err != nil {
		return encoding.Value{}, err
	}
	entryFee, err := encoding.I128("entry_fee", c.EntryFee.BigInt())
	if err != nil {
		return encoding.Value{}, err
	}

	return encoding.Map(
		mapEntry("session_id", sessionID),
		mapEntry("deadline", encoding.U64(c.Deadline)),
		mapEntry("status", status),
		mapEntry("prize_pool", prizePool),
		mapEntry("total_players", encoding.U32(c.TotalPlayers)),
		mapEntry("entry_fee", entryFee),
	), nil
}

// CompetitionFromValue 从合约原生值解码
func CompetitionFromValue(v encoding.Value) (*Competition, error) {
	sessionID, err := mapU32(v, "session_id")
	if err != nil {
		return nil, err
	}
	deadline, err := mapU64(v, "deadline")
	if err != nil {
		return nil, err
	}
	statusStr, err := mapSymbol(v, "status")
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(statusStr)
	if err != nil {
		return nil, err
	}
	prizePool, err := mapI128(v, "prize_pool")
	if err != nil {
		return nil, err
	}
	totalPlayers, err := mapU32(v, "total_players")
	if err != nil {
		return nil, err
	}
	entryFeeRaw, err := mapI128(v, "entry_fee")
	if err != nil {
		return nil, err
	}

	prizePoolAmt, err := builder.NewAmountFromBigInt(prizePool)
	if err != nil {
		return nil, fmt.Errorf("prize_pool: %w", err)
	}
	entryFeeAmt, err := builder.NewAmountFromBigInt(entryFeeRaw)
	if err != nil {
		return nil, fmt.Errorf("entry_fee: %w", err)
	}

	return &Competition{
		SessionID:    sessionID,
		Deadline:     deadline,
		Status:       status,
		PrizePool:    prizePoolAmt,
		TotalPlayers: totalPlayers,
		EntryFee:     entryFeeAmt,
	}, nil
}

// ToValue 编码为合约原生值
func (p *PlayerStanding) ToValue() (encoding.Value, error) {
	player, err := encoding.Address("player", p.Player)
	if err != nil {
		return encoding.Value{}, err
	}

	return encoding.Map(
		mapEntry("player", player),
		mapEntry("total_games", encoding.U32(p.TotalGames)),
		mapEntry("total_score", encoding.U64(p.TotalScore)),
		mapEntry("rank", encoding.U32(p.Rank)),
	), nil
}

// StandingFromValue 从合约原生值解码
func StandingFromValue(v encoding.Value) (*PlayerStanding, error) {
	player, err := mapAddress(v, "player")
	if err != nil {
		return nil, err
	}
	totalGames, err := mapU32(v, "total_games")
	if err != nil {
		return nil, err
	}
	totalScore, err := mapU64(v, "total_score")
	if err != nil {
		return nil, err
	}
	rank, err := mapU32(v, "rank")
	if err != nil {
		return nil, err
	}

	return &PlayerStanding{
		Player:     player,
		TotalGames: totalGames,
		TotalScore: totalScore,
		Rank:       rank,
	}, nil
}

// StandingsFromValue 从合约原生值解码排行榜
func StandingsFromValue(v encoding.Value) ([]*PlayerStanding, error) {
	items, err := v.AsVec()
	if err != nil {
		return nil, err
	}
	standings := make([]*PlayerStanding, 0, len(items))
	for i, item := range items {
		s, err := StandingFromValue(item)
		if err != nil {
			return nil, fmt.Errorf("standing %d: %w", i, err)
		}
		standings = append(standings, s)
	}
	return standings, nil
}

func parseStatus(s string) (CompetitionStatus, error) {
	switch CompetitionStatus(s) {
	case StatusPending, StatusActive, StatusEnded:
		return CompetitionStatus(s), nil
	default:
		return "", fmt.Errorf("unknown competition status %q", s)
	}
}

// ===== 解码辅助 =====

func mapEntry(key string, value encoding.Value) encoding.MapEntry {
	return encoding.MapEntry{Key: key, Value: value}
}

func mapField(v encoding.Value, key string) (encoding.Value, error) {
	field, ok := v.MapGet(key)
	if !ok {
		return encoding.Value{}, fmt.Errorf("missing field %q", key)
	}
	return field, nil
}

func mapU32(v encoding.Value, key string) (uint32, error) {
	field, err := mapField(v, key)
	if err != nil {
		return 0, err
	}
	return field.AsU32()
}

func mapU64(v encoding.Value, key string) (uint64, error) {
	field, err := mapField(v, key)
	if err != nil {
		return 0, err
	}
	return field.AsU64()
}

func mapI128(v encoding.Value, key string) (*big.Int, error) {
	field, err := mapField(v, key)
	if err != nil {
		return nil, err
	}
	return field.AsI128()
}

func mapSymbol(v encoding.Value, key string) (string, error) {
	field, err := mapField(v, key)
	if err != nil {
		return "", err
	}
	return field.AsSymbol()
}

func mapAddress(v encoding.Value, key string) (string, error) {
	field, err := mapField(v, key)
	if err != nil {
		return "", err
	}
	return field.AsAddress()
}
