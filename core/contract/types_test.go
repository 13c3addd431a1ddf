package contract

import (
	"testing"
	"time"

	"github.com/gridsnake/v1/core/builder"
	"github.com/gridsnake/v1/core/encoding"
)

func mustAmount(t *testing.T, s string) *builder.Amount {
	t.Helper()
	a, err := builder.NewAmountFromString(s)
	if err != nil {
		t.Fatalf("NewAmountFromString(%q) error = %v", s, err)
	}
	return a
}

func TestCompetition_RoundTrip(t *testing.T) {
	comp := &Competition{
		SessionID:    7,
		Deadline:     1900000000,
		Status:       StatusActive,
		PrizePool:    mustAmount(t, "250.00"),
		TotalPlayers: 10,
		EntryFee:     mustAmount(t, "25.00"),
	}

	v, err := comp.ToValue()
	if err != nil {
		t.Fatalf("ToValue() error = %v", err)
	}

	got, err := CompetitionFromValue(v)
	if err != nil {
		t.Fatalf("CompetitionFromValue() error = %v", err)
	}

	if got.SessionID != comp.SessionID {
		t.Errorf("SessionID = %v, want %v", got.SessionID, comp.SessionID)
	}
	if got.Deadline != comp.Deadline {
		t.Errorf("Deadline = %v, want %v", got.Deadline, comp.Deadline)
	}
	if got.Status != StatusActive {
		t.Errorf("Status = %v, want %v", got.Status, StatusActive)
	}
	if got.PrizePool.BigInt().Cmp(comp.PrizePool.BigInt()) != 0 {
		t.Errorf("PrizePool = %v, want %v", got.PrizePool, comp.PrizePool)
	}
	if got.TotalPlayers != comp.TotalPlayers {
		t.Errorf("TotalPlayers = %v, want %v", got.TotalPlayers, comp.TotalPlayers)
	}
	if got.EntryFee.BigInt().Cmp(comp.EntryFee.BigInt()) != 0 {
		t.Errorf("EntryFee = %v, want %v", got.EntryFee, comp.EntryFee)
	}
}

func TestCompetitionFromValue_Invalid(t *testing.T) {
	// 缺字段
	incomplete := encoding.Map(
		encoding.MapEntry{Key: "session_id", Value: encoding.U32(1)},
	)
	if _, err := CompetitionFromValue(incomplete); err == nil {
		t.Error("CompetitionFromValue() expected error for missing fields")
	}

	// 未知状态
	status, err := encoding.Symbol("status", "Cancelled")
	if err != nil {
		t.Fatalf("Symbol() error = %v", err)
	}
	fee, err := encoding.I128("fee", mustAmount(t, "1").BigInt())
	if err != nil {
		t.Fatalf("I128() error = %v", err)
	}
	unknown := encoding.Map(
		encoding.MapEntry{Key: "session_id", Value: encoding.U32(1)},
		encoding.MapEntry{Key: "deadline", Value: encoding.U64(1900000000)},
		encoding.MapEntry{Key: "status", Value: status},
		encoding.MapEntry{Key: "prize_pool", Value: fee},
		encoding.MapEntry{Key: "total_players", Value: encoding.U32(0)},
		encoding.MapEntry{Key: "entry_fee", Value: fee},
	)
	if _, err := CompetitionFromValue(unknown); err == nil {
		t.Error("CompetitionFromValue() expected error for unknown status")
	}
}

func TestCompetition_CanPlay(t *testing.T) {
	now := time.Now().Unix()

	tests := []struct {
		name string
		comp *Competition
		want bool
	}{
		{
			name: "ActiveWithMargin",
			comp: &Competition{Status: StatusActive, Deadline: uint64(now + 3600)},
			want: true,
		},
		{
			name: "ActiveDeadlineTooClose",
			comp: &Competition{Status: StatusActive, Deadline: uint64(now + 30)},
			want: false,
		},
		{
			name: "Pending",
			comp: &Competition{Status: StatusPending, Deadline: uint64(now + 3600)},
			want: false,
		},
		{
			name: "Ended",
			comp: &Competition{Status: StatusEnded, Deadline: uint64(now + 3600)},
			want: false,
		},
		{
			name: "Nil",
			comp: nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.comp.CanPlay(now); got != tt.want {
				t.Errorf("CanPlay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStandings_RoundTrip(t *testing.T) {
	standings := []*PlayerStanding{
		{Player: testAccount, TotalGames: 3, TotalScore: 420, Rank: 1},
		{Player: testAccount2, TotalGames: 5, TotalScore: 180, Rank: 2},
	}

	items := make([]encoding.Value, 0, len(standings))
	for _, s := range standings {
		v, err := s.ToValue()
		if err != nil {
			t.Fatalf("ToValue() error = %v", err)
		}
		items = append(items, v)
	}

	got, err := StandingsFromValue(encoding.Vec(items...))
	if err != nil {
		t.Fatalf("StandingsFromValue() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i := range standings {
		if *got[i] != *standings[i] {
			t.Errorf("standing %d = %+v, want %+v", i, got[i], standings[i])
		}
	}

	// 非列表值
	if _, err := StandingsFromValue(encoding.U32(1)); err == nil {
		t.Error("StandingsFromValue() expected error for non-vec value")
	}
}
