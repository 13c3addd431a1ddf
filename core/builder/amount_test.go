package builder

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestNewAmount(t *testing.T) {
	tests := []struct {
		name    string
		units   float64
		want    uint64
		wantErr bool
	}{
		{"1 unit", 1.0, 10_000_000, false},
		{"1.5 units", 1.5, 15_000_000, false},
		{"Smallest", 0.0000001, 1, false},
		{"Zero", 0, 0, false},
		{"Negative", -1.0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAmount(tt.units)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAmount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Stroops() != tt.want {
				t.Errorf("NewAmount() = %v, want %v", got.Stroops(), tt.want)
			}
		})
	}
}

func TestNewAmountFromString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		want    uint64
		wantErr bool
	}{
		{"Stroops", "100", 100, false},
		{"Units", "1.5", 15_000_000, false},
		{"One unit", "1.0", 10_000_000, false},
		{"Empty", "", 0, true},
		{"Invalid", "abc", 0, true},
		{"Negative", "-1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAmountFromString(tt.str)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAmountFromString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Stroops() != tt.want {
				t.Errorf("NewAmountFromString() = %v, want %v", got.Stroops(), tt.want)
			}
		})
	}
}

// 入场费 10000000 stroops 必须显示为 1.00
func TestAmount_StringTrimmed(t *testing.T) {
	tests := []struct {
		name    string
		stroops uint64
		want    string
	}{
		{"EntryFee", 10_000_000, "1.00"},
		{"Half", 15_000_000, "1.50"},
		{"Precise", 15_000_001, "1.5000001"},
		{"Zero", 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAmountFromStroops(tt.stroops).StringTrimmed()
			if got != tt.want {
				t.Errorf("StringTrimmed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAmount_Add(t *testing.T) {
	a := NewAmountFromStroops(100)
	b := NewAmountFromStroops(50)

	if got := a.Add(b).Stroops(); got != 150 {
		t.Errorf("Add() = %v, want 150", got)
	}
}

func TestNewAmountFromBigInt(t *testing.T) {
	if _, err := NewAmountFromBigInt(big.NewInt(-1)); err == nil {
		t.Error("NewAmountFromBigInt() should reject negative value")
	}

	got, err := NewAmountFromBigInt(big.NewInt(10_000_000))
	if err != nil {
		t.Fatalf("NewAmountFromBigInt() error = %v", err)
	}
	if got.StringTrimmed() != "1.00" {
		t.Errorf("StringTrimmed() = %v, want 1.00", got.StringTrimmed())
	}
}

func TestAmount_JSON(t *testing.T) {
	a := NewAmountFromStroops(15_000_000)
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"15000000"` {
		t.Errorf("Marshal() = %s, want \"15000000\"", data)
	}

	var back Amount
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Equal(a) {
		t.Errorf("round trip = %v, want %v", back.StringStroops(), a.StringStroops())
	}

	if err := back.UnmarshalJSON([]byte(`"-1"`)); err == nil {
		t.Error("UnmarshalJSON() should reject negative value")
	}
}
