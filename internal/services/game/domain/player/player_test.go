package player

import (
	"errors"
	"testing"
	"time"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
)

var baseTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestNewRecordStartsEmpty(t *testing.T) {
	rec := New("user-1")
	if rec.Balance != 0 {
		t.Fatalf("balance = %d, want 0", rec.Balance)
	}
	if rec.Storm != nil {
		t.Fatal("new record must have no storm")
	}
	if !rec.TaxDueAt.IsZero() {
		t.Fatal("new record must have no tax scheduled")
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("validate new record: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{
			name:    "empty user id",
			mutate:  func(r *Record) { r.UserID = "" },
			wantErr: ErrEmptyUserID,
		},
		{
			name:    "negative balance",
			mutate:  func(r *Record) { r.Balance = -1 },
			wantErr: ErrNegativeBalance,
		},
		{
			name:    "liability without notice",
			mutate:  func(r *Record) { r.TaxLiability = 100 },
			wantErr: ErrLiabilityWithoutNotice,
		},
		{
			name:    "notice without liability",
			mutate:  func(r *Record) { r.TaxNotifiedAt = baseTime },
			wantErr: ErrLiabilityWithoutNotice,
		},
		{
			name: "liability and notice together",
			mutate: func(r *Record) {
				r.TaxLiability = 100
				r.TaxNotifiedAt = baseTime
			},
			wantErr: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := New("user-1")
			tc.mutate(rec)
			err := rec.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("validate error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	rec := New("user-1")
	rec.Storm = storm.New("storm-1", baseTime, baseTime.Add(30*time.Minute))

	clone := rec.Clone()
	clone.Storm.Stage = storm.StageTyphoon
	clone.Balance = 500

	if rec.Storm.Stage != storm.StageDepression {
		t.Fatal("mutating cloned storm must not affect original")
	}
	if rec.Balance != 0 {
		t.Fatal("mutating cloned balance must not affect original")
	}
}

func TestClearStormRestartsCooldown(t *testing.T) {
	rec := New("user-1")
	rec.Storm = storm.New("storm-1", baseTime, baseTime)
	rec.SpawnCooldownAt = baseTime

	later := baseTime.Add(3 * time.Hour)
	rec.ClearStorm(later)

	if rec.Storm != nil {
		t.Fatal("storm must be removed")
	}
	if !rec.SpawnCooldownAt.Equal(later) {
		t.Fatalf("cooldown = %v, want %v", rec.SpawnCooldownAt, later)
	}
}

func TestCreditIgnoresNonPositive(t *testing.T) {
	rec := New("user-1")
	rec.Credit(0)
	rec.Credit(-10)
	if rec.Balance != 0 {
		t.Fatalf("balance = %d, want 0", rec.Balance)
	}
	rec.Credit(25)
	if rec.Balance != 25 {
		t.Fatalf("balance = %d, want 25", rec.Balance)
	}
}
