package score

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		score    Score
		wantMana float32
		wantWon  bool
		wantHint string
	}{
		{"time up", Score{BoneMass: 100, TimeRemaining: 0, RequiredMana: 1000}, 0, false, HintTimeUp},
		{"not enough", Score{BoneMass: 10, TimeRemaining: 50, RequiredMana: 1000}, 500, false, HintLowMana},
		{"exactly required loses", Score{BoneMass: 20, TimeRemaining: 50, RequiredMana: 1000}, 1000, false, HintLowMana},
		{"won", Score{BoneMass: 43, TimeRemaining: 30, RequiredMana: 1000}, 1290, true, HintFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.score.Mana(); math.Abs(float64(got-tt.wantMana)) > 1e-3 {
				t.Errorf("Mana() = %v, want %v", got, tt.wantMana)
			}
			if got := tt.score.Won(); got != tt.wantWon {
				t.Errorf("Won() = %v, want %v", got, tt.wantWon)
			}
			if got := tt.score.Hint(); got != tt.wantHint {
				t.Errorf("Hint() = %q, want %q", got, tt.wantHint)
			}
			wantTitle := TitleLost
			if tt.wantWon {
				wantTitle = TitleWon
			}
			if got := tt.score.Title(); got != wantTitle {
				t.Errorf("Title() = %q, want %q", got, wantTitle)
			}
		})
	}
}

func TestBoneMass(t *testing.T) {
	if got := BoneMass(8.7, 4.2, 10); math.Abs(float64(got-45)) > 1e-4 {
		t.Errorf("BoneMass = %v, want 45", got)
	}
	if got := BoneMass(4.2, 4.2, 10); got != 0 {
		t.Errorf("BoneMass at baseline = %v, want 0", got)
	}
}

func TestLabels(t *testing.T) {
	s := Score{BoneMass: 12.4, TimeRemaining: 9.6}
	if got := s.TimeLabel(); got != "Time left: 10 seconds" {
		t.Errorf("TimeLabel() = %q", got)
	}
	if got := s.BoneMassLabel(); got != "Bone mass: 12" {
		t.Errorf("BoneMassLabel() = %q", got)
	}
}

func TestCountdownExpires(t *testing.T) {
	c := NewCountdown(1, 1)
	fired := 0
	for i := 0; i < 20; i++ {
		if c.Tick(0.1, false) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expiry fired %d times, want 1", fired)
	}
	if !c.Finished() || c.Remaining() != 0 || c.GaveUp() {
		t.Errorf("finished=%v remaining=%v gaveUp=%v", c.Finished(), c.Remaining(), c.GaveUp())
	}
}

func TestCountdownGiveUp(t *testing.T) {
	tests := []struct {
		name    string
		holds   []bool
		expired bool
	}{
		{"held past one second", []bool{true, true, true, true, true}, true},
		{"held exactly one second", []bool{true, true, true, true}, true},
		{"released early", []bool{true, true, true, false, true}, false},
		{"never held", []bool{false, false, false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCountdown(90, 1)
			expired := false
			for _, held := range tt.holds {
				if c.Tick(0.25, held) {
					expired = true
				}
			}
			if expired != tt.expired || c.GaveUp() != tt.expired {
				t.Errorf("expired = %v, gaveUp = %v, want %v", expired, c.GaveUp(), tt.expired)
			}
		})
	}
}

func TestCountdownReset(t *testing.T) {
	c := NewCountdown(1, 1)
	c.Tick(2, false)
	c.Reset(30)
	if c.Finished() || c.Remaining() != 30 {
		t.Errorf("after Reset finished=%v remaining=%v", c.Finished(), c.Remaining())
	}
}

func TestStoreRecordBest(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, filepath.Join(t.TempDir(), "results", "klod.db"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	scores := []Score{
		{BoneMass: 10, TimeRemaining: 10, RequiredMana: 1000},
		{BoneMass: 50, TimeRemaining: 30, RequiredMana: 1000},
		{BoneMass: 20, TimeRemaining: 20, RequiredMana: 1000},
	}
	for _, s := range scores {
		if err := store.Record(ctx, NewResult("box", s, at)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := store.Record(ctx, NewResult("other", scores[1], at)); err != nil {
		t.Fatal(err)
	}

	best, err := store.Best(ctx, "box", 2)
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("Best() returned %d rows, want 2", len(best))
	}
	if best[0].Mana != 1500 || !best[0].Won {
		t.Errorf("best[0] = %+v, want mana 1500 won", best[0])
	}
	if best[1].Mana != 400 || best[1].Won {
		t.Errorf("best[1] = %+v, want mana 400 lost", best[1])
	}
	if !best[0].FinishedAt.Equal(at) {
		t.Errorf("finished_at = %v, want %v", best[0].FinishedAt, at)
	}
}
