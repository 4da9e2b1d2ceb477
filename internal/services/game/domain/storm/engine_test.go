package storm

import (
	"testing"
	"time"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/roll"
)

var baseTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestAdvanceDepressionSuccess(t *testing.T) {
	roller := &roll.Scripted{
		Chances:   []bool{true},
		Durations: []time.Duration{25 * time.Minute},
		Values:    []int64{12},
	}
	engine := NewEngine(roller)
	s := New("storm-1", baseTime, baseTime.Add(30*time.Minute))

	now := baseTime.Add(30 * time.Minute)
	events := engine.Advance(s, now)

	if len(events) != 1 {
		t.Fatalf("events len = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != EventDeveloped {
		t.Fatalf("event kind = %v, want developed", ev.Kind)
	}
	if ev.Stage != StageTropicalStorm {
		t.Fatalf("event stage = %v, want tropical storm", ev.Stage)
	}
	if ev.Reward != 12 {
		t.Fatalf("reward = %d, want 12", ev.Reward)
	}
	if s.Stage != StageTropicalStorm {
		t.Fatalf("stage = %v, want tropical storm", s.Stage)
	}
	if s.WindSpeed != 80 || s.Pressure != 1000 || s.Diameter != 300 {
		t.Fatalf("stats = {%d %d %d}, want {80 1000 300}", s.WindSpeed, s.Pressure, s.Diameter)
	}
	if !s.NextCheckAt.Equal(now.Add(25 * time.Minute)) {
		t.Fatalf("next check = %v, want %v", s.NextCheckAt, now.Add(25*time.Minute))
	}
	if !s.LastCheckAt.Equal(now) {
		t.Fatalf("last check = %v, want %v", s.LastCheckAt, now)
	}
}

func TestAdvanceDepressionFailure(t *testing.T) {
	engine := NewEngine(&roll.Scripted{Chances: []bool{false}})
	s := New("storm-1", baseTime, baseTime.Add(30*time.Minute))

	events := engine.Advance(s, baseTime.Add(30*time.Minute))

	if len(events) != 1 || events[0].Kind != EventFailed {
		t.Fatalf("events = %+v, want one failed event", events)
	}
	if s.Stage != StageDepression {
		t.Fatalf("failed roll must not change the stage, got %v", s.Stage)
	}
}

func TestAdvanceRewardStaysInStageRange(t *testing.T) {
	for stage := StageDepression; stage < StageSuperTyphoon; stage++ {
		engine := NewEngine(roll.New(7))
		s := New("storm-1", baseTime, baseTime)
		s.applyStage(stage)

		for i := 0; i < 200; i++ {
			probe := *s
			events := engine.Advance(&probe, baseTime)
			if len(events) != 1 {
				t.Fatalf("stage %v: events len = %d", stage, len(events))
			}
			ev := events[0]
			if ev.Kind != EventDeveloped {
				continue
			}
			r := stageRules[stage]
			if ev.Reward < r.rewardMin || ev.Reward > r.rewardMax {
				t.Fatalf("stage %v reward %d outside [%d, %d]", stage, ev.Reward, r.rewardMin, r.rewardMax)
			}
		}
	}
}

func TestAdvanceRewardDrawnFromRolledStage(t *testing.T) {
	// An oversized scripted value is clamped to the top of whatever range
	// the engine requests, so the reward reveals which stage's range was
	// used for the draw.
	roller := &roll.Scripted{
		Chances:   []bool{true},
		Durations: []time.Duration{25 * time.Minute},
		Values:    []int64{1 << 20},
	}
	engine := NewEngine(roller)
	s := New("storm-1", baseTime, baseTime)

	events := engine.Advance(s, baseTime)

	if len(events) != 1 || events[0].Kind != EventDeveloped {
		t.Fatalf("events = %+v, want one developed event", events)
	}
	depression := stageRules[StageDepression]
	if events[0].Reward != depression.rewardMax {
		t.Fatalf("depression reward = %d, want %d from the depression range",
			events[0].Reward, depression.rewardMax)
	}
}

func TestAdvanceTerminalTooYoungReschedules(t *testing.T) {
	roller := &roll.Scripted{Durations: []time.Duration{20 * time.Minute}}
	engine := NewEngine(roller)
	s := New("storm-1", baseTime, baseTime)
	s.applyStage(StageSuperTyphoon)

	now := baseTime.Add(TerminalAge - time.Hour)
	events := engine.Advance(s, now)

	if len(events) != 0 {
		t.Fatalf("young terminal storm must emit no events, got %+v", events)
	}
	if !s.NextCheckAt.Equal(now.Add(20 * time.Minute)) {
		t.Fatalf("next check = %v, want %v", s.NextCheckAt, now.Add(20*time.Minute))
	}
}

func TestAdvanceTerminalLandfall(t *testing.T) {
	roller := &roll.Scripted{
		Chances: []bool{true},
		Values:  []int64{50000, 120, 900, 4000},
	}
	engine := NewEngine(roller)
	s := New("storm-1", baseTime, baseTime)
	s.applyStage(StageSuperTyphoon)

	now := baseTime.Add(TerminalAge)
	events := engine.Advance(s, now)

	if len(events) != 2 {
		t.Fatalf("events len = %d, want 2", len(events))
	}
	if events[0].Kind != EventLandfallWarning || events[0].Delay != 0 {
		t.Fatalf("first event = %+v, want immediate landfall warning", events[0])
	}
	diss := events[1]
	if diss.Kind != EventDissipated || !diss.Landfall {
		t.Fatalf("second event = %+v, want landfall dissipation", diss)
	}
	if diss.Delay != LandfallDissipationDelay {
		t.Fatalf("dissipation delay = %v, want %v", diss.Delay, LandfallDissipationDelay)
	}
	if diss.Reward != LandfallDissipationReward {
		t.Fatalf("dissipation reward = %d, want %d", diss.Reward, LandfallDissipationReward)
	}
	if diss.Impact == nil {
		t.Fatal("landfall dissipation must carry impact stats")
	}
	if diss.Impact.DamagePesos != 50000 || diss.Impact.Deaths != 120 || diss.Impact.Injuries != 900 || diss.Impact.Missing != 4000 {
		t.Fatalf("impact = %+v", diss.Impact)
	}
}

func TestAdvanceTerminalOcean(t *testing.T) {
	engine := NewEngine(&roll.Scripted{Chances: []bool{false}})
	s := New("storm-1", baseTime, baseTime)
	s.applyStage(StageSuperTyphoon)

	now := baseTime.Add(TerminalAge)
	events := engine.Advance(s, now)

	if len(events) != 3 {
		t.Fatalf("events len = %d, want 3", len(events))
	}
	if events[0].Kind != EventWeakened || events[0].Reward != WeakenedReward || events[0].Delay != 0 {
		t.Fatalf("first event = %+v, want immediate weakened with reward %d", events[0], WeakenedReward)
	}
	if events[1].Kind != EventColdWater || events[1].Delay != ColdWaterDelay {
		t.Fatalf("second event = %+v, want cold water at %v", events[1], ColdWaterDelay)
	}
	diss := events[2]
	if diss.Kind != EventDissipated || diss.Landfall {
		t.Fatalf("third event = %+v, want ocean dissipation", diss)
	}
	if diss.Delay != ColdWaterDissipationDelay || diss.Reward != ColdWaterDissipationReward {
		t.Fatalf("dissipation = %+v", diss)
	}
}

func TestAdvanceTerminalDefersRecheckPastSequence(t *testing.T) {
	engine := NewEngine(&roll.Scripted{Chances: []bool{false}})
	s := New("storm-1", baseTime, baseTime)
	s.applyStage(StageSuperTyphoon)

	now := baseTime.Add(TerminalAge)
	engine.Advance(s, now)

	if !s.NextCheckAt.After(now.Add(ColdWaterDissipationDelay)) {
		t.Fatalf("next check %v must land after the dissipation sequence ends at %v",
			s.NextCheckAt, now.Add(ColdWaterDissipationDelay))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New("storm-1", baseTime, baseTime)
	clone := s.Clone()
	clone.Stage = StageTyphoon

	if s.Stage != StageDepression {
		t.Fatal("mutating clone must not affect original")
	}

	var nilStorm *Storm
	if nilStorm.Clone() != nil {
		t.Fatal("clone of nil must be nil")
	}
}
