package service

import (
	"errors"
	"testing"
	"time"
)

type fakeTimerClock struct {
	current time.Time
}

func (c *fakeTimerClock) now() time.Time {
	return c.current
}

func (c *fakeTimerClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTimerTestService() (*TimerService, *fakeTimerClock) {
	clock := &fakeTimerClock{current: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}
	return NewTimerService().WithClock(clock.now), clock
}

func TestStartCountdownRejectsInvalidDuration(t *testing.T) {
	svc, _ := newTimerTestService()

	if _, err := svc.StartCountdown(0); !errors.Is(err, ErrTimerInvalidDuration) {
		t.Fatalf("expected ErrTimerInvalidDuration, got %v", err)
	}
	if _, err := svc.StartProgress(-time.Minute); !errors.Is(err, ErrTimerInvalidDuration) {
		t.Fatalf("expected ErrTimerInvalidDuration, got %v", err)
	}
}

func TestCountdownPauseResumeWithoutDrift(t *testing.T) {
	svc, clock := newTimerTestService()

	snap, err := svc.StartCountdown(10 * time.Minute)
	if err != nil {
		t.Fatalf("StartCountdown returned error: %v", err)
	}

	clock.advance(3 * time.Minute)
	paused, err := svc.Pause(snap.ID)
	if err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	if !paused.Paused || paused.Remaining != 7*time.Minute {
		t.Fatalf("expected paused with 7m remaining, got %+v", paused)
	}

	// 暂停期间墙钟走多久都不影响剩余时长
	clock.advance(2 * time.Hour)
	still, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if still.Remaining != 7*time.Minute {
		t.Fatalf("expected remaining frozen at 7m, got %v", still.Remaining)
	}

	resumed, err := svc.Resume(snap.ID)
	if err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	if resumed.Paused || resumed.Remaining != 7*time.Minute {
		t.Fatalf("expected running with 7m remaining, got %+v", resumed)
	}

	clock.advance(7 * time.Minute)
	final, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if !final.Finished || final.Running {
		t.Fatalf("expected finished countdown, got %+v", final)
	}
}

func TestProgressReachesTarget(t *testing.T) {
	svc, clock := newTimerTestService()

	snap, err := svc.StartProgress(5 * time.Minute)
	if err != nil {
		t.Fatalf("StartProgress returned error: %v", err)
	}

	clock.advance(2 * time.Minute)
	mid, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if mid.Elapsed != 2*time.Minute || mid.Percentage != 40 {
		t.Fatalf("expected 2m elapsed at 40%%, got %+v", mid)
	}

	if _, err := svc.Pause(snap.ID); err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	clock.advance(30 * time.Minute)
	if _, err := svc.Resume(snap.ID); err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}

	clock.advance(3 * time.Minute)
	final, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if !final.Finished || final.Elapsed != 5*time.Minute || final.Percentage != 100 {
		t.Fatalf("expected finished at 100%%, got %+v", final)
	}
}

func TestCyclePhaseWalk(t *testing.T) {
	svc, clock := newTimerTestService()

	snap, err := svc.StartCycle(CycleConfig{
		WorkDuration:      25 * time.Minute,
		BreakDuration:     5 * time.Minute,
		LongBreakDuration: 15 * time.Minute,
		TotalCycles:       2,
	})
	if err != nil {
		t.Fatalf("StartCycle returned error: %v", err)
	}
	if snap.Phase != CyclePhaseWork || snap.CycleCount != 0 {
		t.Fatalf("expected initial work phase, got %+v", snap)
	}

	// 第一轮工作结束，进入短休
	clock.advance(25 * time.Minute)
	afterWork, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if afterWork.Phase != CyclePhaseBreak || afterWork.CycleCount != 1 {
		t.Fatalf("expected break phase after first work, got %+v", afterWork)
	}
	if !afterWork.PhaseChanged {
		t.Fatal("expected phase change to be reported")
	}

	// 短休结束，回到工作
	clock.advance(5 * time.Minute)
	secondWork, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if secondWork.Phase != CyclePhaseWork {
		t.Fatalf("expected second work phase, got %+v", secondWork)
	}

	// 最后一轮工作结束，进入长休
	clock.advance(25 * time.Minute)
	longBreak, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if longBreak.Phase != CyclePhaseLongBreak || longBreak.CycleCount != 2 {
		t.Fatalf("expected long break after final work, got %+v", longBreak)
	}

	// 长休结束，整个循环完成
	clock.advance(15 * time.Minute)
	finished, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if finished.Phase != CyclePhaseFinished || !finished.Finished || finished.Running {
		t.Fatalf("expected finished cycle, got %+v", finished)
	}
}

func TestCycleLazyAdvanceSettlesMultiplePhases(t *testing.T) {
	svc, clock := newTimerTestService()

	snap, err := svc.StartCycle(CycleConfig{
		WorkDuration:  10 * time.Minute,
		BreakDuration: 2 * time.Minute,
		TotalCycles:   3,
	})
	if err != nil {
		t.Fatalf("StartCycle returned error: %v", err)
	}

	// 一口气跳过工作+短休+下一段工作的一半：
	// 阶段从截止时刻接续，不从结算时刻重排
	clock.advance(17 * time.Minute)
	mid, err := svc.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if mid.Phase != CyclePhaseWork || mid.CycleCount != 1 {
		t.Fatalf("expected second work phase, got %+v", mid)
	}
	if mid.Remaining != 5*time.Minute {
		t.Fatalf("expected 5m remaining in second work, got %v", mid.Remaining)
	}
}

func TestCycleConfigDefaults(t *testing.T) {
	svc, _ := newTimerTestService()

	snap, err := svc.StartCycle(CycleConfig{WorkDuration: -time.Minute, TotalCycles: -3})
	if err != nil {
		t.Fatalf("StartCycle returned error: %v", err)
	}
	if snap.TotalCycles != 4 {
		t.Fatalf("expected default 4 cycles, got %d", snap.TotalCycles)
	}
	if snap.Remaining != 25*time.Minute {
		t.Fatalf("expected default 25m work duration, got %v", snap.Remaining)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	svc, clock := newTimerTestService()

	snap, err := svc.StartCountdown(10 * time.Minute)
	if err != nil {
		t.Fatalf("StartCountdown returned error: %v", err)
	}

	clock.advance(4 * time.Minute)
	reset, err := svc.Reset(snap.ID)
	if err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if reset.Running || reset.Remaining != 10*time.Minute {
		t.Fatalf("expected stopped timer with full duration, got %+v", reset)
	}
}

func TestRemoveForgetsSession(t *testing.T) {
	svc, _ := newTimerTestService()

	snap, err := svc.StartCountdown(time.Minute)
	if err != nil {
		t.Fatalf("StartCountdown returned error: %v", err)
	}

	svc.Remove(snap.ID)

	if _, err := svc.Snapshot(snap.ID); !errors.Is(err, ErrTimerNotFound) {
		t.Fatalf("expected ErrTimerNotFound, got %v", err)
	}
}
