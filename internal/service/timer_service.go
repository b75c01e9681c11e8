package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 计时器模式
const (
	TimerModeCountdown = "countdown"
	TimerModeProgress  = "progress"
	TimerModeCycle     = "cycle"
)

// 循环计时（番茄钟）的阶段
const (
	CyclePhaseWork      = "work"
	CyclePhaseBreak     = "break"
	CyclePhaseLongBreak = "longBreak"
	CyclePhaseFinished  = "finished"
)

// 番茄钟默认参数，非法输入一律回落到默认值
const (
	defaultWorkDuration      = 25 * time.Minute
	defaultBreakDuration     = 5 * time.Minute
	defaultLongBreakDuration = 15 * time.Minute
	defaultTotalCycles       = 4
)

var (
	// ErrTimerNotFound 在指定计时会话不存在时返回
	ErrTimerNotFound = errors.New("timer session not found")
	// ErrTimerInvalidDuration 在时长不为正时返回
	ErrTimerInvalidDuration = errors.New("timer duration must be positive")
)

// TimerService 管理进程内的计时会话，不落盘。
// 暂停冻结剩余/已过时长，恢复时用冻结值重新推算绝对时间戳，
// 因此暂停期间的墙钟漂移不会影响计时精度。
type TimerService struct {
	mu       sync.Mutex
	sessions map[string]*timerSession
	now      func() time.Time
}

// CycleConfig 描述循环计时的各阶段时长与轮数，零值字段使用默认值。
type CycleConfig struct {
	WorkDuration      time.Duration
	BreakDuration     time.Duration
	LongBreakDuration time.Duration
	TotalCycles       int
}

// TimerSnapshot 是某一时刻的会话视图，阶段推进在快照时惰性结算。
type TimerSnapshot struct {
	ID          string
	Mode        string
	Running     bool
	Paused      bool
	Duration    time.Duration
	Remaining   time.Duration
	Elapsed     time.Duration
	Percentage  int
	Phase       string
	CycleCount  int
	TotalCycles int
	Finished    bool
	// PhaseChanged 表示本次快照期间循环计时切换过阶段，
	// 供调用方触发提示音/通知，通知本身不在本层
	PhaseChanged bool
}

type timerSession struct {
	id   string
	mode string

	running bool
	paused  bool

	// countdown/progress：目标时长与绝对锚点
	duration  time.Duration
	endTime   time.Time
	startTime time.Time
	frozen    time.Duration

	// cycle
	config     CycleConfig
	phase      string
	phaseEnd   time.Time
	cycleCount int
}

// NewTimerService 构造 TimerService
func NewTimerService() *TimerService {
	return &TimerService{
		sessions: make(map[string]*timerSession),
		now:      time.Now,
	}
}

// WithClock 覆盖时间源，仅用于测试
func (s *TimerService) WithClock(now func() time.Time) *TimerService {
	if now != nil {
		s.now = now
	}
	return s
}

// StartCountdown 创建并启动一个倒计时会话
func (s *TimerService) StartCountdown(duration time.Duration) (TimerSnapshot, error) {
	if duration <= 0 {
		return TimerSnapshot{}, ErrTimerInvalidDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := &timerSession{
		id:       uuid.NewString(),
		mode:     TimerModeCountdown,
		running:  true,
		duration: duration,
		endTime:  s.now().Add(duration),
	}
	s.sessions[session.id] = session

	return s.snapshotLocked(session), nil
}

// StartProgress 创建并启动一个正计时会话，朝目标时长累计
func (s *TimerService) StartProgress(duration time.Duration) (TimerSnapshot, error) {
	if duration <= 0 {
		return TimerSnapshot{}, ErrTimerInvalidDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := &timerSession{
		id:        uuid.NewString(),
		mode:      TimerModeProgress,
		running:   true,
		duration:  duration,
		startTime: s.now(),
	}
	s.sessions[session.id] = session

	return s.snapshotLocked(session), nil
}

// StartCycle 创建并启动一个循环计时会话，从工作阶段开始
func (s *TimerService) StartCycle(config CycleConfig) (TimerSnapshot, error) {
	config = normalizeCycleConfig(config)

	s.mu.Lock()
	defer s.mu.Unlock()

	session := &timerSession{
		id:       uuid.NewString(),
		mode:     TimerModeCycle,
		running:  true,
		config:   config,
		phase:    CyclePhaseWork,
		phaseEnd: s.now().Add(config.WorkDuration),
	}
	s.sessions[session.id] = session

	return s.snapshotLocked(session), nil
}

// Pause 暂停会话，冻结当前的剩余/已过时长
func (s *TimerService) Pause(id string) (TimerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return TimerSnapshot{}, ErrTimerNotFound
	}

	if session.running && !session.paused {
		now := s.now()
		switch session.mode {
		case TimerModeCountdown:
			session.frozen = maxDuration(0, session.endTime.Sub(now))
		case TimerModeProgress:
			session.frozen = maxDuration(0, now.Sub(session.startTime))
		case TimerModeCycle:
			s.advanceCycleLocked(session, now)
			session.frozen = maxDuration(0, session.phaseEnd.Sub(now))
		}
		session.paused = true
	}

	return s.snapshotLocked(session), nil
}

// Resume 恢复被暂停的会话，用冻结值重新锚定绝对时间
func (s *TimerService) Resume(id string) (TimerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return TimerSnapshot{}, ErrTimerNotFound
	}

	if session.running && session.paused {
		now := s.now()
		switch session.mode {
		case TimerModeCountdown:
			session.endTime = now.Add(session.frozen)
		case TimerModeProgress:
			session.startTime = now.Add(-session.frozen)
		case TimerModeCycle:
			session.phaseEnd = now.Add(session.frozen)
		}
		session.paused = false
	}

	return s.snapshotLocked(session), nil
}

// Reset 把会话恢复到初始状态并停止计时
func (s *TimerService) Reset(id string) (TimerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return TimerSnapshot{}, ErrTimerNotFound
	}

	session.running = false
	session.paused = false
	session.frozen = 0

	switch session.mode {
	case TimerModeCountdown:
		session.frozen = session.duration
	case TimerModeCycle:
		session.phase = CyclePhaseWork
		session.cycleCount = 0
	}

	return s.snapshotLocked(session), nil
}

// Snapshot 返回会话的当前视图，循环计时在此结算到期的阶段切换
func (s *TimerService) Snapshot(id string) (TimerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return TimerSnapshot{}, ErrTimerNotFound
	}

	return s.snapshotLocked(session), nil
}

// Remove 丢弃会话，等价于清掉浏览器里的 interval 句柄
func (s *TimerService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *TimerService) snapshotLocked(session *timerSession) TimerSnapshot {
	now := s.now()
	snap := TimerSnapshot{
		ID:       session.id,
		Mode:     session.mode,
		Running:  session.running,
		Paused:   session.paused,
		Duration: session.duration,
	}

	switch session.mode {
	case TimerModeCountdown:
		remaining := session.frozen
		if session.running && !session.paused {
			remaining = maxDuration(0, session.endTime.Sub(now))
		}
		snap.Remaining = remaining
		if session.running && !session.paused && remaining == 0 {
			session.running = false
			snap.Running = false
			snap.Finished = true
		}

	case TimerModeProgress:
		elapsed := session.frozen
		if session.running && !session.paused {
			elapsed = maxDuration(0, now.Sub(session.startTime))
		}
		if elapsed > session.duration {
			elapsed = session.duration
		}
		snap.Elapsed = elapsed
		if session.duration > 0 {
			snap.Percentage = int(100 * elapsed / session.duration)
		}
		if session.running && !session.paused && elapsed >= session.duration {
			session.running = false
			snap.Running = false
			snap.Finished = true
		}

	case TimerModeCycle:
		if session.running && !session.paused {
			snap.PhaseChanged = s.advanceCycleLocked(session, now)
		}
		snap.Phase = session.phase
		snap.CycleCount = session.cycleCount
		snap.TotalCycles = session.config.TotalCycles
		snap.Running = session.running
		if session.phase == CyclePhaseFinished {
			snap.Finished = true
			snap.Remaining = 0
		} else if session.paused {
			snap.Remaining = session.frozen
		} else if session.running {
			snap.Remaining = maxDuration(0, session.phaseEnd.Sub(now))
		}
	}

	return snap
}

// advanceCycleLocked 结算所有已到期的阶段切换，返回是否发生过切换。
// 下一阶段从上一阶段的截止时刻接续，而不是从结算时刻，避免漂移。
func (s *TimerService) advanceCycleLocked(session *timerSession, now time.Time) bool {
	changed := false

	for session.phase != CyclePhaseFinished && !now.Before(session.phaseEnd) {
		switch session.phase {
		case CyclePhaseWork:
			session.cycleCount++
			if session.cycleCount < session.config.TotalCycles {
				session.phase = CyclePhaseBreak
				session.phaseEnd = session.phaseEnd.Add(session.config.BreakDuration)
			} else {
				session.phase = CyclePhaseLongBreak
				session.phaseEnd = session.phaseEnd.Add(session.config.LongBreakDuration)
			}
		case CyclePhaseBreak:
			session.phase = CyclePhaseWork
			session.phaseEnd = session.phaseEnd.Add(session.config.WorkDuration)
		case CyclePhaseLongBreak:
			session.phase = CyclePhaseFinished
			session.running = false
		}
		changed = true
	}

	return changed
}

func normalizeCycleConfig(config CycleConfig) CycleConfig {
	if config.WorkDuration <= 0 {
		config.WorkDuration = defaultWorkDuration
	}
	if config.BreakDuration <= 0 {
		config.BreakDuration = defaultBreakDuration
	}
	if config.LongBreakDuration <= 0 {
		config.LongBreakDuration = defaultLongBreakDuration
	}
	if config.TotalCycles <= 0 {
		config.TotalCycles = defaultTotalCycles
	}
	return config
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
