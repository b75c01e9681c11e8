package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WeeklySummary 汇总本周（周日到周六）的复习与目标数据。
type WeeklySummary struct {
	WeekStart   string         `json:"week_start"`
	WeekEnd     string         `json:"week_end"`
	Reviews     ReviewStats    `json:"reviews"`
	Goals       CompletionRate `json:"goals"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// MonthlySummary 汇总当前自然月的整体数据。
type MonthlySummary struct {
	Month          string         `json:"month"`
	JournalEntries int            `json:"journal_entries"`
	LessonsCreated int            `json:"lessons_created"`
	Reviews        ReviewStats    `json:"reviews"`
	Goals          CompletionRate `json:"goals"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// SummaryService 生成并缓存周/月统计摘要。
// 摘要是派生投影：缓存行带周期键与生成时刻，周期一过就重算，
// 后台每 6 小时的巡检与按需读取共用同一套刷新逻辑。
type SummaryService struct {
	db        *gorm.DB
	goals     *GoalService
	reminders *ReminderService
	journal   *JournalService
	lessons   *LessonService
	now       func() time.Time
}

// NewSummaryService 构造 SummaryService。
func NewSummaryService(gdb *gorm.DB, goals *GoalService, reminders *ReminderService, journal *JournalService, lessons *LessonService) *SummaryService {
	return &SummaryService{
		db:        gdb,
		goals:     goals,
		reminders: reminders,
		journal:   journal,
		lessons:   lessons,
		now:       time.Now,
	}
}

// WithClock 覆盖时间源，仅用于测试。
func (s *SummaryService) WithClock(now func() time.Time) *SummaryService {
	if now != nil {
		s.now = now
	}
	return s
}

// Weekly 返回本周摘要，缓存未过期时直接复用。
func (s *SummaryService) Weekly() (WeeklySummary, error) {
	var summary WeeklySummary
	key := s.weekKey(s.now())

	if ok, err := s.loadCached(db.SummaryPeriodWeekly, key, &summary); err != nil {
		return summary, err
	} else if ok {
		return summary, nil
	}

	return s.regenerateWeekly(key)
}

// Monthly 返回本月摘要，缓存未过期时直接复用。
func (s *SummaryService) Monthly() (MonthlySummary, error) {
	var summary MonthlySummary
	key := s.monthKey(s.now())

	if ok, err := s.loadCached(db.SummaryPeriodMonthly, key, &summary); err != nil {
		return summary, err
	} else if ok {
		return summary, nil
	}

	return s.regenerateMonthly(key)
}

// Refresh 供后台巡检调用：周或月翻篇后重算对应摘要。
func (s *SummaryService) Refresh() error {
	now := s.now()

	if stale, err := s.isStale(db.SummaryPeriodWeekly, s.weekKey(now)); err != nil {
		return err
	} else if stale {
		if _, err := s.regenerateWeekly(s.weekKey(now)); err != nil {
			return err
		}
	}

	if stale, err := s.isStale(db.SummaryPeriodMonthly, s.monthKey(now)); err != nil {
		return err
	} else if stale {
		if _, err := s.regenerateMonthly(s.monthKey(now)); err != nil {
			return err
		}
	}

	return nil
}

func (s *SummaryService) regenerateWeekly(key string) (WeeklySummary, error) {
	start, end := s.weekRange(s.now())

	reviews, err := s.reminders.Stats()
	if err != nil {
		return WeeklySummary{}, err
	}

	goals, err := s.goals.RateBetween(start, end)
	if err != nil {
		return WeeklySummary{}, err
	}

	summary := WeeklySummary{
		WeekStart:   formatDateKey(start),
		WeekEnd:     formatDateKey(end),
		Reviews:     reviews,
		Goals:       goals,
		GeneratedAt: s.now(),
	}

	if err := s.storeCached(db.SummaryPeriodWeekly, key, summary, summary.GeneratedAt); err != nil {
		return WeeklySummary{}, err
	}
	return summary, nil
}

func (s *SummaryService) regenerateMonthly(key string) (MonthlySummary, error) {
	start, end := s.monthRange(s.now())

	reviews, err := s.reminders.Stats()
	if err != nil {
		return MonthlySummary{}, err
	}

	goals, err := s.goals.RateBetween(start, end)
	if err != nil {
		return MonthlySummary{}, err
	}

	journalCount, err := s.journal.CountBetween(start, end)
	if err != nil {
		return MonthlySummary{}, err
	}

	lessonCount, err := s.lessons.CountBetween(start, end)
	if err != nil {
		return MonthlySummary{}, err
	}

	summary := MonthlySummary{
		Month:          key,
		JournalEntries: journalCount,
		LessonsCreated: lessonCount,
		Reviews:        reviews,
		Goals:          goals,
		GeneratedAt:    s.now(),
	}

	if err := s.storeCached(db.SummaryPeriodMonthly, key, summary, summary.GeneratedAt); err != nil {
		return MonthlySummary{}, err
	}
	return summary, nil
}

// weekRange 返回 now 所在周的周日与周六
func (s *SummaryService) weekRange(now time.Time) (time.Time, time.Time) {
	today := normalizeToDate(now)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

func (s *SummaryService) monthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, -1)
}

func (s *SummaryService) weekKey(now time.Time) string {
	year, week := now.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func (s *SummaryService) monthKey(now time.Time) string {
	return now.Format("2006-01")
}

func (s *SummaryService) isStale(period, key string) (bool, error) {
	var record db.DashboardSummary
	err := s.db.Where("period = ?", period).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load cached summary: %w", err)
	}
	return record.PeriodKey != key, nil
}

func (s *SummaryService) loadCached(period, key string, dst interface{}) (bool, error) {
	var record db.DashboardSummary
	err := s.db.Where("period = ? AND period_key = ?", period, key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load cached summary: %w", err)
	}

	// 缓存损坏时当作未命中，走重算
	if err := json.Unmarshal([]byte(record.Payload), dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *SummaryService) storeCached(period, key string, payload interface{}, generatedAt time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode summary payload: %w", err)
	}

	record := db.DashboardSummary{
		Period:      period,
		PeriodKey:   key,
		Payload:     string(raw),
		GeneratedAt: generatedAt,
	}

	// 周期键带唯一索引，彻底清掉旧行避免与软删除记录冲突
	if err := s.db.Unscoped().Where("period = ?", period).Delete(&db.DashboardSummary{}).Error; err != nil {
		return fmt.Errorf("evict stale summary: %w", err)
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "period"}, {Name: "period_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "generated_at", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	return nil
}
