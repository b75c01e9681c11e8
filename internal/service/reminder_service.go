package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/gorm"
)

// ErrReminderNotFound 在指定复习提醒不存在时返回
var ErrReminderNotFound = errors.New("review reminder not found")

// reviewIntervals 是固定的复习阶梯：第 N 次完成后隔 intervals[N] 天再复习
var reviewIntervals = [...]int{1, 7, 21, 50, 120}

// ReminderService 负责间隔复习提醒的调度
// Status 是派生的展示状态，只由 CheckOverdue 重算，不由事件迁移

type ReminderService struct {
	db  *gorm.DB
	now func() time.Time
}

// ReviewStats 汇总复习情况。
// Completed 是现存提醒的 Stage 之和，属于近似值：
// 走完全部阶梯的提醒已被删除，不再计入。
type ReviewStats struct {
	Completed int
	Pending   int
	Overdue   int
}

// NewReminderService 构造 ReminderService
func NewReminderService(gdb *gorm.DB) *ReminderService {
	return &ReminderService{db: gdb, now: time.Now}
}

// WithClock 覆盖时间源，仅用于测试
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	if now != nil {
		s.now = now
	}
	return s
}

// IntervalCount 返回复习阶梯的长度
func IntervalCount() int {
	return len(reviewIntervals)
}

// CreateForLesson 为课程创建首个复习提醒：
// 阶段 0，明天复习，标题取创建时的快照
func (s *ReminderService) CreateForLesson(lesson *db.Lesson) (*db.ReviewReminder, error) {
	today := normalizeToDate(s.now())

	reminder := db.ReviewReminder{
		LessonID:     lesson.ID,
		LessonTitle:  lesson.Title,
		OriginalDate: today,
		ReviewDate:   today.AddDate(0, 0, 1),
		Status:       db.ReminderStatusNormal,
		Stage:        0,
	}

	if err := s.db.Create(&reminder).Error; err != nil {
		return nil, fmt.Errorf("create review reminder: %w", err)
	}
	return &reminder, nil
}

// Complete 完成一次复习：阶段加一。
// 走完全部阶梯后提醒被删除，否则按新阶段的间隔从今天起排下一次复习。
// 返回值为 nil 表示复习序列已结束。
func (s *ReminderService) Complete(id uint) (*db.ReviewReminder, error) {
	reminder, err := s.get(id)
	if err != nil {
		return nil, err
	}

	reminder.Stage++
	if reminder.Stage >= len(reviewIntervals) {
		if err := s.db.Delete(reminder).Error; err != nil {
			return nil, fmt.Errorf("retire review reminder: %w", err)
		}
		return nil, nil
	}

	reminder.ReviewDate = normalizeToDate(s.now()).AddDate(0, 0, reviewIntervals[reminder.Stage])
	reminder.Status = db.ReminderStatusNormal

	if err := s.db.Save(reminder).Error; err != nil {
		return nil, fmt.Errorf("complete review reminder: %w", err)
	}
	return reminder, nil
}

// Reschedule 把复习推迟到明天，阶段保持不变
func (s *ReminderService) Reschedule(id uint) (*db.ReviewReminder, error) {
	reminder, err := s.get(id)
	if err != nil {
		return nil, err
	}

	reminder.ReviewDate = normalizeToDate(s.now()).AddDate(0, 0, 1)
	reminder.Status = db.ReminderStatusNormal

	if err := s.db.Save(reminder).Error; err != nil {
		return nil, fmt.Errorf("reschedule review reminder: %w", err)
	}
	return reminder, nil
}

// Delete 删除单个提醒
func (s *ReminderService) Delete(id uint) error {
	if err := s.db.Delete(&db.ReviewReminder{}, id).Error; err != nil {
		return fmt.Errorf("delete review reminder: %w", err)
	}
	return nil
}

// DeleteByLessonID 级联删除某课程名下的全部提醒
func (s *ReminderService) DeleteByLessonID(lessonID uint) error {
	if err := s.db.Where("lesson_id = ?", lessonID).
		Delete(&db.ReviewReminder{}).Error; err != nil {
		return fmt.Errorf("delete reminders by lesson: %w", err)
	}
	return nil
}

// CheckOverdue 重算全部提醒的展示状态，应用启动时执行一次，
// 跨过日历日边界时再执行一次：
//   - 未到期或今天到期 → normal
//   - 逾期 1 天 → warning
//   - 逾期 2 天及以上 → overdue，且复习日期按当前阶段的间隔
//     从今天重新排期。注意这里不推进 Stage，与显式完成不同：
//     逾期提醒在原阶段重新倒计时，而不是被推进或惩罚。
//     这一行为与完成迁移不一致，按产品现状原样保留。
func (s *ReminderService) CheckOverdue() error {
	today := normalizeToDate(s.now())

	var reminders []db.ReviewReminder
	if err := s.db.Find(&reminders).Error; err != nil {
		return fmt.Errorf("list reminders for recompute: %w", err)
	}

	for i := range reminders {
		reminder := &reminders[i]
		diff := dayDiff(today, reminder.ReviewDate)

		status := db.ReminderStatusNormal
		switch {
		case diff == 1:
			status = db.ReminderStatusWarning
		case diff >= 2:
			status = db.ReminderStatusOverdue
			reminder.ReviewDate = today.AddDate(0, 0, reviewIntervals[reminder.Stage])
		}

		if status == reminder.Status && diff < 2 {
			continue
		}

		reminder.Status = status
		if err := s.db.Save(reminder).Error; err != nil {
			return fmt.Errorf("recompute reminder status: %w", err)
		}
	}

	return nil
}

// RemindersForDate 返回复习日落在指定日历日的提醒
func (s *ReminderService) RemindersForDate(date time.Time) ([]db.ReviewReminder, error) {
	start, end := dayRange(date)

	var reminders []db.ReviewReminder
	if err := s.db.Where("review_date >= ? AND review_date < ?", start, end).
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	return reminders, nil
}

// ListAll 返回全部活跃提醒，按复习日升序
func (s *ReminderService) ListAll() ([]db.ReviewReminder, error) {
	var reminders []db.ReviewReminder
	if err := s.db.Order("review_date ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list all reminders: %w", err)
	}
	return reminders, nil
}

// Stats 汇总复习统计：
// Pending 是全局活跃提醒数（不按区间过滤），
// Overdue 是复习日早于今天零点的提醒数。
func (s *ReminderService) Stats() (ReviewStats, error) {
	reminders, err := s.ListAll()
	if err != nil {
		return ReviewStats{}, err
	}

	today := normalizeToDate(s.now())

	stats := ReviewStats{Pending: len(reminders)}
	for _, reminder := range reminders {
		stats.Completed += reminder.Stage
		if normalizeToDate(reminder.ReviewDate).Before(today) {
			stats.Overdue++
		}
	}

	return stats, nil
}

func (s *ReminderService) get(id uint) (*db.ReviewReminder, error) {
	var reminder db.ReviewReminder
	if err := s.db.First(&reminder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("get review reminder: %w", err)
	}
	return &reminder, nil
}
