package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrJournalEntryNotFound 在指定日记条目不存在时返回
	ErrJournalEntryNotFound = errors.New("journal entry not found")
	// ErrJournalEmptyContent 在日记内容为空时返回
	ErrJournalEmptyContent = errors.New("journal content is required")
)

// JournalService 负责日记条目的增删改查
// 条目按 EntryAt 携带的日历日归档，展示时按时间倒序

type JournalService struct {
	db *gorm.DB
}

// JournalInput 定义创建/更新日记时可配置字段
type JournalInput struct {
	EntryAt   time.Time
	Content   string
	TimeOfDay string
}

// NewJournalService 构造 JournalService
func NewJournalService(gdb *gorm.DB) *JournalService {
	return &JournalService{db: gdb}
}

// Create 新建日记条目
func (s *JournalService) Create(input JournalInput) (*db.JournalEntry, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrJournalEmptyContent
	}

	entry := db.JournalEntry{
		EntryAt:   input.EntryAt,
		Content:   content,
		TimeOfDay: normalizeTimeOfDay(input.TimeOfDay),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	return &entry, nil
}

// Update 更新日记条目内容或时段标签
func (s *JournalService) Update(id uint, input JournalInput) (*db.JournalEntry, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrJournalEmptyContent
	}

	var existing db.JournalEntry
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJournalEntryNotFound
		}
		return nil, fmt.Errorf("find journal entry: %w", err)
	}

	existing.Content = content
	existing.TimeOfDay = normalizeTimeOfDay(input.TimeOfDay)
	if !input.EntryAt.IsZero() {
		existing.EntryAt = input.EntryAt
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update journal entry: %w", err)
	}
	return &existing, nil
}

// Delete 删除日记条目，删除即彻底删除，没有回收站
func (s *JournalService) Delete(id uint) error {
	if err := s.db.Delete(&db.JournalEntry{}, id).Error; err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	return nil
}

// EntriesForDate 返回指定日历日的全部条目，按时间倒序
func (s *JournalService) EntriesForDate(date time.Time) ([]db.JournalEntry, error) {
	start, end := dayRange(date)

	var entries []db.JournalEntry
	if err := s.db.Where("entry_at >= ? AND entry_at < ?", start, end).
		Order("entry_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	return entries, nil
}

// CountBetween 统计日历日闭区间内的条目数，供月度摘要使用
func (s *JournalService) CountBetween(startDate, endDate time.Time) (int, error) {
	start := normalizeToDate(startDate)
	end := normalizeToDate(endDate).AddDate(0, 0, 1)

	var count int64
	if err := s.db.Model(&db.JournalEntry{}).
		Where("entry_at >= ? AND entry_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}

	return int(count), nil
}

// EffectiveTimeOfDay 返回条目的时段标签，未显式设置时按存储的小时推断
func EffectiveTimeOfDay(entry db.JournalEntry) string {
	if entry.TimeOfDay != "" && entry.TimeOfDay != db.TimeOfDayNone {
		return entry.TimeOfDay
	}

	hour := entry.EntryAt.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return db.TimeOfDayMorning
	case hour >= 12 && hour < 14:
		return db.TimeOfDayNoon
	case hour >= 14 && hour < 18:
		return db.TimeOfDayAfternoon
	default:
		return db.TimeOfDayEvening
	}
}

func normalizeTimeOfDay(value string) string {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case db.TimeOfDayMorning:
		return db.TimeOfDayMorning
	case db.TimeOfDayNoon:
		return db.TimeOfDayNoon
	case db.TimeOfDayAfternoon:
		return db.TimeOfDayAfternoon
	case db.TimeOfDayEvening:
		return db.TimeOfDayEvening
	default:
		return db.TimeOfDayNone
	}
}
