package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 界面主题取值
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UserProfile 描述仪表盘的标量用户信息。
type UserProfile struct {
	DisplayName string
	Streak      int
	LastActive  string
	Theme       string
}

// ProfileService 提供用户配置的读取与更新能力，
// 底层是一张键值对表，缺失的键回落到默认值。
type ProfileService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProfileService 构造 ProfileService。
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb, now: time.Now}
}

// WithClock 覆盖时间源，仅用于测试。
func (s *ProfileService) WithClock(now func() time.Time) *ProfileService {
	if now != nil {
		s.now = now
	}
	return s
}

var profileKeys = []string{
	db.SettingKeyDisplayName,
	db.SettingKeyStreak,
	db.SettingKeyLastActive,
	db.SettingKeyTheme,
}

// GetProfile 读取用户信息，未设置的字段返回默认值。
func (s *ProfileService) GetProfile() (UserProfile, error) {
	result := UserProfile{Theme: ThemeLight}

	var records []db.UserSetting
	if err := s.db.Where("key IN ?", profileKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load user profile: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeyDisplayName:
			result.DisplayName = record.Value
		case db.SettingKeyStreak:
			// 脏数据按 0 处理而不是报错
			if v, err := strconv.Atoi(strings.TrimSpace(record.Value)); err == nil && v >= 0 {
				result.Streak = v
			}
		case db.SettingKeyLastActive:
			result.LastActive = record.Value
		case db.SettingKeyTheme:
			if record.Value == ThemeDark {
				result.Theme = ThemeDark
			}
		}
	}

	return result, nil
}

// SetDisplayName 更新展示用户名。
func (s *ProfileService) SetDisplayName(name string) error {
	return s.upsert(db.SettingKeyDisplayName, strings.TrimSpace(name))
}

// ToggleTheme 在 light/dark 之间切换主题并返回新值。
func (s *ProfileService) ToggleTheme() (string, error) {
	profile, err := s.GetProfile()
	if err != nil {
		return "", err
	}

	next := ThemeLight
	if profile.Theme == ThemeLight {
		next = ThemeDark
	}

	if err := s.upsert(db.SettingKeyTheme, next); err != nil {
		return "", err
	}
	return next, nil
}

// TouchStreak 在每次加载时维护连续活跃天数：
// 昨天活跃过则加一，更早则重置为 1，当天重复访问不变，
// 最后把最近活跃日推到今天。返回更新后的天数。
func (s *ProfileService) TouchStreak() (int, error) {
	profile, err := s.GetProfile()
	if err != nil {
		return 0, err
	}

	today := normalizeToDate(s.now())
	todayKey := formatDateKey(today)

	streak := profile.Streak
	if profile.LastActive == todayKey {
		if streak == 0 {
			streak = 1
		}
	} else if lastActive, parseErr := time.ParseInLocation(dateKeyLayout, profile.LastActive, today.Location()); parseErr == nil {
		switch dayDiff(today, lastActive) {
		case 1:
			streak++
		default:
			streak = 1
		}
	} else {
		// 没有历史记录，从 1 起算
		streak = 1
	}

	if err := s.upsert(db.SettingKeyStreak, strconv.Itoa(streak)); err != nil {
		return 0, err
	}
	if err := s.upsert(db.SettingKeyLastActive, todayKey); err != nil {
		return 0, err
	}

	return streak, nil
}

// Greeting 按小时返回问候语
func Greeting(now time.Time) string {
	hour := now.Hour()
	if hour < 12 {
		return "Good morning"
	}
	if hour < 18 {
		return "Good afternoon"
	}
	return "Good evening"
}

func (s *ProfileService) upsert(key, value string) error {
	record := db.UserSetting{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("save user setting %s: %w", key, err)
	}
	return nil
}
