package db

import "gorm.io/gorm"

// UserSetting 存储单用户的标量配置键值对。
type UserSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (UserSetting) TableName() string {
	return "user_settings"
}

const (
	// SettingKeyDisplayName 表示仪表盘展示的用户名。
	SettingKeyDisplayName = "display_name"
	// SettingKeyStreak 表示连续活跃天数。
	SettingKeyStreak = "streak"
	// SettingKeyLastActive 表示最近一次活跃的日期键（2006-01-02）。
	SettingKeyLastActive = "last_active_date"
	// SettingKeyTheme 表示界面主题（light/dark）。
	SettingKeyTheme = "theme"
)
