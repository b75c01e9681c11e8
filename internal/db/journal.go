package db

import (
	"time"

	"gorm.io/gorm"
)

// 日记条目可选的时段标签，none 表示由条目时间推断
const (
	TimeOfDayMorning   = "morning"
	TimeOfDayNoon      = "noon"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayNone      = "none"
)

// JournalEntry 定义了日记条目模型
// EntryAt 同时携带日期与时间，按日筛选时只比较年月日
type JournalEntry struct {
	gorm.Model
	EntryAt   time.Time `gorm:"index;not null"`
	Content   string    `gorm:"type:text"`
	TimeOfDay string    `gorm:"size:20"`
}
