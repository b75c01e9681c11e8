package db

import (
	"time"

	"gorm.io/gorm"
)

// ScheduledTask 定义了日程任务模型
// TaskDate 是起始日的日期键，跨天任务也只按起始日索引，
// StartDate/EndDate 仅在 IsMultiDay 时用于展示日期区间
type ScheduledTask struct {
	gorm.Model
	Name        string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Link        string
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`
	TaskDate    time.Time `gorm:"index;not null"`
	IsAllDay    bool      `gorm:"not null;default:false"`
	IsMultiDay  bool      `gorm:"not null;default:false"`
	StartDate   *time.Time
	EndDate     *time.Time
}
