package db

import (
	"time"

	"gorm.io/gorm"
)

// Goal 定义了每日目标模型
// Progress 取值 0-100，Progress==100 与 Completed 始终互为充要条件，
// 该约束在 service 层的每次写入时维护
type Goal struct {
	gorm.Model
	GoalDate  time.Time `gorm:"index;not null"`
	Text      string    `gorm:"not null"`
	Completed bool      `gorm:"not null;default:false"`
	Progress  int       `gorm:"not null;default:0"`
}
