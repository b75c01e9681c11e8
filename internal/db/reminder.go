package db

import (
	"time"

	"gorm.io/gorm"
)

// 复习提醒的展示状态，由每日重算得出而非事件驱动
const (
	ReminderStatusNormal  = "normal"
	ReminderStatusWarning = "warning"
	ReminderStatusOverdue = "overdue"
)

// ReviewReminder 定义了间隔复习提醒模型
// LessonTitle 是创建时的快照，课程之后改名不会回写
// Stage 是复习阶梯的零基索引，走完全部阶梯后提醒被删除
type ReviewReminder struct {
	gorm.Model
	LessonID     uint      `gorm:"index;not null"`
	LessonTitle  string    `gorm:"not null"`
	OriginalDate time.Time `gorm:"not null"`
	ReviewDate   time.Time `gorm:"index;not null"`
	Status       string    `gorm:"size:20;not null;default:normal"`
	Stage        int       `gorm:"not null;default:0"`
}
