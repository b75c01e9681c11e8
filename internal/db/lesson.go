package db

import (
	"time"

	"gorm.io/gorm"
)

// Subject 定义了课程所属的科目
type Subject struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
}

// Lesson 定义了课程笔记模型
// SubjectID 是弱引用：科目删除后置空，课程本身保留
type Lesson struct {
	gorm.Model
	LessonDate time.Time `gorm:"index;not null"`
	Title      string    `gorm:"not null"`
	Content    string    `gorm:"type:text"`
	SubjectID  *uint     `gorm:"index"`
}
