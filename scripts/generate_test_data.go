package main

import (
	"fmt"
	"log"
	"time"

	"github.com/lifedesk/internal/config"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/service"
)

// 测试数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	subjectID := createTestSubjects()
	createTestLessons(subjectID)
	createTestJournal()
	createTestGoals()
	createTestTasks()

	fmt.Println("测试数据生成完成！")
	fmt.Println("科目: 2 个，课程: 3 篇（含复习提醒）")
	fmt.Println("日记: 3 条，目标: 3 个，日程: 2 条")
}

// 创建测试科目，返回第一个科目的 ID
func createTestSubjects() uint {
	var count int64
	db.DB.Model(&db.Subject{}).Count(&count)
	if count > 0 {
		fmt.Println("科目已存在，跳过创建")
		var subject db.Subject
		db.DB.First(&subject)
		return subject.ID
	}

	lessons := service.NewLessonService(db.DB, service.NewReminderService(db.DB))

	first, err := lessons.CreateSubject("Go 语言", "并发、接口与工程实践")
	if err != nil {
		log.Fatal("创建科目失败:", err)
	}
	if _, err := lessons.CreateSubject("英语", "词汇与阅读"); err != nil {
		log.Fatal("创建科目失败:", err)
	}

	return first.ID
}

// 创建测试课程并加入复习计划
func createTestLessons(subjectID uint) {
	var count int64
	db.DB.Model(&db.Lesson{}).Count(&count)
	if count > 0 {
		fmt.Println("课程已存在，跳过创建")
		return
	}

	reminders := service.NewReminderService(db.DB)
	lessons := service.NewLessonService(db.DB, reminders)

	titles := []struct {
		title   string
		content string
	}{
		{"goroutine 与 channel", "## 要点\n\n- channel 是一等公民\n- select 处理多路复用"},
		{"defer 的执行顺序", "defer 按后进先出执行，参数在声明时求值。"},
		{"不规则动词 50 个", "背诵清单第一部分。"},
	}

	for i, item := range titles {
		input := service.LessonInput{
			Date:    time.Now().AddDate(0, 0, -i),
			Title:   item.title,
			Content: item.content,
		}
		if i < 2 {
			input.SubjectID = &subjectID
		}

		lesson, err := lessons.CreateLesson(input)
		if err != nil {
			log.Fatal("创建课程失败:", err)
		}
		if _, err := reminders.CreateForLesson(lesson); err != nil {
			log.Fatal("创建复习提醒失败:", err)
		}
	}
}

// 创建测试日记
func createTestJournal() {
	var count int64
	db.DB.Model(&db.JournalEntry{}).Count(&count)
	if count > 0 {
		fmt.Println("日记已存在，跳过创建")
		return
	}

	journal := service.NewJournalService(db.DB)
	now := time.Now()

	entries := []service.JournalInput{
		{EntryAt: time.Date(now.Year(), now.Month(), now.Day(), 7, 30, 0, 0, now.Location()), Content: "晨跑 5 公里，状态不错。", TimeOfDay: db.TimeOfDayMorning},
		{EntryAt: time.Date(now.Year(), now.Month(), now.Day(), 12, 40, 0, 0, now.Location()), Content: "午饭后读了半小时书。"},
		{EntryAt: time.Date(now.Year(), now.Month(), now.Day(), 21, 15, 0, 0, now.Location()), Content: "复盘今天的学习计划。", TimeOfDay: db.TimeOfDayEvening},
	}

	for _, input := range entries {
		if _, err := journal.Create(input); err != nil {
			log.Fatal("创建日记失败:", err)
		}
	}
}

// 创建测试目标
func createTestGoals() {
	var count int64
	db.DB.Model(&db.Goal{}).Count(&count)
	if count > 0 {
		fmt.Println("目标已存在，跳过创建")
		return
	}

	goals := service.NewGoalService(db.DB)
	now := time.Now()

	texts := []string{"完成周报", "背 30 个单词", "整理复习笔记"}
	for _, text := range texts {
		if _, err := goals.Create(now, text); err != nil {
			log.Fatal("创建目标失败:", err)
		}
	}
}

// 创建测试日程
func createTestTasks() {
	var count int64
	db.DB.Model(&db.ScheduledTask{}).Count(&count)
	if count > 0 {
		fmt.Println("日程已存在，跳过创建")
		return
	}

	tasks := service.NewTaskService(db.DB)
	now := time.Now()
	morning := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())

	inputs := []service.TaskInput{
		{Name: "晨会", StartTime: morning, EndTime: morning.Add(30 * time.Minute)},
		{Name: "专注写作", Description: "草稿第二章", StartTime: morning.Add(2 * time.Hour), EndTime: morning.Add(4 * time.Hour)},
	}

	for _, input := range inputs {
		if _, err := tasks.Create(input); err != nil {
			log.Fatal("创建日程失败:", err)
		}
	}
}
