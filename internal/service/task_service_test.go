package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTaskTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.ScheduledTask{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		db.DB.Exec("DELETE FROM scheduled_tasks")
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestCreateTaskRejectsInvalidTimeRange(t *testing.T) {
	cleanup := setupTaskTestDB(t)
	defer cleanup()

	svc := NewTaskService(db.DB)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	// 结束早于开始
	_, err := svc.Create(TaskInput{
		Name:      "倒着排的会议",
		StartTime: day.Add(14 * time.Hour),
		EndTime:   day.Add(13 * time.Hour),
	})
	if !errors.Is(err, ErrTaskInvalidTimeRange) {
		t.Fatalf("expected ErrTaskInvalidTimeRange, got %v", err)
	}

	// 结束等于开始同样拒绝
	_, err = svc.Create(TaskInput{
		Name:      "零时长",
		StartTime: day.Add(14 * time.Hour),
		EndTime:   day.Add(14 * time.Hour),
	})
	if !errors.Is(err, ErrTaskInvalidTimeRange) {
		t.Fatalf("expected ErrTaskInvalidTimeRange for zero duration, got %v", err)
	}

	var count int64
	db.DB.Model(&db.ScheduledTask{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no tasks stored after rejection, got %d", count)
	}
}

func TestCreateTaskRequiresName(t *testing.T) {
	cleanup := setupTaskTestDB(t)
	defer cleanup()

	svc := NewTaskService(db.DB)
	now := time.Now()

	_, err := svc.Create(TaskInput{Name: "  ", StartTime: now, EndTime: now.Add(time.Hour)})
	if !errors.Is(err, ErrTaskEmptyName) {
		t.Fatalf("expected ErrTaskEmptyName, got %v", err)
	}
}

func TestTasksForDateIndexedByStartDay(t *testing.T) {
	cleanup := setupTaskTestDB(t)
	defer cleanup()

	svc := NewTaskService(db.DB)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	endDate := day.AddDate(0, 0, 2)
	multi, err := svc.Create(TaskInput{
		Name:      "三天集训",
		StartTime: day.Add(9 * time.Hour),
		EndTime:   day.Add(18 * time.Hour),
		EndDate:   &endDate,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if !multi.IsMultiDay {
		t.Fatal("expected task spanning days to be flagged multi-day")
	}
	if multi.StartDate == nil || multi.EndDate == nil {
		t.Fatal("expected multi-day task to carry a date range")
	}

	// 跨天任务只挂在起始日
	startDayTasks, err := svc.TasksForDate(day)
	if err != nil {
		t.Fatalf("TasksForDate returned error: %v", err)
	}
	if len(startDayTasks) != 1 {
		t.Fatalf("expected 1 task on start day, got %d", len(startDayTasks))
	}

	middleDayTasks, err := svc.TasksForDate(day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("TasksForDate returned error: %v", err)
	}
	if len(middleDayTasks) != 0 {
		t.Fatalf("expected no tasks on middle day, got %d", len(middleDayTasks))
	}
}

func TestTasksForDateSortedByStartTime(t *testing.T) {
	cleanup := setupTaskTestDB(t)
	defer cleanup()

	svc := NewTaskService(db.DB)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	inputs := []TaskInput{
		{Name: "下午写作", StartTime: day.Add(15 * time.Hour), EndTime: day.Add(17 * time.Hour)},
		{Name: "晨会", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(9*time.Hour + 30*time.Minute)},
		{Name: "午间散步", StartTime: day.Add(12 * time.Hour), EndTime: day.Add(13 * time.Hour)},
	}
	for _, input := range inputs {
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	tasks, err := svc.TasksForDate(day)
	if err != nil {
		t.Fatalf("TasksForDate returned error: %v", err)
	}

	want := []string{"晨会", "午间散步", "下午写作"}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, task := range tasks {
		if task.Name != want[i] {
			t.Fatalf("expected task %d to be %q, got %q", i, want[i], task.Name)
		}
	}
}
