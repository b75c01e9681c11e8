package service

import (
	"testing"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSummaryTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.JournalEntry{},
		&db.Goal{},
		&db.Subject{},
		&db.Lesson{},
		&db.ReviewReminder{},
		&db.DashboardSummary{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		db.DB.Exec("DELETE FROM dashboard_summaries")
		db.DB.Exec("DELETE FROM review_reminders")
		db.DB.Exec("DELETE FROM lessons")
		db.DB.Exec("DELETE FROM goals")
		db.DB.Exec("DELETE FROM journal_entries")
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func newSummaryTestService(clock func() time.Time) *SummaryService {
	reminders := NewReminderService(db.DB).WithClock(clock)
	goals := NewGoalService(db.DB)
	journal := NewJournalService(db.DB)
	lessons := NewLessonService(db.DB, reminders)
	return NewSummaryService(db.DB, goals, reminders, journal, lessons).WithClock(clock)
}

func TestWeeklySummaryRangeAndCache(t *testing.T) {
	cleanup := setupSummaryTestDB(t)
	defer cleanup()

	// 2026-03-10 是周二，所在周为 03-08（周日）到 03-14（周六）
	current := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	svc := newSummaryTestService(func() time.Time { return current })

	goals := NewGoalService(db.DB)
	done, err := goals.Create(current, "周内完成的目标")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := goals.ToggleCompletion(done.ID); err != nil {
		t.Fatalf("ToggleCompletion returned error: %v", err)
	}
	if _, err := goals.Create(current.AddDate(0, 0, 2), "周内未完成的目标"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	// 上一周的目标不计入
	if _, err := goals.Create(current.AddDate(0, 0, -7), "上周的目标"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	summary, err := svc.Weekly()
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}

	if summary.WeekStart != "2026-03-08" || summary.WeekEnd != "2026-03-14" {
		t.Fatalf("unexpected week range: %s .. %s", summary.WeekStart, summary.WeekEnd)
	}
	if summary.Goals.Total != 2 || summary.Goals.Completed != 1 {
		t.Fatalf("unexpected goal rate: %+v", summary.Goals)
	}

	firstGenerated := summary.GeneratedAt

	// 同一周内再次读取命中缓存，生成时刻不变
	current = current.Add(3 * time.Hour)
	cached, err := svc.Weekly()
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}
	if !cached.GeneratedAt.Equal(firstGenerated) {
		t.Fatalf("expected cached summary, generated at %v vs %v", cached.GeneratedAt, firstGenerated)
	}
}

func TestRefreshRegeneratesAfterPeriodRollover(t *testing.T) {
	cleanup := setupSummaryTestDB(t)
	defer cleanup()

	current := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	svc := newSummaryTestService(func() time.Time { return current })

	if _, err := svc.Weekly(); err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}

	// 翻到下一周后巡检重算
	current = current.AddDate(0, 0, 7)
	if err := svc.Refresh(); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	summary, err := svc.Weekly()
	if err != nil {
		t.Fatalf("Weekly returned error: %v", err)
	}
	if summary.WeekStart != "2026-03-15" {
		t.Fatalf("expected new week start 2026-03-15, got %s", summary.WeekStart)
	}
}

func TestMonthlySummaryCounts(t *testing.T) {
	cleanup := setupSummaryTestDB(t)
	defer cleanup()

	current := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	svc := newSummaryTestService(func() time.Time { return current })

	journal := NewJournalService(db.DB)
	for _, content := range []string{"第一条", "第二条"} {
		if _, err := journal.Create(JournalInput{EntryAt: current, Content: content}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	// 上个月的条目不计入
	if _, err := journal.Create(JournalInput{EntryAt: current.AddDate(0, -1, 0), Content: "上个月"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	reminders := NewReminderService(db.DB).WithClock(func() time.Time { return current })
	lessons := NewLessonService(db.DB, reminders)
	if _, err := lessons.CreateLesson(LessonInput{Date: current, Title: "本月课程", Content: "正文"}); err != nil {
		t.Fatalf("CreateLesson returned error: %v", err)
	}

	summary, err := svc.Monthly()
	if err != nil {
		t.Fatalf("Monthly returned error: %v", err)
	}

	if summary.Month != "2026-03" {
		t.Fatalf("expected month key 2026-03, got %s", summary.Month)
	}
	if summary.JournalEntries != 2 {
		t.Fatalf("expected 2 journal entries, got %d", summary.JournalEntries)
	}
	if summary.LessonsCreated != 1 {
		t.Fatalf("expected 1 lesson, got %d", summary.LessonsCreated)
	}
}
