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

func setupJournalTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.JournalEntry{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		db.DB.Exec("DELETE FROM journal_entries")
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestCreateJournalEntryRejectsEmptyContent(t *testing.T) {
	cleanup := setupJournalTestDB(t)
	defer cleanup()

	svc := NewJournalService(db.DB)

	_, err := svc.Create(JournalInput{EntryAt: time.Now(), Content: "   "})
	if !errors.Is(err, ErrJournalEmptyContent) {
		t.Fatalf("expected ErrJournalEmptyContent, got %v", err)
	}

	var count int64
	db.DB.Model(&db.JournalEntry{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no entries stored, got %d", count)
	}
}

func TestEntriesForDateSortedAndDisjoint(t *testing.T) {
	cleanup := setupJournalTestDB(t)
	defer cleanup()

	svc := NewJournalService(db.DB)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	inputs := []JournalInput{
		{EntryAt: day.Add(8 * time.Hour), Content: "早上的记录"},
		{EntryAt: day.Add(20 * time.Hour), Content: "晚上的记录"},
		{EntryAt: day.Add(13 * time.Hour), Content: "中午的记录"},
		{EntryAt: day.AddDate(0, 0, 1).Add(9 * time.Hour), Content: "第二天的记录"},
	}
	for _, input := range inputs {
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	entries, err := svc.EntriesForDate(day.Add(15 * time.Hour))
	if err != nil {
		t.Fatalf("EntriesForDate returned error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries for the day, got %d", len(entries))
	}

	// 按时间倒序
	want := []string{"晚上的记录", "中午的记录", "早上的记录"}
	for i, entry := range entries {
		if entry.Content != want[i] {
			t.Fatalf("expected entry %d to be %q, got %q", i, want[i], entry.Content)
		}
	}
}

func TestEffectiveTimeOfDayInference(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	cases := []struct {
		hour int
		want string
	}{
		{5, db.TimeOfDayMorning},
		{11, db.TimeOfDayMorning},
		{12, db.TimeOfDayNoon},
		{13, db.TimeOfDayNoon},
		{14, db.TimeOfDayAfternoon},
		{17, db.TimeOfDayAfternoon},
		{18, db.TimeOfDayEvening},
		{23, db.TimeOfDayEvening},
		{3, db.TimeOfDayEvening},
	}

	for _, tc := range cases {
		entry := db.JournalEntry{EntryAt: day.Add(time.Duration(tc.hour) * time.Hour), TimeOfDay: db.TimeOfDayNone}
		if got := EffectiveTimeOfDay(entry); got != tc.want {
			t.Fatalf("hour %d: expected %s, got %s", tc.hour, tc.want, got)
		}
	}

	// 显式标签优先于推断
	tagged := db.JournalEntry{EntryAt: day.Add(8 * time.Hour), TimeOfDay: db.TimeOfDayEvening}
	if got := EffectiveTimeOfDay(tagged); got != db.TimeOfDayEvening {
		t.Fatalf("expected explicit tag to win, got %s", got)
	}
}

func TestUpdateJournalEntry(t *testing.T) {
	cleanup := setupJournalTestDB(t)
	defer cleanup()

	svc := NewJournalService(db.DB)

	entry, err := svc.Create(JournalInput{EntryAt: time.Now(), Content: "初稿"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(entry.ID, JournalInput{Content: "改稿", TimeOfDay: db.TimeOfDayNoon})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Content != "改稿" || updated.TimeOfDay != db.TimeOfDayNoon {
		t.Fatalf("unexpected updated entry: %+v", updated)
	}

	if _, err := svc.Update(9999, JournalInput{Content: "不存在"}); !errors.Is(err, ErrJournalEntryNotFound) {
		t.Fatalf("expected ErrJournalEntryNotFound, got %v", err)
	}
}
