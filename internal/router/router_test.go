package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/handler"
	"github.com/lifedesk/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func setupRouterTestDB(t *testing.T) func() {
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
		&db.ScheduledTask{},
		&db.UserSetting{},
		&db.DashboardSummary{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		for _, table := range []string{
			"dashboard_summaries", "user_settings", "scheduled_tasks",
			"review_reminders", "lessons", "subjects", "goals", "journal_entries",
		} {
			db.DB.Exec("DELETE FROM " + table)
		}
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestPingRoute(t *testing.T) {
	cleanup := setupRouterTestDB(t)
	defer cleanup()

	r := SetupRouter(handler.NewAPI(db.DB), "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"message":"pong"}` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestDayViewRemembersSelectedDate(t *testing.T) {
	cleanup := setupRouterTestDB(t)
	defer cleanup()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	journal := service.NewJournalService(db.DB)
	if _, err := journal.Create(service.JournalInput{EntryAt: day.Add(8 * time.Hour), Content: "选中日的记录"}); err != nil {
		t.Fatalf("failed to seed journal entry: %v", err)
	}

	goals := service.NewGoalService(db.DB)
	if _, err := goals.Create(day, "选中日的目标"); err != nil {
		t.Fatalf("failed to seed goal: %v", err)
	}

	r := SetupRouter(handler.NewAPI(db.DB), "test-secret")

	// 显式选日：日期写入会话 cookie
	first := httptest.NewRequest(http.MethodGet, "/api/dashboard/day?date=2026-03-10", nil)
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, first)

	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w1.Code, w1.Body.String())
	}

	var view struct {
		Date    string            `json:"date"`
		Journal []json.RawMessage `json:"journal"`
		Goals   []json.RawMessage `json:"goals"`
	}
	if err := json.Unmarshal(w1.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Date != "2026-03-10" || len(view.Journal) != 1 || len(view.Goals) != 1 {
		t.Fatalf("unexpected day view: %+v", view)
	}

	cookies := w1.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie to be set")
	}

	// 不带 date 参数再次请求：沿用会话里记住的日期
	second := httptest.NewRequest(http.MethodGet, "/api/dashboard/day", nil)
	for _, cookie := range cookies {
		second.AddCookie(cookie)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, second)

	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	var replay struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &replay); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if replay.Date != "2026-03-10" {
		t.Fatalf("expected session-remembered date 2026-03-10, got %s", replay.Date)
	}
}
