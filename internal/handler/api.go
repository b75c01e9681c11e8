package handler

import (
	"github.com/lifedesk/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	journal   *service.JournalService
	goals     *service.GoalService
	lessons   *service.LessonService
	reminders *service.ReminderService
	tasks     *service.TaskService
	profile   *service.ProfileService
	summaries *service.SummaryService
	timers    *service.TimerService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	reminderService := service.NewReminderService(db)
	journalService := service.NewJournalService(db)
	goalService := service.NewGoalService(db)
	lessonService := service.NewLessonService(db, reminderService)

	return &API{
		db:        db,
		journal:   journalService,
		goals:     goalService,
		lessons:   lessonService,
		reminders: reminderService,
		tasks:     service.NewTaskService(db),
		profile:   service.NewProfileService(db),
		summaries: service.NewSummaryService(db, goalService, reminderService, journalService, lessonService),
		timers:    service.NewTimerService(),
	}
}

// DB exposes the underlying gorm instance for boot-time wiring.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Reminders exposes the reminder service for background recompute passes.
func (a *API) Reminders() *service.ReminderService {
	return a.reminders
}

// Summaries exposes the summary service for the periodic refresh ticker.
func (a *API) Summaries() *service.SummaryService {
	return a.summaries
}
