package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/service"
)

const selectedDateSessionKey = "selected_date"

// DayView 聚合某个日历日在各模块下的全部记录。
// 聚合是拉取式的：这里依次向每个 store 要当日数据，
// store 之间互不感知。

// GetDayView 返回指定日期的聚合视图。
// date 参数缺省时回落到会话里记住的选中日期，再缺省到今天；
// 显式传入的日期会写回会话，作为浏览器侧"当前选中日期"。
func (a *API) GetDayView(c *gin.Context) {
	session := sessions.Default(c)

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		date = parseDateQuery(c, "date")
		session.Set(selectedDateSessionKey, date.Format(dateParamLayout))
		// 会话写失败不影响查询结果
		_ = session.Save()
	} else if stored, ok := session.Get(selectedDateSessionKey).(string); ok {
		if parsed, err := time.ParseInLocation(dateParamLayout, stored, time.Local); err == nil {
			date = parsed
		}
	}

	entries, err := a.journal.EntriesForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取日记失败")
		return
	}

	goals, err := a.goals.GoalsForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取目标失败")
		return
	}

	lessons, err := a.lessons.LessonsForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取课程失败")
		return
	}

	reminders, err := a.reminders.RemindersForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取复习提醒失败")
		return
	}

	tasks, err := a.tasks.TasksForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取日程失败")
		return
	}

	journalItems := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		journalItems = append(journalItems, journalEntryToPayload(entry))
	}

	goalItems := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		goalItems = append(goalItems, goalToPayload(goal))
	}

	lessonItems := make([]gin.H, 0, len(lessons))
	for _, lesson := range lessons {
		lessonItems = append(lessonItems, a.lessonToPayload(lesson))
	}

	reminderItems := make([]gin.H, 0, len(reminders))
	for _, reminder := range reminders {
		reminderItems = append(reminderItems, reminderToPayload(reminder))
	}

	taskItems := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		taskItems = append(taskItems, taskToPayload(task))
	}

	c.JSON(http.StatusOK, gin.H{
		"date":          date.Format(dateParamLayout),
		"journal":       journalItems,
		"goals":         goalItems,
		"goal_progress": service.ProgressPercentage(goals),
		"lessons":       lessonItems,
		"reminders":     reminderItems,
		"tasks":         taskItems,
	})
}
