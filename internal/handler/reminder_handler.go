package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/service"
)

// ListReminders 返回全部复习提醒；带 date 参数时只返回当日到期的
func (a *API) ListReminders(c *gin.Context) {
	var (
		reminders []db.ReviewReminder
		err       error
	)

	if c.Query("date") != "" {
		reminders, err = a.reminders.RemindersForDate(parseDateQuery(c, "date"))
	} else {
		reminders, err = a.reminders.ListAll()
	}

	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取复习提醒失败")
		return
	}

	items := make([]gin.H, 0, len(reminders))
	for _, reminder := range reminders {
		items = append(items, reminderToPayload(reminder))
	}

	c.JSON(http.StatusOK, gin.H{"reminders": items})
}

// CompleteReminder 完成一次复习并推进阶段，阶梯走完时提醒被删除
func (a *API) CompleteReminder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的提醒 ID")
		return
	}

	reminder, err := a.reminders.Complete(id)
	if err != nil {
		if errors.Is(err, service.ErrReminderNotFound) {
			respondError(c, http.StatusNotFound, "提醒不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "完成复习失败")
		return
	}

	if reminder == nil {
		// 复习序列已全部完成
		c.JSON(http.StatusOK, gin.H{"retired": id})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminderToPayload(*reminder)})
}

// RescheduleReminder 把复习推迟到明天，阶段不变
func (a *API) RescheduleReminder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的提醒 ID")
		return
	}

	reminder, err := a.reminders.Reschedule(id)
	if err != nil {
		if errors.Is(err, service.ErrReminderNotFound) {
			respondError(c, http.StatusNotFound, "提醒不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "推迟复习失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminderToPayload(*reminder)})
}

// DeleteReminder 删除单个提醒
func (a *API) DeleteReminder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的提醒 ID")
		return
	}

	if err := a.reminders.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除提醒失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ReviewStats 返回复习统计
func (a *API) ReviewStats(c *gin.Context) {
	stats, err := a.reminders.Stats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "统计复习数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed": stats.Completed,
		"pending":   stats.Pending,
		"overdue":   stats.Overdue,
	})
}

func reminderToPayload(reminder db.ReviewReminder) gin.H {
	return gin.H{
		"id":            reminder.ID,
		"lesson_id":     reminder.LessonID,
		"lesson_title":  reminder.LessonTitle,
		"original_date": reminder.OriginalDate.Format(dateParamLayout),
		"review_date":   reminder.ReviewDate.Format(dateParamLayout),
		"status":        reminder.Status,
		"stage":         reminder.Stage,
	}
}
