package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/service"
)

type taskPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAllDay    bool   `json:"is_all_day"`
	EndDate     string `json:"end_date"`
}

// ListTasks 返回起始日落在指定日期的日程任务
func (a *API) ListTasks(c *gin.Context) {
	date := parseDateQuery(c, "date")

	tasks, err := a.tasks.TasksForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取日程列表失败")
		return
	}

	items := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskToPayload(task))
	}

	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

// CreateTask 新建日程任务，结束时间必须晚于开始时间
func (a *API) CreateTask(c *gin.Context) {
	var payload taskPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	startTime, ok := parseTimeField(payload.StartTime)
	if !ok {
		respondError(c, http.StatusBadRequest, "开始时间格式不正确")
		return
	}

	endTime, ok := parseTimeField(payload.EndTime)
	if !ok {
		respondError(c, http.StatusBadRequest, "结束时间格式不正确")
		return
	}

	input := service.TaskInput{
		Name:        payload.Name,
		Description: payload.Description,
		Link:        payload.Link,
		StartTime:   startTime,
		EndTime:     endTime,
		IsAllDay:    payload.IsAllDay,
	}

	if parsed, err := time.ParseInLocation(dateParamLayout, payload.EndDate, time.Local); err == nil {
		input.EndDate = &parsed
	}

	task, err := a.tasks.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskEmptyName):
			respondError(c, http.StatusBadRequest, "任务名称不能为空")
		case errors.Is(err, service.ErrTaskInvalidTimeRange):
			respondError(c, http.StatusBadRequest, "结束时间必须晚于开始时间")
		default:
			respondError(c, http.StatusInternalServerError, "创建日程失败")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": taskToPayload(*task)})
}

// DeleteTask 删除日程任务
func (a *API) DeleteTask(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的任务 ID")
		return
	}

	if err := a.tasks.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除日程失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func taskToPayload(task db.ScheduledTask) gin.H {
	payload := gin.H{
		"id":           task.ID,
		"name":         task.Name,
		"description":  task.Description,
		"link":         task.Link,
		"start_time":   task.StartTime.Format(time.RFC3339),
		"end_time":     task.EndTime.Format(time.RFC3339),
		"date":         task.TaskDate.Format(dateParamLayout),
		"is_all_day":   task.IsAllDay,
		"is_multi_day": task.IsMultiDay,
	}

	if task.IsMultiDay && task.StartDate != nil && task.EndDate != nil {
		payload["start_date"] = task.StartDate.Format(dateParamLayout)
		payload["end_date"] = task.EndDate.Format(dateParamLayout)
	}

	return payload
}
