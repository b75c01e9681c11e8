package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/service"
)

type goalPayload struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type goalProgressPayload struct {
	Progress int `json:"progress"`
}

// ListGoals 返回指定日期的目标及当日平均进度
func (a *API) ListGoals(c *gin.Context) {
	date := parseDateQuery(c, "date")

	goals, err := a.goals.GoalsForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取目标列表失败")
		return
	}

	items := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		items = append(items, goalToPayload(goal))
	}

	c.JSON(http.StatusOK, gin.H{
		"goals":    items,
		"progress": service.ProgressPercentage(goals),
	})
}

// CreateGoal 在指定日期下新建目标
func (a *API) CreateGoal(c *gin.Context) {
	var payload goalPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	date := time.Now()
	if parsed, err := time.ParseInLocation(dateParamLayout, payload.Date, time.Local); err == nil {
		date = parsed
	}

	goal, err := a.goals.Create(date, payload.Text)
	if err != nil {
		if errors.Is(err, service.ErrGoalEmptyText) {
			respondError(c, http.StatusBadRequest, "目标内容不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建目标失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goalToPayload(*goal)})
}

// UpdateGoalProgress 更新目标进度，进度会被钳制到 [0,100]
func (a *API) UpdateGoalProgress(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标 ID")
		return
	}

	var payload goalProgressPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	goal, err := a.goals.UpdateProgress(id, payload.Progress)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			respondError(c, http.StatusNotFound, "目标不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "更新进度失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// ToggleGoalCompletion 切换目标完成状态
func (a *API) ToggleGoalCompletion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标 ID")
		return
	}

	goal, err := a.goals.ToggleCompletion(id)
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			respondError(c, http.StatusNotFound, "目标不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "切换完成状态失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// DeleteGoal 删除目标
func (a *API) DeleteGoal(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标 ID")
		return
	}

	if err := a.goals.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除目标失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GoalCompletionRate 返回区间内的目标完成率
func (a *API) GoalCompletionRate(c *gin.Context) {
	start := parseDateQuery(c, "start")
	end := parseDateQuery(c, "end")

	rate, err := a.goals.RateBetween(start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "统计完成率失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      rate.Total,
		"completed":  rate.Completed,
		"percentage": rate.Percentage,
	})
}

func goalToPayload(goal db.Goal) gin.H {
	return gin.H{
		"id":        goal.ID,
		"date":      goal.GoalDate.Format(dateParamLayout),
		"text":      goal.Text,
		"completed": goal.Completed,
		"progress":  goal.Progress,
	}
}
