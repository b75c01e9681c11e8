package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/service"
)

type startTimerPayload struct {
	Mode string `json:"mode"`
	// countdown/progress：总时长（秒）
	DurationSeconds int `json:"duration_seconds"`
	// cycle：各阶段时长（分钟）与轮数，非法值回落到默认
	WorkMinutes      int `json:"work_minutes"`
	BreakMinutes     int `json:"break_minutes"`
	LongBreakMinutes int `json:"long_break_minutes"`
	TotalCycles      int `json:"total_cycles"`
}

// StartTimer 创建并启动一个计时会话
func (a *API) StartTimer(c *gin.Context) {
	var payload startTimerPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	var (
		snapshot service.TimerSnapshot
		err      error
	)

	switch payload.Mode {
	case service.TimerModeCountdown:
		snapshot, err = a.timers.StartCountdown(time.Duration(payload.DurationSeconds) * time.Second)
	case service.TimerModeProgress:
		snapshot, err = a.timers.StartProgress(time.Duration(payload.DurationSeconds) * time.Second)
	case service.TimerModeCycle:
		snapshot, err = a.timers.StartCycle(service.CycleConfig{
			WorkDuration:      time.Duration(payload.WorkMinutes) * time.Minute,
			BreakDuration:     time.Duration(payload.BreakMinutes) * time.Minute,
			LongBreakDuration: time.Duration(payload.LongBreakMinutes) * time.Minute,
			TotalCycles:       payload.TotalCycles,
		})
	default:
		respondError(c, http.StatusBadRequest, "未知的计时模式")
		return
	}

	if err != nil {
		if errors.Is(err, service.ErrTimerInvalidDuration) {
			respondError(c, http.StatusBadRequest, "计时时长必须大于 0")
			return
		}
		respondError(c, http.StatusInternalServerError, "启动计时失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"timer": timerToPayload(snapshot)})
}

// GetTimer 返回会话当前状态，循环计时在此结算阶段切换
func (a *API) GetTimer(c *gin.Context) {
	snapshot, err := a.timers.Snapshot(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "计时会话不存在")
		return
	}

	c.JSON(http.StatusOK, gin.H{"timer": timerToPayload(snapshot)})
}

// PauseTimer 暂停计时
func (a *API) PauseTimer(c *gin.Context) {
	snapshot, err := a.timers.Pause(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "计时会话不存在")
		return
	}

	c.JSON(http.StatusOK, gin.H{"timer": timerToPayload(snapshot)})
}

// ResumeTimer 恢复计时
func (a *API) ResumeTimer(c *gin.Context) {
	snapshot, err := a.timers.Resume(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "计时会话不存在")
		return
	}

	c.JSON(http.StatusOK, gin.H{"timer": timerToPayload(snapshot)})
}

// ResetTimer 重置计时
func (a *API) ResetTimer(c *gin.Context) {
	snapshot, err := a.timers.Reset(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "计时会话不存在")
		return
	}

	c.JSON(http.StatusOK, gin.H{"timer": timerToPayload(snapshot)})
}

// DeleteTimer 丢弃计时会话
func (a *API) DeleteTimer(c *gin.Context) {
	a.timers.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func timerToPayload(snapshot service.TimerSnapshot) gin.H {
	payload := gin.H{
		"id":       snapshot.ID,
		"mode":     snapshot.Mode,
		"running":  snapshot.Running,
		"paused":   snapshot.Paused,
		"finished": snapshot.Finished,
	}

	switch snapshot.Mode {
	case service.TimerModeCountdown:
		payload["duration_seconds"] = int(snapshot.Duration.Seconds())
		payload["remaining_seconds"] = int(snapshot.Remaining.Seconds())
	case service.TimerModeProgress:
		payload["duration_seconds"] = int(snapshot.Duration.Seconds())
		payload["elapsed_seconds"] = int(snapshot.Elapsed.Seconds())
		payload["percentage"] = snapshot.Percentage
	case service.TimerModeCycle:
		payload["phase"] = snapshot.Phase
		payload["remaining_seconds"] = int(snapshot.Remaining.Seconds())
		payload["cycle_count"] = snapshot.CycleCount
		payload["total_cycles"] = snapshot.TotalCycles
		payload["phase_changed"] = snapshot.PhaseChanged
	}

	return payload
}
