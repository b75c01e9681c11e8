package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/service"
)

type displayNamePayload struct {
	DisplayName string `json:"display_name"`
}

// GetProfile 返回用户信息并维护连续活跃天数。
// 每次加载仪表盘都会经过这里，相当于原来的启动时打点。
func (a *API) GetProfile(c *gin.Context) {
	streak, err := a.profile.TouchStreak()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "更新活跃记录失败")
		return
	}

	profile, err := a.profile.GetProfile()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取用户信息失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"display_name": profile.DisplayName,
		"streak":       streak,
		"last_active":  profile.LastActive,
		"theme":        profile.Theme,
		"greeting":     service.Greeting(time.Now()),
	})
}

// UpdateDisplayName 更新展示用户名
func (a *API) UpdateDisplayName(c *gin.Context) {
	var payload displayNamePayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	if err := a.profile.SetDisplayName(payload.DisplayName); err != nil {
		respondError(c, http.StatusInternalServerError, "更新用户名失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"display_name": payload.DisplayName})
}

// ToggleTheme 在明暗主题间切换
func (a *API) ToggleTheme(c *gin.Context) {
	theme, err := a.profile.ToggleTheme()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "切换主题失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
