package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetWeeklySummary 返回本周摘要，必要时重算
func (a *API) GetWeeklySummary(c *gin.Context) {
	summary, err := a.summaries.Weekly()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成周摘要失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetMonthlySummary 返回本月摘要，必要时重算
func (a *API) GetMonthlySummary(c *gin.Context) {
	summary, err := a.summaries.Monthly()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成月摘要失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
