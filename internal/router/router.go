package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，浏览器侧的"当前选中日期"记在这里
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("lifedesk_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 渲染层只消费这些 JSON 接口
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/dashboard/day", api.GetDayView)

		apiGroup.GET("/journal", api.ListJournalEntries)
		apiGroup.POST("/journal", api.CreateJournalEntry)
		apiGroup.PUT("/journal/:id", api.UpdateJournalEntry)
		apiGroup.DELETE("/journal/:id", api.DeleteJournalEntry)

		apiGroup.GET("/goals", api.ListGoals)
		apiGroup.POST("/goals", api.CreateGoal)
		apiGroup.PUT("/goals/:id/progress", api.UpdateGoalProgress)
		apiGroup.PUT("/goals/:id/toggle", api.ToggleGoalCompletion)
		apiGroup.DELETE("/goals/:id", api.DeleteGoal)
		apiGroup.GET("/goals/completion-rate", api.GoalCompletionRate)

		apiGroup.GET("/lessons", api.ListLessons)
		apiGroup.POST("/lessons", api.CreateLesson)
		apiGroup.PUT("/lessons/:id", api.UpdateLesson)
		apiGroup.DELETE("/lessons/:id", api.DeleteLesson)
		apiGroup.POST("/lessons/:id/review", api.AddLessonToReview)

		apiGroup.GET("/subjects", api.ListSubjects)
		apiGroup.POST("/subjects", api.CreateSubject)
		apiGroup.PUT("/subjects/:id", api.UpdateSubject)
		apiGroup.DELETE("/subjects/:id", api.DeleteSubject)

		apiGroup.GET("/reminders", api.ListReminders)
		apiGroup.PUT("/reminders/:id/complete", api.CompleteReminder)
		apiGroup.PUT("/reminders/:id/reschedule", api.RescheduleReminder)
		apiGroup.DELETE("/reminders/:id", api.DeleteReminder)
		apiGroup.GET("/reminders/stats", api.ReviewStats)

		apiGroup.GET("/tasks", api.ListTasks)
		apiGroup.POST("/tasks", api.CreateTask)
		apiGroup.DELETE("/tasks/:id", api.DeleteTask)

		apiGroup.GET("/profile", api.GetProfile)
		apiGroup.PUT("/profile/display-name", api.UpdateDisplayName)
		apiGroup.PUT("/profile/theme", api.ToggleTheme)

		apiGroup.GET("/summary/weekly", api.GetWeeklySummary)
		apiGroup.GET("/summary/monthly", api.GetMonthlySummary)

		apiGroup.POST("/timers", api.StartTimer)
		apiGroup.GET("/timers/:id", api.GetTimer)
		apiGroup.PUT("/timers/:id/pause", api.PauseTimer)
		apiGroup.PUT("/timers/:id/resume", api.ResumeTimer)
		apiGroup.PUT("/timers/:id/reset", api.ResetTimer)
		apiGroup.DELETE("/timers/:id", api.DeleteTimer)
	}

	return r
}
