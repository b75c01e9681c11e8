package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/config"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/handler"
	"github.com/lifedesk/internal/router"
)

const summaryRefreshInterval = 6 * time.Hour

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	api := handler.NewAPI(db.DB)

	// 启动时重算一次提醒状态，之后每跨一个日历日再算一次
	if err := api.Reminders().CheckOverdue(); err != nil {
		log.Printf("initial overdue recompute failed: %v", err)
	}
	go runDailyRecompute(api)

	// 周/月摘要每 6 小时巡检一次，翻周/翻月时重算
	go runSummaryRefresh(api)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// runDailyRecompute 每小时醒来一次，发现日历日变了就重算提醒状态
func runDailyRecompute(api *handler.API) {
	lastDay := time.Now().Format("2006-01-02")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		today := time.Now().Format("2006-01-02")
		if today == lastDay {
			continue
		}
		lastDay = today

		if err := api.Reminders().CheckOverdue(); err != nil {
			log.Printf("daily overdue recompute failed: %v", err)
		}
	}
}

func runSummaryRefresh(api *handler.API) {
	ticker := time.NewTicker(summaryRefreshInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := api.Summaries().Refresh(); err != nil {
			log.Printf("summary refresh failed: %v", err)
		}
	}
}
