package db

import (
	"time"

	"gorm.io/gorm"
)

// 摘要周期类型
const (
	SummaryPeriodWeekly  = "weekly"
	SummaryPeriodMonthly = "monthly"
)

// DashboardSummary 缓存按周/月生成的统计摘要。
// 它只是派生投影，PeriodKey 过期后随时可以重算，
// GeneratedAt 记录投影的计算时刻。
type DashboardSummary struct {
	gorm.Model
	Period      string    `gorm:"size:20;not null;index:idx_summary_period,unique"`
	PeriodKey   string    `gorm:"size:40;not null;index:idx_summary_period,unique"`
	Payload     string    `gorm:"type:text"`
	GeneratedAt time.Time `gorm:"not null"`
}

// TableName 自定义表名以保持命名一致。
func (DashboardSummary) TableName() string {
	return "dashboard_summaries"
}
