package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrGoalNotFound 在指定目标不存在时返回
	ErrGoalNotFound = errors.New("goal not found")
	// ErrGoalEmptyText 在目标文本为空时返回
	ErrGoalEmptyText = errors.New("goal text is required")
)

// GoalService 负责每日目标的增删改查与进度维护
// Progress==100 与 Completed 的双向约束在每次写入时强制成立

type GoalService struct {
	db *gorm.DB
}

// CompletionRate 汇总区间内目标的完成情况
type CompletionRate struct {
	Total      int
	Completed  int
	Percentage int
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB) *GoalService {
	return &GoalService{db: gdb}
}

// Create 在指定日期下新建目标，初始进度为 0
func (s *GoalService) Create(date time.Time, text string) (*db.Goal, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrGoalEmptyText
	}

	goal := db.Goal{
		GoalDate: normalizeToDate(date),
		Text:     trimmed,
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &goal, nil
}

// Delete 删除目标
func (s *GoalService) Delete(id uint) error {
	if err := s.db.Delete(&db.Goal{}, id).Error; err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// UpdateProgress 更新单个目标的进度，进度钳制在 [0,100]。
// 进度到 100 自动置完成；已完成的目标进度回落则取消完成标记。
func (s *GoalService) UpdateProgress(id uint, progress int) (*db.Goal, error) {
	goal, err := s.get(id)
	if err != nil {
		return nil, err
	}

	goal.Progress = ClampProgress(progress)
	if goal.Progress == 100 {
		goal.Completed = true
	} else if goal.Completed {
		goal.Completed = false
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, fmt.Errorf("update goal progress: %w", err)
	}
	return goal, nil
}

// ToggleCompletion 切换完成状态。
// 勾选时进度置为 100；取消勾选时进度重置为 0 而不是恢复旧值，
// 复选框只是"进度 100%"的别名，不是独立状态。
func (s *GoalService) ToggleCompletion(id uint) (*db.Goal, error) {
	goal, err := s.get(id)
	if err != nil {
		return nil, err
	}

	goal.Completed = !goal.Completed
	if goal.Completed {
		goal.Progress = 100
	} else {
		goal.Progress = 0
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, fmt.Errorf("toggle goal completion: %w", err)
	}
	return goal, nil
}

// GoalsForDate 返回指定日历日的全部目标
func (s *GoalService) GoalsForDate(date time.Time) ([]db.Goal, error) {
	start, end := dayRange(date)

	var goals []db.Goal
	if err := s.db.Where("goal_date >= ? AND goal_date < ?", start, end).
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

// RateBetween 统计日历日闭区间内目标的总数、完成数与完成率。
// 没有匹配目标时完成率为 0，不做除零。
func (s *GoalService) RateBetween(startDate, endDate time.Time) (CompletionRate, error) {
	start := normalizeToDate(startDate)
	end := normalizeToDate(endDate).AddDate(0, 0, 1)

	var goals []db.Goal
	if err := s.db.Where("goal_date >= ? AND goal_date < ?", start, end).
		Find(&goals).Error; err != nil {
		return CompletionRate{}, fmt.Errorf("list goals for rate: %w", err)
	}

	rate := CompletionRate{Total: len(goals)}
	for _, goal := range goals {
		if goal.Completed {
			rate.Completed++
		}
	}

	if rate.Total > 0 {
		rate.Percentage = int(math.Round(100 * float64(rate.Completed) / float64(rate.Total)))
	}

	return rate, nil
}

// ProgressPercentage 计算一组目标的平均进度（四舍五入），空集合返回 0
func ProgressPercentage(goals []db.Goal) int {
	if len(goals) == 0 {
		return 0
	}

	total := 0
	for _, goal := range goals {
		total += goal.Progress
	}

	return int(math.Round(float64(total) / float64(len(goals))))
}

// ClampProgress 把任意输入钳制到合法进度区间，非法值回落到 0
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

func (s *GoalService) get(id uint) (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.First(&goal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}
