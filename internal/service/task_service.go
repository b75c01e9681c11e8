package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifedesk/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound 在指定任务不存在时返回
	ErrTaskNotFound = errors.New("scheduled task not found")
	// ErrTaskEmptyName 在任务名称为空时返回
	ErrTaskEmptyName = errors.New("task name is required")
	// ErrTaskInvalidTimeRange 在结束时间不晚于开始时间时返回
	ErrTaskInvalidTimeRange = errors.New("task end time must be after start time")
)

// TaskService 负责日程任务的增删查
// 任务只按起始日的日期键索引；跨天任务不会出现在后续日期的查询结果里，
// IsMultiDay 仅用于展示日期区间，这是已知限制，按产品现状保留

type TaskService struct {
	db *gorm.DB
}

// TaskInput 定义创建任务时可配置字段
type TaskInput struct {
	Name        string
	Description string
	Link        string
	StartTime   time.Time
	EndTime     time.Time
	IsAllDay    bool
	EndDate     *time.Time
}

// NewTaskService 构造 TaskService
func NewTaskService(gdb *gorm.DB) *TaskService {
	return &TaskService{db: gdb}
}

// Create 新建日程任务。
// 名称必填，结束时间必须严格晚于开始时间，除此之外不做校验。
func (s *TaskService) Create(input TaskInput) (*db.ScheduledTask, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTaskEmptyName
	}

	if !input.EndTime.After(input.StartTime) {
		return nil, ErrTaskInvalidTimeRange
	}

	task := db.ScheduledTask{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Link:        strings.TrimSpace(input.Link),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		TaskDate:    normalizeToDate(input.StartTime),
		IsAllDay:    input.IsAllDay,
	}

	if input.EndDate != nil && !sameDay(*input.EndDate, input.StartTime) {
		start := normalizeToDate(input.StartTime)
		end := normalizeToDate(*input.EndDate)
		task.IsMultiDay = true
		task.StartDate = &start
		task.EndDate = &end
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create scheduled task: %w", err)
	}
	return &task, nil
}

// Delete 删除任务
func (s *TaskService) Delete(id uint) error {
	if err := s.db.Delete(&db.ScheduledTask{}, id).Error; err != nil {
		return fmt.Errorf("delete scheduled task: %w", err)
	}
	return nil
}

// Get 根据 ID 获取任务
func (s *TaskService) Get(id uint) (*db.ScheduledTask, error) {
	var task db.ScheduledTask
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get scheduled task: %w", err)
	}
	return &task, nil
}

// TasksForDate 返回起始日落在指定日历日的任务，按开始时间升序
func (s *TaskService) TasksForDate(date time.Time) ([]db.ScheduledTask, error) {
	start, end := dayRange(date)

	var tasks []db.ScheduledTask
	if err := s.db.Where("task_date >= ? AND task_date < ?", start, end).
		Order("start_time ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list scheduled tasks: %w", err)
	}

	return tasks, nil
}
