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
	// ErrLessonNotFound 在指定课程不存在时返回
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrSubjectNotFound 在指定科目不存在时返回
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrLessonInvalidInput 在课程标题或内容为空时返回
	ErrLessonInvalidInput = errors.New("lesson title and content are required")
	// ErrSubjectEmptyName 在科目名称为空时返回
	ErrSubjectEmptyName = errors.New("subject name is required")
)

// LessonService 负责课程与科目的增删改查
// 课程对科目只是弱引用；删除课程时级联删除其复习提醒，
// 这是各数据模块之间唯一一条直接调用

type LessonService struct {
	db        *gorm.DB
	reminders *ReminderService
}

// LessonInput 定义创建/更新课程时可配置字段
type LessonInput struct {
	Date      time.Time
	Title     string
	Content   string
	SubjectID *uint
}

// NewLessonService 构造 LessonService
func NewLessonService(gdb *gorm.DB, reminders *ReminderService) *LessonService {
	return &LessonService{db: gdb, reminders: reminders}
}

// CreateLesson 新建课程笔记
func (s *LessonService) CreateLesson(input LessonInput) (*db.Lesson, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, ErrLessonInvalidInput
	}

	if input.SubjectID != nil {
		if _, err := s.GetSubject(*input.SubjectID); err != nil {
			// 科目引用无效时降级为未分类，而不是拒绝创建
			input.SubjectID = nil
		}
	}

	lesson := db.Lesson{
		LessonDate: normalizeToDate(input.Date),
		Title:      title,
		Content:    content,
		SubjectID:  input.SubjectID,
	}

	if err := s.db.Create(&lesson).Error; err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return &lesson, nil
}

// UpdateLesson 更新课程内容。
// 已存在的复习提醒保留创建时的标题快照，这里不会回写。
func (s *LessonService) UpdateLesson(id uint, input LessonInput) (*db.Lesson, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, ErrLessonInvalidInput
	}

	lesson, err := s.GetLesson(id)
	if err != nil {
		return nil, err
	}

	lesson.Title = title
	lesson.Content = content
	lesson.SubjectID = input.SubjectID
	if !input.Date.IsZero() {
		lesson.LessonDate = normalizeToDate(input.Date)
	}

	if err := s.db.Save(lesson).Error; err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	return lesson, nil
}

// DeleteLesson 删除课程并级联删除其全部复习提醒
func (s *LessonService) DeleteLesson(id uint) error {
	if err := s.db.Delete(&db.Lesson{}, id).Error; err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	if err := s.reminders.DeleteByLessonID(id); err != nil {
		return err
	}
	return nil
}

// GetLesson 根据 ID 获取课程
func (s *LessonService) GetLesson(id uint) (*db.Lesson, error) {
	var lesson db.Lesson
	if err := s.db.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return &lesson, nil
}

// LessonsForDate 返回指定日历日创建的课程
func (s *LessonService) LessonsForDate(date time.Time) ([]db.Lesson, error) {
	start, end := dayRange(date)

	var lessons []db.Lesson
	if err := s.db.Where("lesson_date >= ? AND lesson_date < ?", start, end).
		Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	return lessons, nil
}

// LessonsBySubject 返回某科目下的全部课程，按日期倒序
func (s *LessonService) LessonsBySubject(subjectID uint) ([]db.Lesson, error) {
	var lessons []db.Lesson
	if err := s.db.Where("subject_id = ?", subjectID).
		Order("lesson_date DESC").
		Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("list lessons by subject: %w", err)
	}
	return lessons, nil
}

// ListLessons 返回全部课程，按日期倒序
func (s *LessonService) ListLessons() ([]db.Lesson, error) {
	var lessons []db.Lesson
	if err := s.db.Order("lesson_date DESC").Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// CountBetween 统计日历日闭区间内创建的课程数，供月度摘要使用
func (s *LessonService) CountBetween(startDate, endDate time.Time) (int, error) {
	start := normalizeToDate(startDate)
	end := normalizeToDate(endDate).AddDate(0, 0, 1)

	var count int64
	if err := s.db.Model(&db.Lesson{}).
		Where("lesson_date >= ? AND lesson_date < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}

	return int(count), nil
}

// CreateSubject 新建科目
func (s *LessonService) CreateSubject(name, description string) (*db.Subject, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrSubjectEmptyName
	}

	subject := db.Subject{
		Name:        trimmed,
		Description: strings.TrimSpace(description),
	}

	if err := s.db.Create(&subject).Error; err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return &subject, nil
}

// UpdateSubject 更新科目信息
func (s *LessonService) UpdateSubject(id uint, name, description string) (*db.Subject, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrSubjectEmptyName
	}

	subject, err := s.GetSubject(id)
	if err != nil {
		return nil, err
	}

	subject.Name = trimmed
	subject.Description = strings.TrimSpace(description)

	if err := s.db.Save(subject).Error; err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	return subject, nil
}

// DeleteSubject 删除科目，名下课程保留并解除科目关联
func (s *LessonService) DeleteSubject(id uint) error {
	if err := s.db.Model(&db.Lesson{}).
		Where("subject_id = ?", id).
		Update("subject_id", nil).Error; err != nil {
		return fmt.Errorf("detach lessons from subject: %w", err)
	}

	if err := s.db.Delete(&db.Subject{}, id).Error; err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

// GetSubject 根据 ID 获取科目
func (s *LessonService) GetSubject(id uint) (*db.Subject, error) {
	var subject db.Subject
	if err := s.db.First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return &subject, nil
}

// ListSubjects 返回全部科目，按名称升序
func (s *LessonService) ListSubjects() ([]db.Subject, error) {
	var subjects []db.Subject
	if err := s.db.Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// SubjectName 解析课程的科目名称，引用悬空时回退为空字符串
func (s *LessonService) SubjectName(lesson db.Lesson) string {
	if lesson.SubjectID == nil {
		return ""
	}

	subject, err := s.GetSubject(*lesson.SubjectID)
	if err != nil {
		return ""
	}
	return subject.Name
}
