package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/service"
)

type lessonPayload struct {
	Date      string `json:"date"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SubjectID *uint  `json:"subject_id"`
	// AddToReview 为 true 时在创建课程的同时建立首个复习提醒
	AddToReview bool `json:"add_to_review"`
}

type subjectPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListLessons 返回课程列表，支持按日期或科目过滤
func (a *API) ListLessons(c *gin.Context) {
	var (
		lessons []db.Lesson
		err     error
	)

	switch {
	case c.Query("subject_id") != "":
		subjectID, parseErr := parseUintQuery(c.Query("subject_id"))
		if parseErr != nil {
			respondError(c, http.StatusBadRequest, "无效的科目 ID")
			return
		}
		lessons, err = a.lessons.LessonsBySubject(subjectID)
	case c.Query("date") != "":
		lessons, err = a.lessons.LessonsForDate(parseDateQuery(c, "date"))
	default:
		lessons, err = a.lessons.ListLessons()
	}

	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取课程列表失败")
		return
	}

	items := make([]gin.H, 0, len(lessons))
	for _, lesson := range lessons {
		items = append(items, a.lessonToPayload(lesson))
	}

	c.JSON(http.StatusOK, gin.H{"lessons": items})
}

// CreateLesson 新建课程，可选同时加入复习计划
func (a *API) CreateLesson(c *gin.Context) {
	var payload lessonPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	date := time.Now()
	if parsed, err := time.ParseInLocation(dateParamLayout, payload.Date, time.Local); err == nil {
		date = parsed
	}

	lesson, err := a.lessons.CreateLesson(service.LessonInput{
		Date:      date,
		Title:     payload.Title,
		Content:   payload.Content,
		SubjectID: payload.SubjectID,
	})
	if err != nil {
		if errors.Is(err, service.ErrLessonInvalidInput) {
			respondError(c, http.StatusBadRequest, "课程标题和内容不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建课程失败")
		return
	}

	response := gin.H{"lesson": a.lessonToPayload(*lesson)}

	if payload.AddToReview {
		reminder, err := a.reminders.CreateForLesson(lesson)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "创建复习提醒失败")
			return
		}
		response["reminder"] = reminderToPayload(*reminder)
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateLesson 更新课程
func (a *API) UpdateLesson(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的课程 ID")
		return
	}

	var payload lessonPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	input := service.LessonInput{
		Title:     payload.Title,
		Content:   payload.Content,
		SubjectID: payload.SubjectID,
	}
	if parsed, parseErr := time.ParseInLocation(dateParamLayout, payload.Date, time.Local); parseErr == nil {
		input.Date = parsed
	}

	lesson, err := a.lessons.UpdateLesson(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound):
			respondError(c, http.StatusNotFound, "课程不存在")
		case errors.Is(err, service.ErrLessonInvalidInput):
			respondError(c, http.StatusBadRequest, "课程标题和内容不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "更新课程失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"lesson": a.lessonToPayload(*lesson)})
}

// DeleteLesson 删除课程并级联删除其复习提醒
func (a *API) DeleteLesson(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的课程 ID")
		return
	}

	if err := a.lessons.DeleteLesson(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除课程失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// AddLessonToReview 为已有课程建立首个复习提醒
func (a *API) AddLessonToReview(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的课程 ID")
		return
	}

	lesson, err := a.lessons.GetLesson(id)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			respondError(c, http.StatusNotFound, "课程不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取课程失败")
		return
	}

	reminder, err := a.reminders.CreateForLesson(lesson)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "创建复习提醒失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reminder": reminderToPayload(*reminder)})
}

// ListSubjects 返回全部科目
func (a *API) ListSubjects(c *gin.Context) {
	subjects, err := a.lessons.ListSubjects()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取科目列表失败")
		return
	}

	items := make([]gin.H, 0, len(subjects))
	for _, subject := range subjects {
		items = append(items, subjectToPayload(subject))
	}

	c.JSON(http.StatusOK, gin.H{"subjects": items})
}

// CreateSubject 新建科目
func (a *API) CreateSubject(c *gin.Context) {
	var payload subjectPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	subject, err := a.lessons.CreateSubject(payload.Name, payload.Description)
	if err != nil {
		if errors.Is(err, service.ErrSubjectEmptyName) {
			respondError(c, http.StatusBadRequest, "科目名称不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建科目失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subject": subjectToPayload(*subject)})
}

// UpdateSubject 更新科目
func (a *API) UpdateSubject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的科目 ID")
		return
	}

	var payload subjectPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	subject, err := a.lessons.UpdateSubject(id, payload.Name, payload.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			respondError(c, http.StatusNotFound, "科目不存在")
		case errors.Is(err, service.ErrSubjectEmptyName):
			respondError(c, http.StatusBadRequest, "科目名称不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "更新科目失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"subject": subjectToPayload(*subject)})
}

// DeleteSubject 删除科目，名下课程转为未分类
func (a *API) DeleteSubject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的科目 ID")
		return
	}

	if err := a.lessons.DeleteSubject(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除科目失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (a *API) lessonToPayload(lesson db.Lesson) gin.H {
	payload := gin.H{
		"id":           lesson.ID,
		"date":         lesson.LessonDate.Format(dateParamLayout),
		"title":        lesson.Title,
		"content":      lesson.Content,
		"content_html": renderMarkdown(lesson.Content),
	}

	// 弱引用：科目可能已删除，此时不输出科目字段
	if name := a.lessons.SubjectName(lesson); name != "" {
		payload["subject_id"] = *lesson.SubjectID
		payload["subject_name"] = name
	}

	return payload
}

func subjectToPayload(subject db.Subject) gin.H {
	return gin.H{
		"id":          subject.ID,
		"name":        subject.Name,
		"description": subject.Description,
		"created_at":  subject.CreatedAt.Format(time.RFC3339),
	}
}
