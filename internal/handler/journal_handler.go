package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifedesk/internal/db"
	"github.com/lifedesk/internal/service"
)

type journalPayload struct {
	EntryAt   string `json:"entry_at"`
	Content   string `json:"content"`
	TimeOfDay string `json:"time_of_day"`
}

// ListJournalEntries 返回指定日期的日记条目，按时间倒序
func (a *API) ListJournalEntries(c *gin.Context) {
	date := parseDateQuery(c, "date")

	entries, err := a.journal.EntriesForDate(date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取日记列表失败")
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, journalEntryToPayload(entry))
	}

	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// CreateJournalEntry 新建日记条目
func (a *API) CreateJournalEntry(c *gin.Context) {
	var payload journalPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	entryAt, ok := parseTimeField(payload.EntryAt)
	if !ok {
		entryAt = time.Now()
	}

	entry, err := a.journal.Create(service.JournalInput{
		EntryAt:   entryAt,
		Content:   payload.Content,
		TimeOfDay: payload.TimeOfDay,
	})
	if err != nil {
		if errors.Is(err, service.ErrJournalEmptyContent) {
			respondError(c, http.StatusBadRequest, "日记内容不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建日记失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": journalEntryToPayload(*entry)})
}

// UpdateJournalEntry 更新日记条目
func (a *API) UpdateJournalEntry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日记 ID")
		return
	}

	var payload journalPayload
	if !bindJSON(c, &payload, "请求体格式不正确") {
		return
	}

	input := service.JournalInput{
		Content:   payload.Content,
		TimeOfDay: payload.TimeOfDay,
	}
	if entryAt, ok := parseTimeField(payload.EntryAt); ok {
		input.EntryAt = entryAt
	}

	entry, err := a.journal.Update(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJournalEntryNotFound):
			respondError(c, http.StatusNotFound, "日记不存在")
		case errors.Is(err, service.ErrJournalEmptyContent):
			respondError(c, http.StatusBadRequest, "日记内容不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "更新日记失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": journalEntryToPayload(*entry)})
}

// DeleteJournalEntry 删除日记条目
func (a *API) DeleteJournalEntry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日记 ID")
		return
	}

	if err := a.journal.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除日记失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func journalEntryToPayload(entry db.JournalEntry) gin.H {
	return gin.H{
		"id":           entry.ID,
		"entry_at":     entry.EntryAt.Format(time.RFC3339),
		"content":      entry.Content,
		"content_html": renderMarkdown(entry.Content),
		"time_of_day":  service.EffectiveTimeOfDay(entry),
	}
}
