package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/document"
	"github.com/lirunlin/qianbao/internal/state"
)

const (
	contentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetActivity(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Get())
}

type setFieldRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

func (s *Server) handleSetField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.state.SetField(req.Name, req.Value); err != nil {
		s.respondStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state.Get())
}

type participantCountRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleSetParticipantCount(c *gin.Context) {
	var req participantCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.state.SetParticipantCount(req.Count)
	c.JSON(http.StatusOK, s.state.Get())
}

func (s *Server) handleAddScheduleRow(c *gin.Context) {
	row := s.state.AddScheduleRow()
	c.JSON(http.StatusOK, gin.H{"row": row, "activity": s.state.Get()})
}

type updateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (s *Server) handleUpdateScheduleItem(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.state.UpdateScheduleItem(c.Param("id"), req.Field, req.Value); err != nil {
		s.respondStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state.Get())
}

func (s *Server) handleRemoveScheduleRow(c *gin.Context) {
	s.state.RemoveScheduleRow(c.Param("id"))
	c.JSON(http.StatusOK, s.state.Get())
}

type updateExpenseRequest struct {
	Project string `json:"project" binding:"required"`
	Field   string `json:"field" binding:"required"`
	Value   string `json:"value"`
}

func (s *Server) handleUpdateExpense(c *gin.Context) {
	var req updateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.state.UpdateExpense(req.Project, req.Field, req.Value); err != nil {
		s.respondStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state.Get())
}

func (s *Server) handleReset(c *gin.Context) {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("Failed to clear persisted state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "清除持久化数据失败"})
		return
	}
	s.state.Reset()
	c.JSON(http.StatusOK, s.state.Get())
}

func (s *Server) handleExportNotice(c *gin.Context) {
	data := s.state.Get()
	filename, err := document.NoticeFilename(data)
	if err != nil {
		s.respondExportError(c, err)
		return
	}
	blob, err := s.notice.Build(data)
	if err != nil {
		s.respondExportError(c, err)
		return
	}
	s.sendAttachment(c, filename, contentTypeDocx, blob)
}

func (s *Server) handleExportWorksheet(c *gin.Context) {
	data := s.state.Get()
	filename, err := document.WorksheetFilename(data)
	if err != nil {
		s.respondExportError(c, err)
		return
	}
	blob, err := s.worksheet.Build(data)
	if err != nil {
		s.respondExportError(c, err)
		return
	}
	s.sendAttachment(c, filename, contentTypeXlsx, blob)
}

func (s *Server) sendAttachment(c *gin.Context, filename, contentType string, blob []byte) {
	c.Header("Content-Disposition",
		"attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, blob)
}

func (s *Server) respondStateError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, state.ErrRowNotFound) || errors.Is(err, state.ErrExpenseNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) respondExportError(c *gin.Context, err error) {
	s.logger.Error("Document export failed", zap.Error(err))
	switch {
	case errors.Is(err, document.ErrInvalidDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "日期字段无效，请检查培训日期与落款日期"})
	case errors.Is(err, document.ErrEncodeFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "文件生成失败，请重试"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
