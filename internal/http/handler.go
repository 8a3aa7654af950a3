package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"complaint-service/internal/http/middleware"
	"complaint-service/internal/model"
	"complaint-service/internal/service"
)

type Handler struct {
	complaintService *service.ComplaintService
	upvoteService    *service.UpvoteService
	ratingService    *service.RatingService
	log              zerolog.Logger
}

func NewHandler(
	complaintService *service.ComplaintService,
	upvoteService *service.UpvoteService,
	ratingService *service.RatingService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		complaintService: complaintService,
		upvoteService:    upvoteService,
		ratingService:    ratingService,
		log:              log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/")
	protected.Use(authMiddleware)

	resident := protected.Group("/resident")
	{
		resident.POST("/complaints", h.fileComplaint)
		resident.POST("/complaints/emergency", h.fileEmergencyComplaint)
		resident.GET("/complaints", h.listComplaints)
		resident.GET("/complaints/by-location", h.findByLocation)
		resident.GET("/complaints/:id", h.getComplaint)
		resident.POST("/complaints/:id/upvote", h.upvoteComplaint)
		resident.POST("/complaints/:id/remove-upvote", h.removeUpvote)
		resident.POST("/complaints/:id/rate", h.rateComplaint)
	}

	worker := protected.Group("/worker")
	{
		worker.GET("/tasks", h.listComplaints)
		worker.GET("/tasks/:id", h.getComplaint)
		worker.POST("/tasks/:id/progress-photo", h.uploadProgressPhoto)
		worker.POST("/tasks/:id/completion-photo", h.uploadCompletionPhoto)
	}

	admin := protected.Group("/admin")
	{
		admin.GET("/complaints", h.listComplaints)
		admin.GET("/complaints/:id", h.getComplaint)
		admin.GET("/complaints/:id/history", h.getComplaintHistory)
		admin.POST("/complaints/:id/validate", h.validateComplaint)
		admin.POST("/complaints/:id/assign", h.assignComplaint)
		admin.POST("/complaints/:id/escalate", h.escalateComplaint)
		admin.POST("/complaints/:id/resolve-emergency", h.resolveEmergency)
		admin.POST("/complaints/:id/close", h.closeComplaint)
		admin.GET("/dashboard", h.adminDashboard)
		admin.GET("/workers/performance", h.workerPerformance)
	}
}

func (h *Handler) fileComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Category    string `json:"category" binding:"required"`
		Location    string `json:"location" binding:"required"`
		Priority    string `json:"priority"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.complaintService.File(c.Request.Context(), principal, service.FileComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Priority:    req.Priority,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(complaint))
}

func (h *Handler) fileEmergencyComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Category    string `json:"category" binding:"required"`
		Location    string `json:"location" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.complaintService.FileEmergency(c.Request.Context(), principal, service.FileComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(complaint))
}

func (h *Handler) listComplaints(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	complaints, err := h.complaintService.ListForPrincipal(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaints))
}

func (h *Handler) getComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	complaint, err := h.complaintService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) findByLocation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		c.JSON(http.StatusBadRequest, errorResponse("location is required"))
		return
	}

	complaints, err := h.upvoteService.FindByLocation(c.Request.Context(), principal, location)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaints))
}

func (h *Handler) upvoteComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	count, err := h.upvoteService.Upvote(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"upvote_count": count}))
}

func (h *Handler) removeUpvote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	count, err := h.upvoteService.RemoveUpvote(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"upvote_count": count}))
}

func (h *Handler) rateComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var req struct {
		Rating   int    `json:"rating" binding:"required"`
		Feedback string `json:"feedback"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.ratingService.Rate(c.Request.Context(), principal, id, service.RateInput{
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) uploadProgressPhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var req struct {
		PhotoURL string `json:"photo_url" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.complaintService.UploadProgressPhoto(c.Request.Context(), principal, id, req.PhotoURL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) uploadCompletionPhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var req struct {
		PhotoURL string `json:"photo_url" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.complaintService.UploadCompletionPhoto(c.Request.Context(), principal, id, req.PhotoURL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) validateComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var req struct {
		Priority string `json:"priority" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.complaintService.Validate(c.Request.Context(), principal, id, model.Priority(strings.ToLower(req.Priority)))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) assignComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var req struct {
		WorkerID     string `json:"worker_id" binding:"required"`
		DeadlineDays int    `json:"deadline_days"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid worker id"))
		return
	}

	complaint, err := h.complaintService.Assign(c.Request.Context(), principal, id, service.AssignInput{
		WorkerID:     workerID,
		DeadlineDays: req.DeadlineDays,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) escalateComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var req struct {
		EscalateTo string `json:"escalate_to"`
	}

	// body optional, default target is the warden
	_ = c.ShouldBindJSON(&req)

	complaint, err := h.complaintService.Escalate(c.Request.Context(), principal, id, req.EscalateTo)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) resolveEmergency(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"resolution_notes"`
	}

	_ = c.ShouldBindJSON(&req)

	complaint, err := h.complaintService.ResolveEmergency(c.Request.Context(), principal, id, req.Notes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) closeComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	complaint, err := h.complaintService.Close(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) getComplaintHistory(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	events, err := h.complaintService.History(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(events))
}

func (h *Handler) adminDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	stats, err := h.complaintService.Dashboard(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) workerPerformance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	performance, err := h.ratingService.Performance(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(performance))
}

func (h *Handler) complaintID(c *gin.Context) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid complaint id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrWorkerNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrAlreadyUpvoted),
		errors.Is(err, service.ErrNotUpvoted),
		errors.Is(err, service.ErrAlreadyRated):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
