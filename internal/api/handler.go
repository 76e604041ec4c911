package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"farmer-portal/internal/models"
	"farmer-portal/internal/profile"
	"farmer-portal/internal/service"
	"farmer-portal/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Portal is the farmer data service as seen by the HTTP layer.
type Portal interface {
	GetFarmerStats(ctx context.Context, farmerID string) service.StatsResult
	GetFarmerOrders(ctx context.Context, farmerID string, recent bool) service.OrdersResult
	UpdateOrderStatus(ctx context.Context, farmerID, orderID, action string) service.MutationResult
	GetFarmerProducts(ctx context.Context, farmerID string) service.ProductsResult
	AddProduct(ctx context.Context, in models.ProductInput) service.MutationResult
	DeleteProduct(ctx context.Context, farmerID, productID string) service.MutationResult
	UpdateFarmerDetails(ctx context.Context, farmerID string, details models.FarmerDetails) service.MutationResult
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RevisionReader reads the revision counter of a presentation path.
type RevisionReader interface {
	PathRevision(ctx context.Context, path string) (int64, error)
}

// Handler contains HTTP handlers
type Handler struct {
	portal    Portal
	sessions  *profile.Registry
	tokens    TokenParser
	revisions RevisionReader
	checks    map[string]Pinger
}

// NewHandler creates a new HTTP handler. checks are pinged by /ready.
func NewHandler(
	portal Portal,
	sessions *profile.Registry,
	tokens TokenParser,
	revisions RevisionReader,
	checks map[string]Pinger,
) *Handler {
	return &Handler{
		portal:    portal,
		sessions:  sessions,
		tokens:    tokens,
		revisions: revisions,
		checks:    checks,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/views/revision", h.viewRevision)

	farmer := v1.Group("/farmer", RequireFarmer(h.tokens))
	{
		farmer.GET("/stats", h.getStats)
		farmer.GET("/orders", h.getOrders)
		farmer.PATCH("/orders/:id/status", h.updateOrderStatus)
		farmer.GET("/products", h.getProducts)
		farmer.POST("/products", h.addProduct)
		farmer.DELETE("/products/:id", h.deleteProduct)
		farmer.PATCH("/profile", h.updateProfile)

		farmer.POST("/profile/sessions", h.openSession)
		farmer.GET("/profile/sessions/:sid", h.getSession)
		farmer.DELETE("/profile/sessions/:sid", h.closeSession)
		farmer.POST("/profile/sessions/:sid/fields/:field/edit", h.beginEdit)
		farmer.PUT("/profile/sessions/:sid/fields/:field", h.changeValue)
		farmer.POST("/profile/sessions/:sid/fields/:field/save", h.saveField)
		farmer.POST("/profile/sessions/:sid/fields/:field/cancel", h.cancelEdit)
		farmer.POST("/profile/sessions/:sid/image", h.imageUploaded)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) viewRevision(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	rev, err := h.revisions.PathRevision(c.Request.Context(), path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read revision",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path, "revision": rev})
}

func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.portal.GetFarmerStats(c.Request.Context(), farmerID(c)))
}

func (h *Handler) getOrders(c *gin.Context) {
	recent, _ := strconv.ParseBool(c.Query("recent"))
	c.JSON(http.StatusOK, h.portal.GetFarmerOrders(c.Request.Context(), farmerID(c), recent))
}

type orderStatusRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.portal.UpdateOrderStatus(c.Request.Context(), farmerID(c), c.Param("id"), req.Action))
}

func (h *Handler) getProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.portal.GetFarmerProducts(c.Request.Context(), farmerID(c)))
}

func (h *Handler) addProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	in.FarmerID = farmerID(c)
	c.JSON(http.StatusOK, h.portal.AddProduct(c.Request.Context(), in))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	c.JSON(http.StatusOK, h.portal.DeleteProduct(c.Request.Context(), farmerID(c), c.Param("id")))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var details models.FarmerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		badRequest(c, err)
		return
	}
	if len(details) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}
	for _, f := range details.Fields() {
		if !f.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown field", "details": string(f)})
			return
		}
	}
	c.JSON(http.StatusOK, h.portal.UpdateFarmerDetails(c.Request.Context(), farmerID(c), details))
}

type sessionResponse struct {
	ID            string                 `json:"id"`
	State         profile.State          `json:"state"`
	Notifications []profile.Notification `json:"notifications"`
}

type saveResponse struct {
	Outcome       string                 `json:"outcome"`
	State         profile.State          `json:"state"`
	Notifications []profile.Notification `json:"notifications"`
}

type changeValueRequest struct {
	Value string `json:"value"`
}

func (h *Handler) openSession(c *gin.Context) {
	id, session, err := h.sessions.Open(c.Request.Context(), farmerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to open edit session",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: id, State: session.Snapshot(), Notifications: session.Notifications()})
}

// session resolves :sid for the calling farmer, writing 404 when absent.
func (h *Handler) session(c *gin.Context) (*profile.Session, bool) {
	session, err := h.sessions.Get(c.Param("sid"), farmerID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Edit session not found"})
		return nil, false
	}
	return session, true
}

func (h *Handler) getSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: c.Param("sid"), State: session.Snapshot(), Notifications: session.Notifications()})
}

func (h *Handler) closeSession(c *gin.Context) {
	if err := h.sessions.Close(c.Param("sid"), farmerID(c)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Edit session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) beginEdit(c *gin.Context) {
	h.fieldOp(c, func(s *profile.Session, f models.ProfileField) error { return s.BeginEdit(f) })
}

func (h *Handler) cancelEdit(c *gin.Context) {
	h.fieldOp(c, func(s *profile.Session, f models.ProfileField) error { return s.Cancel(f) })
}

func (h *Handler) changeValue(c *gin.Context) {
	var req changeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.fieldOp(c, func(s *profile.Session, f models.ProfileField) error { return s.ChangeValue(f, req.Value) })
}

func (h *Handler) fieldOp(c *gin.Context, op func(*profile.Session, models.ProfileField) error) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := op(session, models.ProfileField(c.Param("field"))); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: c.Param("sid"), State: session.Snapshot(), Notifications: session.Notifications()})
}

func (h *Handler) saveField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	outcome, err := session.Save(c.Request.Context(), models.ProfileField(c.Param("field")))
	if err != nil {
		badRequest(c, err)
		return
	}
	h.writeSave(c, session, outcome)
}

func (h *Handler) imageUploaded(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var result profile.UploadResult
	if err := c.ShouldBindJSON(&result); err != nil {
		badRequest(c, err)
		return
	}
	outcome, err := session.OnImageUploaded(c.Request.Context(), result)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.writeSave(c, session, outcome)
}

func (h *Handler) writeSave(c *gin.Context, session *profile.Session, outcome profile.SaveOutcome) {
	c.JSON(http.StatusOK, saveResponse{
		Outcome:       outcome.String(),
		State:         session.Snapshot(),
		Notifications: session.Notifications(),
	})
}

func badRequest(c *gin.Context, err error) {
	msg := "Invalid request"
	switch {
	case errors.Is(err, profile.ErrUnknownField):
		msg = "Unknown field"
	case errors.Is(err, profile.ErrUnknownRegion):
		msg = "Unknown region"
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		util.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
