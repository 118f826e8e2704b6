package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/application/service"
	"github.com/MadhavDodiya/expense-management/internal/repository"
	"github.com/MadhavDodiya/expense-management/internal/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	expenseService  service.ExpenseService
	approvalService service.ApprovalService
	reportService   service.ReportService
	metrics         *Metrics
	logger          *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	expenseService service.ExpenseService,
	approvalService service.ApprovalService,
	reportService service.ReportService,
	metrics *Metrics,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		expenseService:  expenseService,
		approvalService: approvalService,
		reportService:   reportService,
		metrics:         metrics,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateExpenseRequest is the payload for POST /api/v1/expenses
type CreateExpenseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	ExpenseDate string  `json:"expense_date"`
}

// DecisionRequest is the payload for POST /api/v1/approvals/:expenseID
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comments string `json:"comments"`
}

// ListRequest holds common query parameters for expense listings
type ListRequest struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

func (r ListRequest) filter() port.ExpenseFilter {
	return port.ExpenseFilter{
		Status:   strings.ToUpper(r.Status),
		Category: strings.ToUpper(r.Category),
		Limit:    r.Limit,
		Offset:   r.Offset,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateExpense handles POST /api/v1/expenses
func (h *Handlers) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	var expenseDate time.Time
	if req.ExpenseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpenseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "expense_date must be YYYY-MM-DD"})
			return
		}
		expenseDate = parsed
	}

	expense, err := h.expenseService.Create(c.Request.Context(), actorFrom(c), service.CreateExpenseInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		ExpenseDate: expenseDate,
	})
	if err != nil {
		h.respondError(c, err, "failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: expense})
}

// ListExpenses handles GET /api/v1/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	expenses, err := h.expenseService.List(c.Request.Context(), actorFrom(c), req.filter())
	if err != nil {
		h.respondError(c, err, "failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expenses})
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.respondError(c, err, "failed to get expense")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// Decide handles POST /api/v1/approvals/:expenseID
func (h *Handlers) Decide(c *gin.Context) {
	expenseID, ok := h.pathID(c, "expenseID")
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	decision := strings.ToUpper(req.Decision)
	expense, err := h.approvalService.Decide(c.Request.Context(), actorFrom(c), expenseID, decision, req.Comments)
	if err != nil {
		h.metrics.DecisionsTotal.WithLabelValues(decision, "error").Inc()
		h.respondError(c, err, "failed to record decision")
		return
	}

	h.metrics.DecisionsTotal.WithLabelValues(decision, strings.ToLower(expense.Status)).Inc()
	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// ListPendingApprovals handles GET /api/v1/approvals/pending
func (h *Handlers) ListPendingApprovals(c *gin.Context) {
	queue, err := h.approvalService.ListPending(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err, "failed to list pending approvals")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: queue})
}

// ApprovalHistory handles GET /api/v1/approvals/history
func (h *Handlers) ApprovalHistory(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	history, err := h.approvalService.History(c.Request.Context(), actorFrom(c), req.filter())
	if err != nil {
		h.respondError(c, err, "failed to list approval history")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// ExportExpenseReport handles GET /api/v1/reports/expenses
func (h *Handlers) ExportExpenseReport(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	path, err := h.reportService.GenerateCompanyReport(c.Request.Context(), actorFrom(c), req.filter())
	if err != nil {
		h.respondError(c, err, "failed to generate report")
		return
	}

	c.FileAttachment(path, "expenses.xlsx")
}

func (h *Handlers) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP status codes. Unknown errors
// are logged and hidden behind a generic message.
func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "expense not found"})
	case errors.Is(err, workflow.ErrNoPendingApproval):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, workflow.ErrApproverOutsideCompany):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "access denied"})
	case errors.Is(err, workflow.ErrNotPending), errors.Is(err, repository.ErrVersionConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, workflow.ErrInvalidDecision),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}
