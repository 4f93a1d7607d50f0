package api

import (
	"net/http"
	"strconv"

	"vending-console/internal/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard loads the overview figures
func (h *Handler) GetDashboard(c *gin.Context) {
	summary, err := h.Dashboard.Load(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, summary)
}

// GetPurchase returns the purchase screen state
func (h *Handler) GetPurchase(c *gin.Context) {
	response.SuccessJSON(c, h.Purchase.State())
}

// InitPurchase loads the purchase screen
func (h *Handler) InitPurchase(c *gin.Context) {
	if err := h.Purchase.Init(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, h.Purchase.State())
}

type selectMachineRequest struct {
	MachineID int64 `json:"machine_id" binding:"required"`
}

// SelectMachine switches the purchase screen to another machine
func (h *Handler) SelectMachine(c *gin.Context) {
	var req selectMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.Purchase.SelectMachine(c.Request.Context(), req.MachineID); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, h.Purchase.State())
}

type selectUserRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// SelectUser switches the purchasing user
func (h *Handler) SelectUser(c *gin.Context) {
	var req selectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.Purchase.SelectUser(req.UserID); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, h.Purchase.State())
}

type buyRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// Buy purchases one product at the selected machine
func (h *Handler) Buy(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.Purchase.Purchase(c.Request.Context(), req.ProductID); err != nil {
		writeError(c, err)
		return
	}
	response.MessageJSON(c, "购买成功！", h.Purchase.State())
}

// GetStats returns the statistics view, fetching the report on first use
func (h *Handler) GetStats(c *gin.Context) {
	if snap := h.Stats.Snapshot(); snap.Report == nil || c.Query("refresh") == "true" {
		if _, err := h.Stats.Fetch(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
	}
	response.SuccessJSON(c, h.Stats.Snapshot())
}

type periodRequest struct {
	Period string `json:"period" binding:"required"`
}

// SetStatsPeriod selects the statistics period
func (h *Handler) SetStatsPeriod(c *gin.Context) {
	var req periodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if _, err := h.Stats.SetPeriod(c.Request.Context(), req.Period); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, h.Stats.Snapshot())
}

type generateRequest struct {
	Date string `json:"date"`
}

// GenerateStats triggers the daily rollup
func (h *Handler) GenerateStats(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	result, err := h.Stats.Generate(c.Request.Context(), req.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	response.MessageJSON(c, "日结统计生成成功", gin.H{
		"result": result,
		"stats":  h.Stats.Snapshot(),
	})
}

func limitParam(c *gin.Context, def int) int {
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		return n
	}
	return def
}

// ListNotices returns the visible notices, newest first
func (h *Handler) ListNotices(c *gin.Context) {
	notices, err := h.Notices.Recent(c.Request.Context(), limitParam(c, 20))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, notices)
}

// ListOperationLogs returns the persisted operation log
func (h *Handler) ListOperationLogs(c *gin.Context) {
	if h.OperationLogs == nil {
		response.SuccessJSON(c, []any{})
		return
	}
	logs, err := h.OperationLogs.Recent(c.Request.Context(), c.Query("resource"), limitParam(c, 50))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, logs)
}
