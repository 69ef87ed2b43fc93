package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/booky/internal/application/report"
	"github.com/xiebiao/booky/pkg/response"
)

// ReportHandler 报表HTTP处理器(管理端)
type ReportHandler struct {
	reportsUseCase *appreport.ReportsUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reportsUseCase *appreport.ReportsUseCase) *ReportHandler {
	return &ReportHandler{reportsUseCase: reportsUseCase}
}

// MonthlySales 月度销售额
// @Summary      月度销售额报表
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        months query int false "统计月数(默认12,上限24)"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/reports/monthly-sales [get]
func (h *ReportHandler) MonthlySales(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	result, err := h.reportsUseCase.MonthlySales(c.Request.Context(), months)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// TopCustomers 消费排行
// @Summary      顾客消费排行
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "排行数量(默认10,上限50)"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/reports/top-customers [get]
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.reportsUseCase.TopCustomers(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// TopBooks 畅销排行
// @Summary      图书销量排行
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "排行数量(默认10,上限50)"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/reports/top-books [get]
func (h *ReportHandler) TopBooks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.reportsUseCase.TopBooks(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ReplenishmentCounts 补货统计
// @Summary      各图书补货单统计
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/reports/replenishments [get]
func (h *ReportHandler) ReplenishmentCounts(c *gin.Context) {
	result, err := h.reportsUseCase.ReplenishmentCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
