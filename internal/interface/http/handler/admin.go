package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/booky/internal/application/book"
	apprepl "github.com/xiebiao/booky/internal/application/replenishment"
	"github.com/xiebiao/booky/internal/interface/http/dto"
	apperrors "github.com/xiebiao/booky/pkg/errors"
	"github.com/xiebiao/booky/pkg/response"
)

// AdminHandler 管理端HTTP处理器
// 路由层已挂RequireRole("ADMIN"),这里不再做权限判断
type AdminHandler struct {
	addBookUseCase     *appbook.AddBookUseCase
	updateBookUseCase  *appbook.UpdateBookUseCase
	updateStockUseCase *appbook.UpdateStockUseCase
	listReplUseCase    *apprepl.ListReplenishmentsUseCase
	confirmReplUseCase *apprepl.ConfirmReplenishmentUseCase
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(
	addBookUseCase *appbook.AddBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	updateStockUseCase *appbook.UpdateStockUseCase,
	listReplUseCase *apprepl.ListReplenishmentsUseCase,
	confirmReplUseCase *apprepl.ConfirmReplenishmentUseCase,
) *AdminHandler {
	return &AdminHandler{
		addBookUseCase:     addBookUseCase,
		updateBookUseCase:  updateBookUseCase,
		updateStockUseCase: updateStockUseCase,
		listReplUseCase:    listReplUseCase,
		confirmReplUseCase: confirmReplUseCase,
	}
}

// AddBook 新增图书
// @Summary      新增图书
// @Tags         管理端
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddBookRequest true "图书信息(价格单位:分)"
// @Success      200 {object} response.Response "创建成功"
// @Failure      400 {object} response.Response "参数错误或ISBN已存在"
// @Router       /api/v1/admin/books [post]
func (h *AdminHandler) AddBook(c *gin.Context) {
	var req dto.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	err := h.addBookUseCase.Execute(c.Request.Context(), appbook.AddBookRequest{
		ISBN:            req.ISBN,
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		PublisherID:     req.PublisherID,
		Stock:           req.Stock,
		Threshold:       req.Threshold,
		Authors:         req.Authors,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  部分更新,缺省字段保持不变;库存不走此接口
// @Tags         管理端
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path string true "ISBN号"
// @Param        request body dto.UpdateBookRequest true "更新字段"
// @Success      200 {object} response.Response "更新成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/admin/books/{isbn} [patch]
func (h *AdminHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ISBN:            c.Param("isbn"),
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		PublisherID:     req.PublisherID,
		Threshold:       req.Threshold,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// UpdateStock 设置库存
// @Summary      设置库存绝对值
// @Description  负数被拒绝;结算/补货的增量变更不走此接口
// @Tags         管理端
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path string true "ISBN号"
// @Param        request body dto.UpdateStockRequest true "库存数量"
// @Success      200 {object} response.Response "设置成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/admin/books/{isbn}/stock [put]
func (h *AdminHandler) UpdateStock(c *gin.Context) {
	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	if err := h.updateStockUseCase.Execute(c.Request.Context(), c.Param("isbn"), req.Stock); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ListReplenishments 补货单列表
// @Summary      补货单列表
// @Tags         管理端
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "状态过滤(Pending/Confirmed)"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/admin/replenishments [get]
func (h *AdminHandler) ListReplenishments(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "页码格式错误")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "每页数量格式错误")
		return
	}

	result, err := h.listReplUseCase.Execute(c.Request.Context(), apprepl.ListRequest{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.Replenishments, result.Total, page, pageSize)
}

// ConfirmReplenishment 确认补货到货
// @Summary      确认补货到货
// @Description  状态改为Confirmed,补货数量加回库存(单事务)
// @Tags         管理端
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "补货单ID"
// @Success      200 {object} response.Response "确认成功"
// @Failure      400 {object} response.Response "补货单已确认"
// @Failure      404 {object} response.Response "补货单不存在"
// @Router       /api/v1/admin/replenishments/{id}/confirm [post]
func (h *AdminHandler) ConfirmReplenishment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "补货单ID格式错误")
		return
	}

	if err := h.confirmReplUseCase.Execute(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
