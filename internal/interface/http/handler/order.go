package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/booky/internal/application/order"
	"github.com/xiebiao/booky/internal/interface/http/dto"
	"github.com/xiebiao/booky/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/booky/pkg/errors"
	"github.com/xiebiao/booky/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	checkoutUseCase *apporder.CheckoutUseCase
	myOrdersUseCase *apporder.MyOrdersUseCase
	getOrderUseCase *apporder.GetOrderUseCase
	cancelUseCase   *apporder.CancelOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	checkoutUseCase *apporder.CheckoutUseCase,
	myOrdersUseCase *apporder.MyOrdersUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		checkoutUseCase: checkoutUseCase,
		myOrdersUseCase: myOrdersUseCase,
		getOrderUseCase: getOrderUseCase,
		cancelUseCase:   cancelUseCase,
	}
}

// Checkout 结算
// @Summary      购物车结算
// @Description  支付校验→锁库存→创建订单→扣减→清空购物车,单事务完成
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "支付方式"
// @Success      200 {object} response.Response "下单成功"
// @Failure      400 {object} response.Response "支付校验失败/购物车为空/库存不足"
// @Router       /api/v1/orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.checkoutUseCase.Execute(c.Request.Context(), apporder.CheckoutRequest{
		UserID:        middleware.MustGetUserID(c),
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		CardExpiry:    req.ExpiryMMYY,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Mine 我的订单列表
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/orders/mine [get]
func (h *OrderHandler) Mine(c *gin.Context) {
	var query dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.myOrdersUseCase.Execute(c.Request.Context(), apporder.MyOrdersRequest{
		UserID:   middleware.MustGetUserID(c),
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.Orders, result.Total, query.Page, query.PageSize)
}

// Get 订单详情
// @Summary      订单详情
// @Description  只能查看自己的订单,明细为下单时刻的快照
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "查询成功"
// @Failure      403 {object} response.Response "无权查看他人订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单ID格式错误")
		return
	}

	result, err := h.getOrderUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), uint(orderID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Cancel 取消订单
// @Summary      取消订单
// @Description  取消与库存回补在同一事务内完成
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "取消成功"
// @Failure      400 {object} response.Response "订单状态不允许取消"
// @Failure      403 {object} response.Response "无权操作他人订单"
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单ID格式错误")
		return
	}

	if err := h.cancelUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), uint(orderID)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
