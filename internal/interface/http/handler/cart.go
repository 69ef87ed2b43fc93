package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/booky/internal/application/cart"
	"github.com/xiebiao/booky/internal/interface/http/dto"
	"github.com/xiebiao/booky/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/booky/pkg/errors"
	"github.com/xiebiao/booky/pkg/response"
)

// CartHandler 购物车HTTP处理器(全部接口要求登录)
type CartHandler struct {
	addUseCase    *appcart.AddItemUseCase
	updateUseCase *appcart.UpdateItemUseCase
	removeUseCase *appcart.RemoveItemUseCase
	clearUseCase  *appcart.ClearCartUseCase
	getUseCase    *appcart.GetCartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	addUseCase *appcart.AddItemUseCase,
	updateUseCase *appcart.UpdateItemUseCase,
	removeUseCase *appcart.RemoveItemUseCase,
	clearUseCase *appcart.ClearCartUseCase,
	getUseCase *appcart.GetCartUseCase,
) *CartHandler {
	return &CartHandler{
		addUseCase:    addUseCase,
		updateUseCase: updateUseCase,
		removeUseCase: removeUseCase,
		clearUseCase:  clearUseCase,
		getUseCase:    getUseCase,
	}
}

// Get 查询购物车
// @Summary      查询购物车
// @Description  明细JOIN图书实时价格/库存,库存仅供提示
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.getUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddItem 加购
// @Summary      添加商品到购物车
// @Description  已在购物车中的书累加数量;超出库存时提示当前库存与已有数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "商品与数量"
// @Success      200 {object} response.Response "添加成功"
// @Failure      400 {object} response.Response "库存不足或图书不存在"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	err := h.addUseCase.Execute(c.Request.Context(), appcart.AddItemRequest{
		UserID: middleware.MustGetUserID(c),
		ISBN:   req.ISBN,
		Qty:    req.Qty,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// UpdateItem 修改数量
// @Summary      修改购物车商品数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path string true "ISBN号"
// @Param        request body dto.UpdateCartItemRequest true "新数量(绝对值)"
// @Success      200 {object} response.Response "修改成功"
// @Failure      400 {object} response.Response "库存不足"
// @Router       /api/v1/cart/items/{isbn} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	err := h.updateUseCase.Execute(c.Request.Context(), appcart.UpdateItemRequest{
		UserID: middleware.MustGetUserID(c),
		ISBN:   c.Param("isbn"),
		Qty:    req.Qty,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveItem 删除单条明细
// @Summary      从购物车删除商品
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path string true "ISBN号"
// @Success      200 {object} response.Response "删除成功"
// @Router       /api/v1/cart/items/{isbn} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	err := h.removeUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Clear 清空购物车
// @Summary      清空购物车
// @Description  幂等操作,空购物车清空也成功
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "清空成功"
// @Router       /api/v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	err := h.clearUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
