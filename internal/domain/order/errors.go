package order

import (
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrNotOrderOwner 不是订单所有者
	ErrNotOrderOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作他人订单")
)
