package replenishment

import (
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// 补货领域错误定义
var (
	// ErrNotFound 补货单不存在
	ErrNotFound = apperrors.New(apperrors.ErrCodeReplenishmentNotFound, "补货单不存在")

	// ErrAlreadyConfirmed 补货单已确认,不能重复确认
	ErrAlreadyConfirmed = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "补货单已确认到货")
)
