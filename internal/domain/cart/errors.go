package cart

import (
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrEmptyCart 购物车为空(结算时无明细)
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车是空的")

	// ErrInvalidQuantity 数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrItemNotFound 购物车中没有这本书
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeNotFound, "购物车中没有这本书")
)
