package payment

import (
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// 支付校验错误定义
// 说明：三种拒绝原因分别对应卡号格式、Luhn校验和、有效期
var (
	// ErrCardFormat 卡号格式错误（非12-19位数字）
	ErrCardFormat = apperrors.New(apperrors.ErrCodePaymentRejected, "支付失败：卡号格式错误")

	// ErrCardNumber 卡号校验和不通过
	ErrCardNumber = apperrors.New(apperrors.ErrCodePaymentRejected, "支付失败：卡号无效")

	// ErrCardExpiry 有效期非法或已过期
	ErrCardExpiry = apperrors.New(apperrors.ErrCodePaymentRejected, "支付失败：有效期无效")

	// ErrInvalidMethod 不支持的支付方式
	ErrInvalidMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的支付方式")
)
