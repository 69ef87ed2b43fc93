package dto

// CheckoutRequest 结算请求
// CARD需要卡号与有效期;COD(货到付款)两者留空
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=CARD COD" example:"CARD"`
	CardNumber    string `json:"card_number" example:"4242424242424242"`
	ExpiryMMYY    string `json:"expiry_mmyy" example:"1227"`
}

// ListOrdersQuery 订单列表查询参数
type ListOrdersQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}
