package dto

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ISBN string `json:"isbn" binding:"required" example:"9787111111111"`
	Qty  int    `json:"qty" binding:"required,min=1" example:"1"`
}

// UpdateCartItemRequest 修改购物车数量请求(绝对数量)
type UpdateCartItemRequest struct {
	Qty int `json:"qty" binding:"required,min=1" example:"2"`
}
