package dto

// ListBooksQuery 目录查询参数
// 说明:价格在请求中以"分"为单位传递,响应中格式化为"元"字符串
type ListBooksQuery struct {
	ISBN       string `form:"isbn"`
	Title      string `form:"title"`
	Author     string `form:"author"`
	Publisher  string `form:"publisher"`
	CategoryID uint   `form:"category_id"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// AddBookRequest 新增图书请求(管理端)
type AddBookRequest struct {
	ISBN            string   `json:"isbn" binding:"required,min=10,max=20" example:"9787111111111"`
	Title           string   `json:"title" binding:"required,max=200" example:"Go程序设计"`
	PublicationYear int      `json:"publication_year" binding:"required" example:"2024"`
	Price           int64    `json:"price" binding:"required,min=0" example:"5900"`
	CategoryID      uint     `json:"category_id" binding:"required" example:"1"`
	PublisherID     uint     `json:"publisher_id" binding:"required" example:"1"`
	Stock           int      `json:"stock" binding:"min=0" example:"100"`
	Threshold       int      `json:"threshold" binding:"min=0" example:"10"`
	Authors         []string `json:"authors" binding:"required,min=1"`
}

// UpdateBookRequest 更新图书请求(管理端,缺省字段不更新)
type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitempty,max=200"`
	PublicationYear *int    `json:"publication_year"`
	Price           *int64  `json:"price" binding:"omitempty,min=0"`
	CategoryID      *uint   `json:"category_id"`
	PublisherID     *uint   `json:"publisher_id"`
	Threshold       *int    `json:"threshold" binding:"omitempty,min=0"`
}

// UpdateStockRequest 设置库存请求(管理端)
type UpdateStockRequest struct {
	Stock int `json:"stock" binding:"min=0" example:"50"`
}
