package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/booky/internal/application/book"
	"github.com/xiebiao/booky/internal/interface/http/dto"
	apperrors "github.com/xiebiao/booky/pkg/errors"
	"github.com/xiebiao/booky/pkg/response"
)

// BookHandler 图书HTTP处理器(公开目录接口)
type BookHandler struct {
	listUseCase       *appbook.ListBooksUseCase
	getUseCase        *appbook.GetBookUseCase
	categoriesUseCase *appbook.ListCategoriesUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listUseCase *appbook.ListBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	categoriesUseCase *appbook.ListCategoriesUseCase,
) *BookHandler {
	return &BookHandler{
		listUseCase:       listUseCase,
		getUseCase:        getUseCase,
		categoriesUseCase: categoriesUseCase,
	}
}

// List 目录查询
// @Summary      图书列表
// @Description  支持ISBN/书名/作者/出版社/分类过滤,分页上限50
// @Tags         图书
// @Produce      json
// @Param        isbn query string false "ISBN精确匹配"
// @Param        title query string false "书名模糊匹配"
// @Param        author query string false "作者模糊匹配"
// @Param        publisher query string false "出版社模糊匹配"
// @Param        category_id query int false "分类ID"
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,上限50)"
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var query dto.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		ISBN:       query.ISBN,
		Title:      query.Title,
		Author:     query.Author,
		Publisher:  query.Publisher,
		CategoryID: query.CategoryID,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.Books, result.Total, query.Page, query.PageSize)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN号"
// @Success      200 {object} response.Response "查询成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{isbn} [get]
func (h *BookHandler) Get(c *gin.Context) {
	isbn := c.Param("isbn")

	result, err := h.getUseCase.Execute(c.Request.Context(), isbn)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Categories 分类列表
// @Summary      分类列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response "查询成功"
// @Router       /api/v1/categories [get]
func (h *BookHandler) Categories(c *gin.Context) {
	result, err := h.categoriesUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
