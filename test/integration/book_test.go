package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookCatalog 测试图书目录查询
func TestBookCatalog(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)

	t.Run("ISBN精确查询", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《目录测试甲》", 5900, 10, 2)

		resp := GetJSON(t, BaseURL+"/books?isbn="+isbn, "")
		require.Equal(t, 0, resp.Code, "查询失败: %s", resp.Message)

		var page struct {
			List []struct {
				ISBN      string `json:"isbn"`
				Title     string `json:"title"`
				PriceYuan string `json:"price_yuan"`
				Stock     int    `json:"stock"`
			} `json:"list"`
			Total int64 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		require.Equal(t, int64(1), page.Total, "ISBN精确匹配应该只有1条")
		assert.Equal(t, "《目录测试甲》", page.List[0].Title)
		assert.Equal(t, "59.00", page.List[0].PriceYuan, "价格以元字符串返回")
		assert.Equal(t, 10, page.List[0].Stock)
	})

	t.Run("书名模糊查询", func(t *testing.T) {
		marker := GenerateTestUsername("vol")
		AddTestBook(t, adminToken, "《"+marker+"上卷》", 5900, 5, 1)
		AddTestBook(t, adminToken, "《"+marker+"下卷》", 5900, 5, 1)

		resp := GetJSON(t, BaseURL+"/books?title="+marker, "")
		require.Equal(t, 0, resp.Code)

		var page struct {
			Total int64 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.Equal(t, int64(2), page.Total, "模糊匹配应该命中上下两卷")
	})

	t.Run("分页上限50", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?page_size=500", "")
		require.Equal(t, 0, resp.Code)

		var page struct {
			PageSize int `json:"page_size"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.LessOrEqual(t, page.PageSize, 50, "每页数量应该被钳制到50")
	})

	t.Run("每页为0按默认值处理", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?page_size=0", "")
		require.Equal(t, 0, resp.Code, "page_size=0不应该导致服务端错误")

		var page struct {
			PageSize int `json:"page_size"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.Equal(t, 20, page.PageSize)
	})

	t.Run("图书详情含出版社联系方式", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《详情测试》", 8800, 7, 2)

		resp := GetJSON(t, BaseURL+"/books/"+isbn, "")
		require.Equal(t, 0, resp.Code)

		var detail BookDetailData
		require.NoError(t, json.Unmarshal(resp.Data, &detail))
		assert.Equal(t, isbn, detail.ISBN)
		assert.Equal(t, 7, detail.Stock)
		assert.Equal(t, 2, detail.Threshold)
	})

	t.Run("不存在的ISBN返回404错误码", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/9780000000000", "")
		assert.NotEqual(t, 0, resp.Code, "不存在的图书应该返回错误")
	})
}

// TestBookAdmin 测试管理端图书维护
func TestBookAdmin(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)

	t.Run("重复ISBN上架被拒绝", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《原版》", 5900, 5, 1)

		resp := PostJSON(t, BaseURL+"/admin/books", map[string]interface{}{
			"isbn":             isbn,
			"title":            "《盗版》",
			"publication_year": 2024,
			"price":            100,
			"category_id":      seedCategoryID,
			"publisher_id":     seedPublisherID,
			"stock":            1,
			"threshold":        0,
			"authors":          []string{"某人"},
		}, adminToken)
		assert.NotEqual(t, 0, resp.Code, "重复ISBN应该被拒绝")
	})

	t.Run("部分更新不动库存", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《改价测试》", 5900, 9, 2)

		resp := PatchJSON(t, BaseURL+"/admin/books/"+isbn, map[string]interface{}{
			"price": 6900,
		}, adminToken)
		require.Equal(t, 0, resp.Code, "更新失败: %s", resp.Message)

		assert.Equal(t, 9, GetBookStock(t, isbn), "改价不应该影响库存")
	})

	t.Run("设置库存绝对值", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《盘点测试》", 5900, 3, 1)

		resp := doJSON(t, "PUT", BaseURL+"/admin/books/"+isbn+"/stock",
			map[string]interface{}{"stock": 42}, adminToken)
		require.Equal(t, 0, resp.Code, "设置库存失败: %s", resp.Message)

		assert.Equal(t, 42, GetBookStock(t, isbn))
	})

	t.Run("负库存被拒绝", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《负库存测试》", 5900, 3, 1)

		resp := doJSON(t, "PUT", BaseURL+"/admin/books/"+isbn+"/stock",
			map[string]interface{}{"stock": -1}, adminToken)
		assert.NotEqual(t, 0, resp.Code, "负库存应该被拒绝")
		assert.Equal(t, 3, GetBookStock(t, isbn), "库存应该保持不变")
	})
}

// TestCart 测试购物车
func TestCart(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)

	t.Run("加购累加与库存提示", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《购物车测试》", 5900, 5, 1)
		_, token := RegisterTestUser(t, "cart_user")

		require.Equal(t, 0, AddToCart(t, token, isbn, 2).Code)
		require.Equal(t, 0, AddToCart(t, token, isbn, 2).Code, "同一本书再次加购应该累加")

		cartResp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, cartResp.Code)

		var cart CartData
		require.NoError(t, json.Unmarshal(cartResp.Data, &cart))
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 4, cart.Lines[0].Qty, "数量应该累加为4")

		// 再加2本就超库存了（4+2>5）
		over := AddToCart(t, token, isbn, 2)
		assert.NotEqual(t, 0, over.Code, "超出库存的加购应该被拒绝")
		assert.Contains(t, over.Message, "库存", "错误信息应该提示库存")
	})

	t.Run("修改数量与删除", func(t *testing.T) {
		isbn := AddTestBook(t, adminToken, "《改量测试》", 5900, 10, 1)
		_, token := RegisterTestUser(t, "cart_editor")

		require.Equal(t, 0, AddToCart(t, token, isbn, 1).Code)

		updateResp := PatchJSON(t, BaseURL+"/cart/items/"+isbn,
			map[string]interface{}{"qty": 5}, token)
		require.Equal(t, 0, updateResp.Code, "修改数量失败: %s", updateResp.Message)

		cartResp := GetJSON(t, BaseURL+"/cart", token)
		var cart CartData
		require.NoError(t, json.Unmarshal(cartResp.Data, &cart))
		assert.Equal(t, 5, cart.Lines[0].Qty, "数量是绝对值不是增量")

		removeResp := DeleteJSON(t, BaseURL+"/cart/items/"+isbn, token)
		require.Equal(t, 0, removeResp.Code)

		// 删除不存在的明细也是成功（幂等）
		again := DeleteJSON(t, BaseURL+"/cart/items/"+isbn, token)
		assert.Equal(t, 0, again.Code, "删除应该幂等")
	})

	t.Run("清空购物车幂等", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_cleaner")

		resp := DeleteJSON(t, BaseURL+"/cart", token)
		assert.Equal(t, 0, resp.Code, "清空空购物车也应该成功")
	})
}

// TestReports 测试报表接口可用性
// 数值依赖历史数据，这里只验证接口契约
func TestReports(t *testing.T) {
	RequireServer(t)
	adminToken := AdminToken(t)

	endpoints := []string{
		"/admin/reports/monthly-sales",
		"/admin/reports/top-customers",
		"/admin/reports/top-books",
		"/admin/reports/replenishments",
	}

	for _, ep := range endpoints {
		t.Run(ep, func(t *testing.T) {
			resp := GetJSON(t, BaseURL+ep, adminToken)
			assert.Equal(t, 0, resp.Code, "%s 查询失败: %s", ep, resp.Message)
		})
	}

	t.Run("months参数钳制", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/admin/reports/monthly-sales?months=%d", BaseURL, 999), adminToken)
		assert.Equal(t, 0, resp.Code, "超大months应该被钳制而不是报错")
	})
}
