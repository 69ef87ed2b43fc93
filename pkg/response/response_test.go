package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewPageDataNormalization 分页参数归一化
// 非法的page/page_size(0、负数、超上限)必须被修正而不是panic
func TestNewPageDataNormalization(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
		wantPages    int
	}{
		{"正常参数", 45, 2, 20, 2, 20, 3},
		{"每页为0取默认值", 10, 1, 0, 1, 20, 1},
		{"每页为负取默认值", 10, 1, -5, 1, 20, 1},
		{"页码为0修正为1", 10, 0, 20, 1, 20, 1},
		{"每页超上限截断为50", 100, 1, 500, 1, 50, 2},
		{"总数为0时总页数为0", 0, 1, 20, 1, 20, 0},
		{"不整除时总页数进位", 41, 1, 20, 1, 20, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := NewPageData(nil, tt.total, tt.page, tt.pageSize)
			assert.Equal(t, tt.total, pd.Total)
			assert.Equal(t, tt.wantPage, pd.Page)
			assert.Equal(t, tt.wantPageSize, pd.PageSize)
			assert.Equal(t, tt.wantPages, pd.TotalPages)
		})
	}
}
