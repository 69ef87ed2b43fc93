package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"Pending到Confirmed", StatusPending, StatusConfirmed, true},
		{"Pending到Cancelled", StatusPending, StatusCancelled, true},
		{"Confirmed到Cancelled", StatusConfirmed, StatusCancelled, true},
		{"Confirmed到Pending", StatusConfirmed, StatusPending, false},
		{"Cancelled是终态", StatusCancelled, StatusConfirmed, false},
		{"Cancelled不可回到Pending", StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.from}
			err := o.TransitionTo(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
				assert.Equal(t, tt.from, o.Status, "失败的转换不应改变状态")
			}
		})
	}
}

func TestOrderConfirm(t *testing.T) {
	o := NewOrder("ORD123", 1, "4242", []Item{
		{ISBN: "9787111111111", TitleSnapshot: "Go程序设计", PriceSnapshot: 5900, Qty: 2},
		{ISBN: "9787222222222", TitleSnapshot: "数据库系统", PriceSnapshot: 8800, Qty: 1},
	})

	total := o.CalculateTotal()
	assert.Equal(t, int64(5900*2+8800), total)

	err := o.Confirm(total)
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, total, o.Total)

	// 已确认的订单不能再次确认
	err = o.Confirm(total)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestOrderCancel(t *testing.T) {
	o := NewOrder("ORD456", 1, PaymentCOD, nil)
	assert.NoError(t, o.Confirm(0))
	assert.NoError(t, o.Cancel())
	assert.Equal(t, StatusCancelled, o.Status)

	// 取消是终态
	assert.Error(t, o.Cancel())
}

func TestOrderIsOwnedBy(t *testing.T) {
	o := NewOrder("ORD789", 42, "1234", nil)
	assert.True(t, o.IsOwnedBy(42))
	assert.False(t, o.IsOwnedBy(43))
}

func TestCalculateTotalEmptyItems(t *testing.T) {
	o := NewOrder("ORD000", 1, "4242", nil)
	assert.Equal(t, int64(0), o.CalculateTotal())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.String())
	assert.Equal(t, "Confirmed", StatusConfirmed.String())
	assert.Equal(t, "Cancelled", StatusCancelled.String())
	assert.Equal(t, "Unknown", Status(99).String())
}

func TestGenerateOrderNo(t *testing.T) {
	no1 := GenerateOrderNo()
	no2 := GenerateOrderNo()

	assert.True(t, strings.HasPrefix(no1, "ORD"))
	// ORD + 10位秒级时间戳 + 6位随机数
	assert.Len(t, no1, 19)
	assert.NotEqual(t, no1, no2, "连续生成的订单号应不同")
}
