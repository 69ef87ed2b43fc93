package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 固定测试时钟：2025-06-15 12:00
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// TestValidateCard_KnownGoodCard 已知有效卡号应通过并返回末4位
func TestValidateCard_KnownGoodCard(t *testing.T) {
	card, err := validateCardAt("4242424242424242", "1227", testNow)
	require.NoError(t, err)
	assert.Equal(t, "4242", card.Last4)
}

// TestValidateCard_StripsWhitespace 卡号中的空白应被去除后再校验
func TestValidateCard_StripsWhitespace(t *testing.T) {
	card, err := validateCardAt("4242 4242 4242 4242", "1227", testNow)
	require.NoError(t, err)
	assert.Equal(t, "4242", card.Last4)
}

// TestValidateCard_Format 非12-19位数字应返回格式错误
func TestValidateCard_Format(t *testing.T) {
	cases := []string{
		"",
		"4242",                 // 太短
		"42424242424242424242", // 20位，太长
		"4242424242424a42",     // 含字母
	}

	for _, num := range cases {
		_, err := validateCardAt(num, "1227", testNow)
		assert.ErrorIs(t, err, ErrCardFormat, "卡号%q应返回格式错误", num)
	}
}

// TestValidateCard_LuhnRejected Luhn校验不通过的12-19位数字应返回卡号无效
func TestValidateCard_LuhnRejected(t *testing.T) {
	// 4242...43 末位+1，校验和必然不再是10的倍数
	_, err := validateCardAt("4242424242424243", "1227", testNow)
	assert.ErrorIs(t, err, ErrCardNumber)

	// 对任意通过Luhn的卡号，修改末位必定失败
	base := "4242424242424242"
	for d := byte('0'); d <= '9'; d++ {
		if d == '2' {
			continue
		}
		mutated := base[:len(base)-1] + string(d)
		_, err := validateCardAt(mutated, "1227", testNow)
		assert.ErrorIs(t, err, ErrCardNumber, "卡号%s应校验失败", mutated)
	}
}

// TestValidateCard_Expiry 有效期边界
func TestValidateCard_Expiry(t *testing.T) {
	cases := []struct {
		name   string
		expiry string
		ok     bool
	}{
		{"过去的年份", "1220", false},
		{"上个月", "0525", false},
		{"当月月底前有效", "0625", true},
		{"未来月份", "0726", true},
		{"12月跨年进位", "1225", true},
		{"非法月份00", "0027", false},
		{"非法月份13", "1327", false},
		{"长度不足", "123", false},
		{"含非数字", "1a27", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateCardAt("4242424242424242", tc.expiry, testNow)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrCardExpiry)
			}
		})
	}
}

// TestLuhnCheck_AppendCheckDigit 穷举校验位：任意数字串补上正确校验位后必须通过
func TestLuhnCheck_AppendCheckDigit(t *testing.T) {
	bases := []string{
		"53926511599",
		"40128888888888",
		"601111111111111",
		"37828224631000",
	}

	for _, base := range bases {
		passed := 0
		for d := 0; d <= 9; d++ {
			if luhnCheck(fmt.Sprintf("%s%d", base, d)) {
				passed++
			}
		}
		// 10个候选校验位中恰好1个能使校验和被10整除
		assert.Equal(t, 1, passed, "前缀%s应恰好有一个合法校验位", base)
	}
}

// TestMethod_Valid 支付方式枚举
func TestMethod_Valid(t *testing.T) {
	assert.True(t, MethodCard.Valid())
	assert.True(t, MethodCOD.Valid())
	assert.False(t, Method("ALIPAY").Valid())
	assert.False(t, Method("").Valid())
}
