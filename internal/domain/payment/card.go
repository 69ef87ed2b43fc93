package payment

import (
	"regexp"
	"strings"
	"time"
)

// Method 支付方式
type Method string

const (
	// MethodCard 银行卡支付（需要校验卡号与有效期）
	MethodCard Method = "CARD"
	// MethodCOD 货到付款（Cash On Delivery，跳过卡校验）
	MethodCOD Method = "COD"
)

// Valid 判断支付方式是否合法
func (m Method) Valid() bool {
	return m == MethodCard || m == MethodCOD
}

// Card 卡校验通过的结果
// Last4用于展示与订单留痕，完整卡号不落库
type Card struct {
	Last4 string
}

var (
	digitsPattern = regexp.MustCompile(`^\d{12,19}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])\d{2}$`)
)

// ValidateCard 校验银行卡号与有效期
//
// 业务规则：
// - 去除空白后必须是12-19位数字，否则返回ErrCardFormat
// - Luhn校验和必须是10的倍数，否则返回ErrCardNumber
// - 有效期MMYY：月份01-12，且"次月1日"必须严格晚于当前时刻，
//   否则返回ErrCardExpiry（即当月月底前有效）
//
// 纯函数，无任何副作用；支付校验失败时结算流程不得产生任何存储写入
func ValidateCard(cardNumber, expiryMMYY string) (*Card, error) {
	return validateCardAt(cardNumber, expiryMMYY, time.Now())
}

// validateCardAt 以指定时刻校验（便于测试固定时间）
func validateCardAt(cardNumber, expiryMMYY string, now time.Time) (*Card, error) {
	digits := stripSpaces(cardNumber)

	if !digitsPattern.MatchString(digits) {
		return nil, ErrCardFormat
	}

	if !luhnCheck(digits) {
		return nil, ErrCardNumber
	}

	if !validExpiryMMYY(expiryMMYY, now) {
		return nil, ErrCardExpiry
	}

	return &Card{Last4: digits[len(digits)-4:]}, nil
}

// luhnCheck Luhn校验和（从最右位开始，隔位翻倍，和需被10整除）
func luhnCheck(digits string) bool {
	sum := 0
	alt := false
	for i := len(digits) - 1; i >= 0; i-- {
		n := int(digits[i] - '0')
		if alt {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alt = !alt
	}
	return sum%10 == 0
}

// validExpiryMMYY 校验MMYY有效期
// 过期判定基准是"次月1日"：2503表示2025年3月底前有效
func validExpiryMMYY(mmyy string, now time.Time) bool {
	if !expiryPattern.MatchString(mmyy) {
		return false
	}

	mm := int(mmyy[0]-'0')*10 + int(mmyy[1]-'0')
	yy := 2000 + int(mmyy[2]-'0')*10 + int(mmyy[3]-'0')

	// 次月1日（time.Date会自动处理12月→次年1月进位）
	exp := time.Date(yy, time.Month(mm)+1, 1, 0, 0, 0, 0, now.Location())
	return exp.After(now)
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
