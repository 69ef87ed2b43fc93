package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
//
// 运行前提：
// 1. 服务已在本机8080端口启动（go run ./cmd/api）
// 2. 数据库已有种子数据：至少一条分类(id=1)和一条出版社(id=1)
// 3. 存在管理员账号（默认admin/Admin123456，可用环境变量覆盖）
//
// 前提不满足时测试会Skip而不是Fail，保证`go test ./...`在无环境的机器上也能跑

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second

	// TestCardNumber 通过Luhn校验的测试卡号
	TestCardNumber = "4242424242424242"
	// TestCardExpiry 未过期的测试有效期(MMYY)
	TestCardExpiry = "1239"

	// 种子数据中的分类/出版社ID
	seedCategoryID  = 1
	seedPublisherID = 1
)

// isbnSeq 保证同一测试进程内生成的ISBN不重复
var isbnSeq uint64

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CheckoutData 结算响应数据
type CheckoutData struct {
	OrderID      uint   `json:"order_id"`
	OrderNo      string `json:"order_no"`
	Total        int64  `json:"total"`
	TotalYuan    string `json:"total_yuan"`
	Status       string `json:"status"`
	PaymentLast4 string `json:"payment_last4"`
}

// CartData 购物车响应数据
type CartData struct {
	CartID    uint       `json:"cart_id"`
	Lines     []CartLine `json:"lines"`
	TotalYuan string     `json:"total_yuan"`
}

// CartLine 购物车明细行
type CartLine struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	Stock int    `json:"stock"`
	Qty   int    `json:"qty"`
}

// BookDetailData 图书详情响应数据
type BookDetailData struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// RequireServer 检查服务是否在运行，不在则跳过当前测试
func RequireServer(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://localhost:8080/ping")
	if err != nil {
		t.Skipf("服务未启动，跳过集成测试: %v", err)
	}
	resp.Body.Close()
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, data, token)
}

// PatchJSON 发送PATCH请求并解析JSON响应
func PatchJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodPatch, url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodGet, url, nil, token)
}

func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// GenerateTestUsername 生成唯一的测试用户名（字母数字下划线，3-30位）
func GenerateTestUsername(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()%1000000000)
}

// GenerateTestISBN 生成唯一的测试ISBN（978开头13位）
func GenerateTestISBN() string {
	seq := atomic.AddUint64(&isbnSeq, 1)
	return fmt.Sprintf("978%010d", (uint64(time.Now().UnixNano())+seq)%10000000000)
}

// RegisterTestUser 注册测试用户并返回用户名与AccessToken
func RegisterTestUser(t *testing.T, prefix string) (username string, token string) {
	t.Helper()

	username = GenerateTestUsername(prefix)
	registerReq := map[string]string{
		"username": username,
		"email":    username + "@test.com",
		"password": "Test1234",
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"username": username,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return username, loginData.AccessToken
}

// AdminToken 以管理员身份登录
// 账号通过环境变量BOOKY_TEST_ADMIN_USER/BOOKY_TEST_ADMIN_PASS指定，
// 缺省使用种子数据中的admin账号；登录失败则跳过测试
func AdminToken(t *testing.T) string {
	t.Helper()

	adminUser := os.Getenv("BOOKY_TEST_ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("BOOKY_TEST_ADMIN_PASS")
	if adminPass == "" {
		adminPass = "Admin123456"
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"username": adminUser,
		"password": adminPass,
	}, "")
	if loginResp.Code != 0 {
		t.Skipf("管理员登录失败，跳过: %s", loginResp.Message)
	}

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")
	require.Equal(t, "ADMIN", loginData.Role, "测试账号不是管理员")

	return loginData.AccessToken
}

// AddTestBook 上架测试图书并返回ISBN
func AddTestBook(t *testing.T, adminToken, title string, priceFen int64, stock, threshold int) string {
	t.Helper()

	isbn := GenerateTestISBN()
	bookReq := map[string]interface{}{
		"isbn":             isbn,
		"title":            title,
		"publication_year": 2024,
		"price":            priceFen,
		"category_id":      seedCategoryID,
		"publisher_id":     seedPublisherID,
		"stock":            stock,
		"threshold":        threshold,
		"authors":          []string{"测试作者"},
	}

	resp := PostJSON(t, BaseURL+"/admin/books", bookReq, adminToken)
	require.Equal(t, 0, resp.Code, "图书上架失败: %s", resp.Message)

	return isbn
}

// AddToCart 加购
func AddToCart(t *testing.T, token, isbn string, qty int) *Response {
	t.Helper()

	return PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"isbn": isbn,
		"qty":  qty,
	}, token)
}

// GetBookStock 查询图书当前库存
func GetBookStock(t *testing.T, isbn string) int {
	t.Helper()

	resp := GetJSON(t, BaseURL+"/books/"+isbn, "")
	require.Equal(t, 0, resp.Code, "查询图书失败: %s", resp.Message)

	var detail BookDetailData
	err := json.Unmarshal(resp.Data, &detail)
	require.NoError(t, err, "解析图书详情失败")

	return detail.Stock
}
