package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 49999: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY    = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS  = 40001 // 400 - 無效的請求參數
	BAD_REQUEST_HEADERS = 40002 // 400 - 無效的請求標頭
	BAD_COMMAND_ARGS    = 40003 // 400 - command 參數錯誤

	// 40100 ~ 40399: 驗證與權限錯誤 (401 403 系列)
	UNAUTHORIZED = 40100 // 401 - 未帶使用者身分
	FORBIDDEN    = 40301 // 403 - 禁止訪問

	// 40400 ~ 40499: 資源錯誤 (404 系列)
	NOT_FOUND = 40400 // 404 - 資源未找到

	// 40900 ~ 40999: 狀態衝突 (409 系列)
	BINDING_CONFLICT = 40900 // 409 - 互助會員已在其他帳號綁定且已認證

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR      = 50000 // 500 - 內部錯誤
	DATABASE_ERROR      = 50001 // 500 - 資料庫錯誤
	SERVICE_UNAVAILABLE = 50002 // 503 - 服務暫停 (維護模式)
	STORE_ERROR         = 50003 // 500 - Postgres / Redis 存取失敗

	// 50200 ~ 50499: 外部請求錯誤 (502 504 系列)
	EXTERNAL_REQUEST_ERROR = 50200 // 502 - 對端服務錯誤
	GATEWAY_TIMEOUT        = 50400 // 504 - 外部 API 超時
	DISPATCH_TIMEOUT       = 50402 // 504 - 等不到 processor 回覆，結果未知
)
