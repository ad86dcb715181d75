package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestID 沿用 chi 的 request id 注入，讓 access log 能關聯單一請求。
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(next)
}

// ReqID 取出當前請求的 request id；沒有注入時回傳空字串。
func ReqID(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}
