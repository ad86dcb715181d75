package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
)

// Recover 捕捉 handler panic，回 500 並把堆疊印到 stderr。
// http.ErrAbortHandler 依標準庫慣例重新拋出（代表連線已不可用）。
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			fmt.Fprintf(os.Stderr, "panic: %v [reqid=%s]\n%s", rec, ReqID(r), debug.Stack())
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
