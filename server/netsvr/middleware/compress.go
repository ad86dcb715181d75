package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// 回應壓縮：偏好 zstd，退回 gzip，兩者皆無則透傳。
// encoder 以 sync.Pool 重用；204/304/1xx 動態停用壓縮（避免寫出壓縮 footer）。

// encoder 是 gzip.Writer 與 zstd.Encoder 的共同子集。
type encoder interface {
	io.Writer
	Flush() error
	Close() error
	Reset(w io.Writer)
}

var encoderPools = map[string]*sync.Pool{
	"gzip": {New: func() any {
		gw, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return gw
	}},
	"zstd": {New: func() any {
		zw, err := zstd.NewWriter(io.Discard,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}},
}

// pickScheme 依 Accept-Encoding 選擇壓縮方案；沒有可用方案回空字串。
func pickScheme(acceptEncoding string) string {
	if strings.Contains(acceptEncoding, "zstd") {
		return "zstd"
	}
	if strings.Contains(acceptEncoding, "gzip") {
		return "gzip"
	}
	return ""
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

func isNoBodyStatus(code int) bool {
	// 204 No Content, 304 Not Modified, 1xx Informational
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

// ------------------------------------------------------------
// ResponseWriter wrapper
// ------------------------------------------------------------

type compressWriter struct {
	http.ResponseWriter
	enc      encoder
	disabled bool // 204/304/1xx 動態停用
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}

	// 壓縮後長度未知；Content-Type 在首次寫入時嗅探
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if isNoBodyStatus(code) {
		cw.disabled = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Flush() {
	if !cw.disabled {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := cw.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, errors.New("underlying response writer does not support Hijacker")
}

func (cw *compressWriter) Push(target string, opts *http.PushOptions) error {
	if p, ok := cw.ResponseWriter.(http.Pusher); ok {
		return p.Push(target, opts)
	}
	return errors.New("underlying response writer does not support Pusher")
}

// ------------------------------------------------------------
// middleware 入口
// ------------------------------------------------------------

func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// websocket / HEAD / 已被上游壓縮 → 透傳
		if r.Method == http.MethodHead || isWebSocketUpgrade(r) ||
			w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}

		scheme := pickScheme(r.Header.Get("Accept-Encoding"))
		if scheme == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", scheme)
		w.Header().Add("Vary", "Accept-Encoding")

		pool := encoderPools[scheme]
		enc := pool.Get().(encoder)
		enc.Reset(w)

		cw := &compressWriter{ResponseWriter: w, enc: enc}
		defer func() {
			// 停用時把 encoder 重導到 io.Discard，Close 產生的 footer 不會污染回應
			if cw.disabled {
				enc.Reset(io.Discard)
			}
			_ = enc.Close()
			pool.Put(enc)
		}()

		next.ServeHTTP(cw, r)
	})
}
