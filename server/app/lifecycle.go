package app

import "context"

// Component 抽象任何「可啟動 / 可關閉」的長生命週期元件。
// Run() 必須阻塞直到元件停止（正常或錯誤）；
// Shutdown(ctx) 要求優雅關閉，實作方應尊重 ctx 的 deadline/cancel。
// 典型實例：HTTP server、draw runtime、背景 worker。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
