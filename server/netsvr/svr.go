package netsvr

import (
	"net/http"

	"github.com/zintix-labs/unirange/server/app"
)

// NetSvr 是「路由 + 啟停」的完整伺服器抽象，只給最外層組裝器（server.Run/main）持有。
// 內層模組一律面向 NetRouter，拿不到 Run/Shutdown。
// NetSvr 同時滿足 app.Component，可直接交給 app.App 管生命週期。
// 實作需相容 net/http 的 handler 形態；fasthttp/fiber 這類自帶協議的框架不在支援範圍。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 只描述路由行為。Group 回呼也只會拿到 NetRouter，
// 所以 handler / 子模組註冊路由時無法誤觸 server 啟停。
type NetRouter interface {
	// middleware
	Use(middleware func(http.Handler) http.Handler)

	// 註冊路由
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	// 群組路由
	Group(path string, fn func(NetRouter))
}
