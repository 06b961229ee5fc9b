package http

import (
	_ "embed"
	"net/http"
)

//go:embed pages/login.html
var loginPage []byte

//go:embed pages/app.html
var appPage []byte

func (h *Handler) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(loginPage)
}

func (h *Handler) handleAppPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(appPage)
}
