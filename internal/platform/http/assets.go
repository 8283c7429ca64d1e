package http

import (
	"embed"
	"net/http"
)

//go:embed assets/*
var content embed.FS

type handleRouter interface {
	Handle(string, http.Handler)
}

// PublicAssets will register /assets/ and serve all assets in the ./assets folder.
func PublicAssets(r handleRouter) {
	r.Handle(
		"/assets/*",
		http.StripPrefix("/", http.FileServer(http.FS(content))),
	)
}
