// Package swaggerkit serves the OpenAPI document and the Swagger UI that renders it
package swaggerkit

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	phttp "mixtape/internal/platform/net/http"
)

// DocsPath is where the UI lives, the document sits at DocsPath/doc.json
const DocsPath = "/api/docs"

// Mount routes the docs when enabled and nothing otherwise
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	ui := httpSwagger.Handler(
		httpSwagger.URL(DocsPath+"/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	)
	r.Get(DocsPath+"/doc.json", serveDocJSON())
	r.Handle(DocsPath+"/*", ui)
	// the UI resolves its assets relative to the trailing slash
	r.Get(DocsPath, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, DocsPath+"/", http.StatusPermanentRedirect)
	})
}
