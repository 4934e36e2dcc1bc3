//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed web/demo
var webDemo embed.FS

// setupStaticFiles serves the demo page from the binary
func setupStaticFiles(router *gin.Engine, _ string) {
	log.Info().Msg("Using embedded demo assets")

	demoFS, err := fs.Sub(webDemo, "web/demo")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get demo subdirectory")
	}

	router.StaticFS("/static", http.FS(demoFS))
	router.NoRoute(notFound)
}
