//go:build !embed
// +build !embed

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// setupStaticFiles serves the demo page from the local filesystem (development mode)
func setupStaticFiles(router *gin.Engine, dir string) {
	log.Info().Str("dir", dir).Msg("Using local filesystem for demo assets (development mode)")

	router.Static("/static", dir)
	router.NoRoute(notFound)
}
