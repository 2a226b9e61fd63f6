//go:build !embed
// +build !embed

package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const devWebDir = "./cmd/server/web/dist"

// setupStaticFiles serves the preview player from disk (development mode)
func setupStaticFiles(router *gin.Engine) {
	log.Println("🔧 Using local filesystem for preview player assets (development mode)")
	log.Printf("   Serving %s", devWebDir)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		name := filepath.Join(devWebDir, filepath.Clean("/"+c.Request.URL.Path))
		if stat, err := os.Stat(name); err != nil || stat.IsDir() {
			name = filepath.Join(devWebDir, "index.html")
		}
		c.File(name)
	})
}
