//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the embedded preview player
func setupStaticFiles(router *gin.Engine) {
	log.Println("📦 Using embedded preview player assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		log.Fatalf("Failed to get dist subdirectory: %v", err)
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path

		// Unknown API routes stay JSON
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(urlPath), "/")
		if name == "" {
			name = "index.html"
		}

		// Anything that is not a file falls back to the player page
		if stat, err := fs.Stat(distFS, name); err != nil || stat.IsDir() {
			name = "index.html"
		}

		content, err := fs.ReadFile(distFS, name)
		if err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, content)
	})
}
