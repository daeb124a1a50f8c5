package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
	"github.com/df07/go-tiled-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port)

	log.Printf("Tiled Path Tracer Web Server")
	if info, err := renderer.GetSystemInfo(); err == nil {
		log.Printf("System: %s", info)
	}
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
