package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// pixelFlushInterval is how often batched pixel updates are sent to the client
const pixelFlushInterval = 100 * time.Millisecond

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene        string  `json:"scene"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Samples      int     `json:"spp"`      // 0 keeps the scene's samples per pixel
	MaxDepth     int     `json:"maxDepth"` // 0 keeps the scene's path length
	Workers      int     `json:"workers"`  // 0 uses every logical CPU
	Seed         int64   `json:"seed"`
	TexturePath  string  `json:"texturePath"`
	PreviewScale float64 `json:"previewScale"`
	Live         bool    `json:"live"` // Keep streaming after the first frame for camera changes
}

// SessionInfo is the first event of a render stream
type SessionInfo struct {
	ID             string `json:"id"`
	Scene          string `json:"scene"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Workers        int    `json:"workers"`
	PrimitiveCount int    `json:"primitiveCount"`
}

// PixelBatch carries pixel updates as [x, y, r, g, b] tuples
type PixelBatch struct {
	Generation uint64   `json:"generation"`
	Pixels     [][5]int `json:"pixels"`
}

// FrameUpdate carries a completed render
type FrameUpdate struct {
	Generation uint64 `json:"generation"`
	ImageData  string `json:"imageData"` // Base64 encoded PNG
	Preview    bool   `json:"preview"`
	Stats      Stats  `json:"stats"`
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	MaxDepth         int     `json:"maxDepth"`
	Chunks           int     `json:"chunks"`
	Workers          int     `json:"workers"`
	StaleResults     int     `json:"staleResults"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
}

func newStats(s renderer.RenderStats) Stats {
	return Stats{
		Width:            s.Width,
		Height:           s.Height,
		TotalPixels:      s.TotalPixels,
		TotalSamples:     s.TotalSamples,
		SamplesPerPixel:  s.SamplesPerPixel,
		MaxDepth:         s.MaxDepth,
		Chunks:           s.Chunks,
		Workers:          s.Workers,
		StaleResults:     s.StaleResults,
		ElapsedMs:        s.Elapsed.Milliseconds(),
		SamplesPerSecond: s.SamplesPerSecond(),
		AverageLuminance: s.AverageLuminance,
	}
}

// sseWriter writes Server-Sent Events. Only the handler goroutine writes.
type sseWriter struct {
	response *echo.Response
}

func newSSEWriter(c echo.Context) *sseWriter {
	header := c.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	return &sseWriter{response: c.Response()}
}

// send writes one event; data is JSON encoded unless it is already a string
func (w *sseWriter) send(event string, data interface{}) error {
	payload, ok := data.(string)
	if !ok {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", event, err)
		}
		payload = string(encoded)
	}

	if _, err := fmt.Fprintf(w.response, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	w.response.Flush()
	return nil
}

// handleRender starts a render session and streams its pixels, frames and log lines via SSE.
// Without live=true the stream ends after the first completed frame.
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)

	sess, err := s.newSession(renderID, req, webLogger)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer s.closeSession(sess)

	w := newSSEWriter(c)
	err = w.send("session", SessionInfo{
		ID:             sess.id,
		Scene:          req.Scene,
		Width:          req.Width,
		Height:         req.Height,
		Workers:        sess.renderer.NumWorkers(),
		PrimitiveCount: sess.scene.PrimitiveCount(),
	})
	if err != nil {
		return nil
	}

	if _, err := sess.renderer.Render(); err != nil {
		w.send("error", err.Error())
		return nil
	}

	if err := s.streamSession(c, w, sess, req, consoleChan); err != nil {
		log.Printf("Render stream %s ended: %v", sess.id, err)
	}
	return nil
}

// streamSession forwards renderer output to the client until the client leaves,
// the session is closed, or (without live) the first frame completes
func (s *Server) streamSession(c echo.Context, w *sseWriter, sess *session, req *RenderRequest, consoleChan <-chan ConsoleMessage) error {
	ctx := c.Request().Context()
	ticker := time.NewTicker(pixelFlushInterval)
	defer ticker.Stop()

	batch := PixelBatch{}
	flush := func() error {
		if len(batch.Pixels) == 0 {
			return nil
		}
		err := w.send("pixels", batch)
		batch.Pixels = batch.Pixels[:0]
		return err
	}

	add := func(update renderer.PixelUpdate) error {
		if update.Generation != batch.Generation {
			if err := flush(); err != nil {
				return err
			}
			batch.Generation = update.Generation
		}
		batch.Pixels = append(batch.Pixels, [5]int{update.X, update.Y, int(update.Color.R), int(update.Color.G), int(update.Color.B)})
		return nil
	}

	updates := sess.renderer.Updates()
	frames := sess.renderer.Frames()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return w.send("complete", "Session closed")
			}
			if err := add(update); err != nil {
				return err
			}

		case frame, ok := <-frames:
			if !ok {
				return w.send("complete", "Session closed")
			}
			// Updates of a frame are queued before the frame itself
		drain:
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						break drain
					}
					if err := add(update); err != nil {
						return err
					}
				default:
					break drain
				}
			}
			if err := flush(); err != nil {
				return err
			}
			if err := s.sendFrame(w, sess, frame); err != nil {
				return err
			}
			if !req.Live {
				return w.send("complete", "Rendering completed")
			}

		case msg := <-consoleChan:
			if err := w.send("console", msg); err != nil {
				return err
			}

		case <-ticker.C:
			if err := flush(); err != nil {
				return err
			}

		case <-ctx.Done():
			// Client disconnected
			return nil
		}
	}
}

func (s *Server) sendFrame(w *sseWriter, sess *session, frame renderer.Frame) error {
	imageData, err := imageToBase64PNG(frame.Image)
	if err != nil {
		return fmt.Errorf("failed to encode frame %d: %w", frame.Generation, err)
	}
	return w.send("frame", FrameUpdate{
		Generation: frame.Generation,
		ImageData:  imageData,
		Preview:    sess.preview.Active(),
		Stats:      newStats(frame.Stats),
	})
}

// parseRenderRequest parses and validates query parameters
func parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	query := c.QueryParams()
	config := renderer.DefaultConfig()
	req := &RenderRequest{
		Scene:       query.Get("scene"),
		TexturePath: query.Get("texture"),
		Live:        query.Get("live") == "true",
	}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", config.Width, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", config.Height, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "spp", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 1, maxWorkers); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", int(config.Seed), 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	if req.PreviewScale, err = parseFloatParam(query, "previewScale", renderer.DefaultPreviewConfig().Scale, 0.05, 1); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
