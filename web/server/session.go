package server

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// session is one live render: a renderer, its preview controller and the scene it shows.
// It lives as long as the SSE stream that created it.
type session struct {
	id       string
	scene    *scene.Scene
	renderer *renderer.Renderer
	preview  *renderer.Preview
}

// newSession builds the requested scene and starts a renderer for it
func (s *Server) newSession(id string, req *RenderRequest, logger core.Logger) (*session, error) {
	sceneObj, err := scene.Build(req.Scene, scene.Options{TexturePath: req.TexturePath, Seed: req.Seed})
	if err != nil {
		return nil, err
	}

	settings := scene.Settings{}
	if req.Samples != 0 {
		settings.SamplesPerPixel = &req.Samples
	}
	if req.MaxDepth != 0 {
		settings.MaxDepth = &req.MaxDepth
	}
	sceneObj.Camera = settings.Apply(sceneObj.Camera)

	config := renderer.Config{
		Width:           req.Width,
		Height:          req.Height,
		Workers:         req.Workers,
		ChunksPerWorker: renderer.DefaultConfig().ChunksPerWorker,
		Seed:            req.Seed,
	}
	r, err := renderer.NewRenderer(config, logger)
	if err != nil {
		return nil, err
	}
	if err := r.SetScene(sceneObj); err != nil {
		r.Close()
		return nil, err
	}

	previewConfig := renderer.DefaultPreviewConfig()
	if req.PreviewScale > 0 {
		previewConfig.Scale = req.PreviewScale
	}

	sess := &session{
		id:       id,
		scene:    sceneObj,
		renderer: r,
		preview:  renderer.NewPreview(r, previewConfig),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess, nil
}

// closeSession stops a session's renderer and forgets it
func (s *Server) closeSession(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	sess.preview.Stop()
	sess.renderer.Close()
}

func (s *Server) lookupSession(c echo.Context) (*session, error) {
	id := c.Param("id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown session: "+id)
	}
	return sess, nil
}

// CameraResponse reports the render started by a camera change
type CameraResponse struct {
	Generation uint64             `json:"generation"`
	Preview    bool               `json:"preview"`
	Camera     scene.CameraParams `json:"camera"`
}

func (s *Server) cameraResponse(c echo.Context, sess *session, generation uint64) error {
	params, err := sess.renderer.Params()
	if err != nil {
		return echo.NewHTTPError(http.StatusGone, err.Error())
	}
	return c.JSON(http.StatusOK, CameraResponse{
		Generation: generation,
		Preview:    sess.preview.Active(),
		Camera:     params,
	})
}

// handleCameraUpdate applies partial camera settings at preview quality.
// Full quality is restored once updates stop arriving.
func (s *Server) handleCameraUpdate(c echo.Context) error {
	sess, err := s.lookupSession(c)
	if err != nil {
		return err
	}

	var settings scene.Settings
	if err := c.Bind(&settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid settings: "+err.Error())
	}
	if settings.IsEmpty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no settings given")
	}

	generation, err := sess.preview.Adjust(settings)
	if err != nil {
		return sessionError(err)
	}
	return s.cameraResponse(c, sess, generation)
}

// MoveRequest moves the camera along a world axis
type MoveRequest struct {
	Axis  string  `json:"axis"`
	Delta float64 `json:"delta"`
}

// handleMoveCamera moves look-from and look-at together at preview quality
func (s *Server) handleMoveCamera(c echo.Context) error {
	sess, err := s.lookupSession(c)
	if err != nil {
		return err
	}

	var req MoveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid move: "+err.Error())
	}
	axis, err := renderer.ParseAxis(req.Axis)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	generation, err := sess.preview.MoveCamera(axis, req.Delta)
	if err != nil {
		return sessionError(err)
	}
	return s.cameraResponse(c, sess, generation)
}

// handleSessionImage returns the session's framebuffer as it is now
func (s *Server) handleSessionImage(c echo.Context) error {
	sess, err := s.lookupSession(c)
	if err != nil {
		return err
	}

	img, err := sess.renderer.Snapshot()
	if err != nil {
		return sessionError(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// handleCloseSession stops a session's renderer; its stream ends on the next event
func (s *Server) handleCloseSession(c echo.Context) error {
	sess, err := s.lookupSession(c)
	if err != nil {
		return err
	}
	s.closeSession(sess)
	return c.NoContent(http.StatusNoContent)
}

// sessionError maps renderer errors to HTTP errors
func sessionError(err error) error {
	if errors.Is(err, renderer.ErrClosed) {
		return echo.NewHTTPError(http.StatusGone, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
