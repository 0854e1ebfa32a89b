// Package server exposes opened documents over HTTP. Each document under
// the root directory gets a browsing session backed by a nav.Controller;
// handlers render units as standalone HTML pages with prev/next links and
// a table of contents.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/inkleaf/pageturn"
	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/format"
	"github.com/inkleaf/pageturn/nav"
	"github.com/inkleaf/pageturn/render"
)

// Options configures a viewer server.
type Options struct {
	Addr     string
	RootDir  string
	DarkMode bool
	FontSize int
}

type Server struct {
	opts   Options
	router *echo.Echo

	mu       sync.Mutex
	sessions map[string]*session
}

// session holds one document's controller. The controller itself is not
// safe for concurrent use, so every access goes through the session mutex.
type session struct {
	mu   sync.Mutex
	path string
	ctrl *nav.Controller
}

func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.RootDir == "" {
		opts.RootDir = "."
	}
	s := &Server{
		opts:     opts,
		router:   echo.New(),
		sessions: make(map[string]*session),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.router
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = httpErrorHandler

	e.GET("/", s.listDocuments)

	dg := e.Group("/docs/:name")
	dg.GET("", s.openDocument)
	dg.GET("/units/:idx", s.showUnit)
	dg.GET("/toc", s.showTOC)
	dg.GET("/download", s.download)
	dg.POST("/retry", s.retry)
}

func (s *Server) Start() error {
	return s.router.Start(s.opts.Addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// httpErrorHandler maps the document error taxonomy onto HTTP statuses.
// Format and empty-content failures carry a download hint so clients can
// fall back to an external viewer.
func httpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	body := echo.Map{"error": err.Error()}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		body = echo.Map{"error": he.Message}
	} else {
		switch errs.KindOf(err) {
		case errs.KindNetwork:
			code = http.StatusBadGateway
		case errs.KindFormat, errs.KindEmptyContent:
			code = http.StatusUnprocessableEntity
		case errs.KindParse:
			code = http.StatusUnprocessableEntity
		}
		if errs.Fallback(err) {
			name := c.Param("name")
			body["fallback"] = "external-viewer"
			if name != "" {
				body["download"] = "/docs/" + name + "/download"
			}
		}
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

// resolve maps a document name to a file under the root directory,
// rejecting path escapes.
func (s *Server) resolve(name string) (string, error) {
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid document name")
	}
	path := filepath.Join(s.opts.RootDir, filepath.Clean(name))
	if _, err := os.Stat(path); err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return path, nil
}

// resolveSession returns the session for the named document, creating and
// loading it on first use.
func (s *Server) resolveSession(c echo.Context, name string) (*session, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[name]
	if !ok {
		sess = &session{path: path}
		s.sessions[name] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.ctrl == nil {
		ctrl, err := pageturn.Open(path).Session(c.Request().Context())
		if err != nil {
			return nil, err
		}
		sess.ctrl = ctrl
	}
	if sess.ctrl.State() == nav.Failed {
		return nil, sess.ctrl.Err()
	}
	return sess, nil
}

func (s *Server) listDocuments(c echo.Context) error {
	entries, err := os.ReadDir(s.opts.RootDir)
	if err != nil {
		return err
	}
	docs := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f := format.Detect(e.Name())
		if f == format.Unknown {
			// No recognized extension: sniff the content instead, so
			// documents with missing or odd extensions still get listed.
			f = sniffFile(filepath.Join(s.opts.RootDir, e.Name()))
		}
		if f == format.Unknown {
			continue
		}
		docs = append(docs, echo.Map{
			"name": e.Name(),
			"url":  "/docs/" + e.Name(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": docs})
}

// sniffFile content-sniffs a file on disk.
func sniffFile(path string) format.Format {
	f, err := os.Open(path)
	if err != nil {
		return format.Unknown
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return format.Unknown
	}
	detected, err := format.DetectReader(f, st.Size())
	if err != nil {
		return format.Unknown
	}
	return detected
}

func (s *Server) openDocument(c echo.Context) error {
	name := c.Param("name")
	if _, err := s.resolveSession(c, name); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/docs/"+name+"/units/0")
}

func (s *Server) showUnit(c echo.Context) error {
	name := c.Param("name")
	sess, err := s.resolveSession(c, name)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := atoiParam(c.Param("idx"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid unit index")
	}
	ctrl := sess.ctrl
	if idx < 0 || idx >= ctrl.Len() {
		return echo.NewHTTPError(http.StatusNotFound, "unit out of range")
	}
	ctrl.JumpTo(idx)
	u, err := ctrl.Unit()
	if err != nil {
		return err
	}

	page := render.Page(u, render.Options{
		DarkMode: s.opts.DarkMode != (c.QueryParam("dark") == "1"),
		FontSize: s.opts.FontSize,
	})
	page = injectNav(page, name, idx, ctrl.Len())
	return c.HTML(http.StatusOK, page)
}

func (s *Server) showTOC(c echo.Context) error {
	sess, err := s.resolveSession(c, c.Param("name"))
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	toc := sess.ctrl.TOC()
	entries := make([]echo.Map, 0)
	for _, e := range toc.Flatten() {
		m := echo.Map{"title": e.Title, "unit": e.UnitIndex}
		if e.UnitIndex >= 0 {
			m["url"] = "/docs/" + c.Param("name") + "/units/" + itoa(e.UnitIndex)
		}
		entries = append(entries, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// download serves the original bytes, the fallback for formats the
// viewer cannot render.
func (s *Server) download(c echo.Context) error {
	name := c.Param("name")
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	return c.Attachment(path, name)
}

// retry reloads a failed session in place.
func (s *Server) retry(c echo.Context) error {
	name := c.Param("name")
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	sess, ok := s.sessions[name]
	if !ok {
		sess = &session{path: path}
		s.sessions[name] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.ctrl == nil {
		ctrl, err := pageturn.Open(path).Session(c.Request().Context())
		if err != nil {
			return err
		}
		sess.ctrl = ctrl
	} else if err := sess.ctrl.Retry(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state": sess.ctrl.State().String(),
		"units": sess.ctrl.Len(),
	})
}
