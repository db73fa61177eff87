// Package webapp serves the study-helper web form: one POST runs one
// pipeline invocation, and completed results can be downloaded as text or
// PDF. Results live only in an in-memory cache owned by this layer; the
// pipeline itself keeps nothing between invocations.
package webapp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qjs/studyhelper/server/export"
	studypipeline "github.com/qjs/studyhelper/server/study_pipeline"
)

// maxCachedResults caps the ephemeral result cache; the oldest run is
// evicted first.
const maxCachedResults = 32

// Options tune the web app for its runtime environment.
type Options struct {
	// TemplateGlob locates the HTML templates. Empty means the path
	// relative to the repository root used by main.go.
	TemplateGlob string

	// RequestTimeout bounds one whole pipeline invocation.
	RequestTimeout time.Duration

	// Provider is shown on the form page.
	Provider string
}

// WebApp wraps a Gin router plus the pipeline orchestrator.
type WebApp struct {
	Router *gin.Engine
	Server *http.Server

	orch *studypipeline.Orchestrator
	opts Options

	mu      sync.Mutex
	results map[string]*studypipeline.Result
	order   []string
}

// NewWebApp wires routes + templates and returns an instance.
func NewWebApp(orch *studypipeline.Orchestrator, opts Options) *WebApp {
	if opts.TemplateGlob == "" {
		opts.TemplateGlob = "server/webapp/template/*"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 300 * time.Second
	}

	router := gin.Default()
	router.LoadHTMLGlob(opts.TemplateGlob)

	app := &WebApp{
		Router:  router,
		orch:    orch,
		opts:    opts,
		results: make(map[string]*studypipeline.Result),
	}
	app.setupRoutes()
	return app
}

// Run starts the HTTP server (non-blocking).
func (app *WebApp) Run(addr string) {
	app.Server = &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("web UI listening on %s", addr)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("webapp: %v", err)
		}
	}()
}

// Shutdown gracefully stops the HTTP server.
func (app *WebApp) Shutdown(ctx context.Context) error {
	if app.Server != nil {
		return app.Server.Shutdown(ctx)
	}
	return nil
}

// ----------------------------------------------------------------------
// Routes
// ----------------------------------------------------------------------

func (app *WebApp) setupRoutes() {
	app.Router.GET("/", app.indexPage)
	app.Router.POST("/analyze", app.analyze)
	app.Router.GET("/download/:id", app.downloadText)
	app.Router.GET("/download/:id/pdf", app.downloadPDF)
}

// GET /
func (app *WebApp) indexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Provider": app.opts.Provider,
	})
}

// POST /analyze
func (app *WebApp) analyze(c *gin.Context) {
	text := c.PostForm("text")

	ctx, cancel := context.WithTimeout(c.Request.Context(), app.opts.RequestTimeout)
	defer cancel()

	res, err := app.orch.Run(ctx, text)
	if err != nil {
		if errors.Is(err, studypipeline.ErrEmptyInput) {
			c.HTML(http.StatusBadRequest, "index.tmpl", gin.H{
				"Provider": app.opts.Provider,
				"Error":    "Please enter some text to process.",
			})
			return
		}
		c.HTML(http.StatusInternalServerError, "index.tmpl", gin.H{
			"Provider": app.opts.Provider,
			"Error":    err.Error(),
		})
		return
	}

	app.store(res)
	c.HTML(http.StatusOK, "results.tmpl", resultView(res, text))
}

// GET /download/:id
func (app *WebApp) downloadText(c *gin.Context) {
	res, ok := app.lookup(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "no such run")
		return
	}
	doc, err := export.Text(res)
	if err != nil {
		c.String(http.StatusConflict, "export: %v", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="study_analysis_%s.txt"`, res.RunID))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

// GET /download/:id/pdf
func (app *WebApp) downloadPDF(c *gin.Context) {
	res, ok := app.lookup(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "no such run")
		return
	}
	data, err := export.PDF(res, export.DefaultPDFConfig())
	if err != nil {
		c.String(http.StatusConflict, "export: %v", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="study_analysis_%s.pdf"`, res.RunID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ----------------------------------------------------------------------
// Ephemeral result cache
// ----------------------------------------------------------------------

func (app *WebApp) store(res *studypipeline.Result) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.results[res.RunID] = res
	app.order = append(app.order, res.RunID)
	for len(app.order) > maxCachedResults {
		delete(app.results, app.order[0])
		app.order = app.order[1:]
	}
}

func (app *WebApp) lookup(id string) (*studypipeline.Result, bool) {
	app.mu.Lock()
	defer app.mu.Unlock()
	res, ok := app.results[id]
	return res, ok
}

// ----------------------------------------------------------------------
// View model
// ----------------------------------------------------------------------

type stageView struct {
	Heading string
	Output  string
}

func resultView(res *studypipeline.Result, input string) gin.H {
	var stages []stageView
	for _, sr := range res.Stages {
		if sr.Failed() {
			continue
		}
		stages = append(stages, stageView{Heading: export.Heading(sr), Output: sr.Output})
	}

	h := gin.H{
		"RunID":    res.RunID,
		"Complete": res.Complete(),
		"Stages":   stages,
		"Chars":    len(input),
		"Words":    len(strings.Fields(input)),
		"Lines":    len(strings.Split(input, "\n")),
	}
	if failed, ok := res.FailedStage(); ok {
		h["FailedStage"] = failed.Stage.String()
		h["FailedCause"] = failed.Err.Error()
	}
	return h
}
