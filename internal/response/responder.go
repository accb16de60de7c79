package response

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"library/internal/pages"
)

//go:embed templates/*.html
var templatesFS embed.FS

const errorPage = "error"

type Responder struct {
	DebugMode bool

	templates map[string]*template.Template
}

// NewResponder parses one template set per page, each made of the shared layout and the page content.
func NewResponder(debugMode bool) (*Responder, error) {
	names := make([]string, 0, len(pages.States)+1)
	for _, st := range pages.States {
		names = append(names, string(st))
	}
	names = append(names, errorPage)

	rr := &Responder{DebugMode: debugMode, templates: make(map[string]*template.Template, len(names))}

	for _, name := range names {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s page: %w", name, err)
		}

		rr.templates[name] = t
	}

	return rr, nil
}

// Render writes the page with status, or the error page when rendering fails.
func (rr *Responder) Render(w http.ResponseWriter, ctx context.Context, p *pages.Page, status int) {
	t, ok := rr.templates[string(p.State)]
	if !ok {
		rr.RespondAndLogError(w, ctx, fmt.Errorf("no template for page %q", p.State))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		rr.RespondAndLogError(w, ctx, err)
		return
	}

	writeHTML(w, status, &buf)
}

// RespondAndLogError will respond with generic error code (500) and log with slog.LevelError level
func (rr *Responder) RespondAndLogError(w http.ResponseWriter, ctx context.Context, err error) {
	errId := uuid.NewString()
	log(ctx, slog.LevelError, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, ctx, http.StatusInternalServerError, err.Error(), errId)
}

func (rr *Responder) RespondAndLogCustom(w http.ResponseWriter, ctx context.Context, err error, lvl slog.Level, status int) {
	errId := uuid.NewString()
	log(ctx, lvl, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, ctx, status, err.Error(), errId)
}

func (rr *Responder) renderError(w http.ResponseWriter, ctx context.Context, status int, message, errId string) {
	if rr.DebugMode {
		r, s := utf8.DecodeRuneInString(message)
		message = string(unicode.ToUpper(r)) + message[s:]
	} else {
		message = "Unknown error occurred while processing your request. Error ID: " + errId
	}

	p := &pages.Page{
		Heading:     "Something went wrong",
		Transitions: pages.States,
		Notice:      &pages.Notice{Level: pages.NoticeWarning, Message: message},
	}

	var buf bytes.Buffer
	err := rr.templates[errorPage].ExecuteTemplate(&buf, "layout", p)
	if err != nil {
		log(ctx, slog.LevelError, "cannot render error page: "+err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, message)
		return
	}

	writeHTML(w, status, &buf)
}

func writeHTML(w http.ResponseWriter, status int, body io.Reader) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.Copy(w, body)
}

// Needed because it skips one more frame item than the slog.Log
func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := slog.Default()

	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, this function's caller]
	runtime.Callers(3, pcs[:])
	pc = pcs[0]

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
