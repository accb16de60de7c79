package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"library/internal/pages"
	"library/internal/response"
	"library/internal/storage/books"
	"library/internal/validation"
)

// Handler serves one route per menu state. Pages with a form also accept POST.
func Handler(br books.Repository, rr *response.Responder) http.Handler {
	r := chi.NewRouter()

	for _, state := range pages.States {
		r.Get(state.Path(), pageHandler(state, br, rr))
	}

	for _, state := range []pages.State{pages.Add, pages.Update, pages.Delete} {
		r.Post(state.Path(), pageHandler(state, br, rr))
	}

	return r
}

func pageHandler(state pages.State, br books.Repository, rr *response.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := parseInput(r)
		if err != nil {
			rr.RespondAndLogCustom(w, r.Context(), err, slog.LevelWarn, http.StatusBadRequest)
			return
		}

		p, err := pages.Handle(r.Context(), state, br, in)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		status := http.StatusOK
		if p.Rejected {
			status = http.StatusUnprocessableEntity
		}

		rr.Render(w, r.Context(), p, status)
	}
}

func parseInput(r *http.Request) (pages.Input, error) {
	if err := r.ParseForm(); err != nil {
		return pages.Input{}, fmt.Errorf("parsing form: %w", err)
	}

	in := pages.Input{
		Submitted:  r.Method == http.MethodPost,
		Query:      strings.TrimSpace(r.Form.Get("q")),
		SelectedId: getInt64OrDefault("id", r.Form, 0),
	}

	if in.Submitted {
		in.Form = validation.Book{
			Title:  r.PostForm.Get("title"),
			Author: r.PostForm.Get("author"),
			Genre:  r.PostForm.Get("genre"),
			Year:   validation.ParseYear(r.PostForm.Get("year")),
		}
	}

	return in, nil
}

func getInt64OrDefault(key string, q url.Values, default_ int64) int64 {
	if ls := strings.TrimSpace(q.Get(key)); ls != "" {
		v, err := strconv.ParseInt(ls, 10, 64)
		if err == nil {
			return v
		}
	}

	return default_
}
