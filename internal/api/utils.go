package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

const maxRequestBodyBytes = 1 << 20

func ParseRequest[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&data); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return data, CodedErrorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body")
	}
	return data, nil
}

func newSchemaDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

func ParseRequestQueryParams[T any](r *http.Request) (T, error) {
	var data T
	if err := newSchemaDecoder().Decode(&data, r.URL.Query()); err != nil {
		slog.Error("error decoding query params", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params: %v", err)
	}
	return data, nil
}

func writeError(w http.ResponseWriter, err error) {
	var cerr *codedError
	if errors.As(err, &cerr) {
		http.Error(w, err.Error(), cerr.code)
		if cerr.code == http.StatusInternalServerError {
			slog.Error("internal server error received in endpoint", "error", err)
		}
		return
	}
	slog.Error("recieved non coded error from endpoint", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// RestHandler adapts an endpoint returning a value to a JSON response. The
// ResponseWriter is passed through so endpoints can set cookies and headers
// before the body is written.
func RestHandler(handler func(w http.ResponseWriter, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(w, r)
		if err != nil {
			writeError(w, err)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, res)
	}
}

func WriteJsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, fmt.Sprintf("error serializing response body: %v", err), http.StatusInternalServerError)
	}
}

// Page is the outcome of a browser facing endpoint: either a template to
// render or a location to redirect to.
type Page struct {
	template string
	data     any
	redirect string
}

func RenderPage(template string, data any) Page {
	return Page{template: template, data: data}
}

func RedirectPage(location string) Page {
	return Page{redirect: location}
}

func PageHandler(renderer *Renderer, handler func(w http.ResponseWriter, r *http.Request) (Page, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := handler(w, r)
		if err != nil {
			writeError(w, err)
			return
		}

		if page.redirect != "" {
			http.Redirect(w, r, page.redirect, http.StatusSeeOther)
			return
		}

		renderer.Render(w, page.template, page.data)
	}
}
