package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"teapot/internal/database"
	"teapot/internal/models"
)

// DefaultVersion is reported by /health when no build version is set.
const DefaultVersion = "1.0.0"

// Handler serves the JSON API on top of a database.Store.
type Handler struct {
	store   database.Store
	now     func() time.Time
	newID   func() string
	version string
	checks  []Check
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock replaces the wall clock used for entity timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(h *Handler) { h.newID = newID }
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) Option {
	return func(h *Handler) { h.version = version }
}

// WithChecks replaces the readiness checks run by /health/ready.
func WithChecks(checks ...Check) Option {
	return func(h *Handler) { h.checks = checks }
}

// NewHandler creates a new Handler backed by store.
func NewHandler(store database.Store, opts ...Option) *Handler {
	h := &Handler{
		store:   store,
		now:     time.Now,
		newID:   uuid.NewString,
		version: DefaultVersion,
	}
	h.checks = []Check{MemoryCheck(0), StoreCheck(store)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// timestamp returns the current UTC time.
func (h *Handler) timestamp() time.Time {
	return h.now().UTC()
}

// stamp returns an update timestamp strictly after prev, even when the
// clock has not advanced since prev was taken.
func (h *Handler) stamp(prev time.Time) time.Time {
	now := h.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// ========== Responses ==========

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Int("status", status).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, models.ErrorResponse{Code: code, Message: message, Details: details})
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, models.CodeNotFound, message, nil)
}

func writeInvalidBody(w http.ResponseWriter, details map[string]string) {
	writeError(w, http.StatusBadRequest, models.CodeValidation, "Invalid request body", details)
}

func writeInvalidQuery(w http.ResponseWriter, details map[string]string) {
	writeError(w, http.StatusBadRequest, models.CodeValidation, "Invalid query parameters", details)
}

// writeValidation reports err as a 400 if it is a models.ValidationError and
// as a 500 otherwise.
func writeValidation(w http.ResponseWriter, err error) {
	var verr models.ValidationError
	if errors.As(err, &verr) {
		writeInvalidBody(w, verr)
		return
	}
	log.Error().Err(err).Msg("Unexpected validation failure")
	writeInternal(w)
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, models.CodeInternal, "An unexpected error occurred", nil)
}

// HandleNotFound answers every request no route matched.
func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeNotFound(w, "Resource not found")
}

// ========== Request decoding ==========

// decodeBody decodes a JSON request body into dst. On failure it writes the
// 400 response itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		err = expectEOF(dec)
	}
	if err == nil {
		return true
	}
	writeInvalidBody(w, bodyErrorDetails(err))
	return false
}

// errTrailingData reports anything but whitespace after the JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

func expectEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	err := dec.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return errTrailingData
}

func bodyErrorDetails(err error) map[string]string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return map[string]string{typeErr.Field: fmt.Sprintf("must be of type %s", jsonKind(typeErr.Type))}
	case errors.As(err, &typeErr):
		return map[string]string{"body": fmt.Sprintf("must be a JSON %s", jsonKind(typeErr.Type))}
	case errors.As(err, &syntaxErr):
		return map[string]string{"body": fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	case errors.As(err, &maxErr):
		return map[string]string{"body": "request body too large"}
	case errors.Is(err, io.EOF):
		return map[string]string{"body": "request body required"}
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, errTrailingData):
		return map[string]string{"body": "malformed JSON"}
	default:
		return map[string]string{"body": err.Error()}
	}
}

// jsonKind names a Go type in the JSON vocabulary clients see.
func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// ========== Query parsing ==========

// query collects per-parameter problems while reading URL query values.
type query struct {
	values url.Values
	errs   models.ValidationError
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query(), errs: models.ValidationError{}}
}

// intParam reads an optional integer in [min, max]. A max of zero leaves
// the upper end open.
func (q *query) intParam(key string, def, min, max int) int {
	raw := q.values.Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		q.errs[key] = "must be an integer"
	case max == 0 && v < min:
		q.errs[key] = fmt.Sprintf("must be at least %d", min)
	case max != 0 && (v < min || v > max):
		q.errs[key] = fmt.Sprintf("must be between %d and %d", min, max)
	default:
		return v
	}
	return def
}

func (q *query) page() models.Page {
	return models.Page{
		Page:  q.intParam("page", models.DefaultPage, 1, 0),
		Limit: q.intParam("limit", models.DefaultLimit, 1, models.MaxLimit),
	}
}

func (q *query) str(key string) string {
	return q.values.Get(key)
}

// enumParam reads an optional closed-set filter value.
func enumParam[T ~string](q *query, key string, valid func(T) bool, options []T) T {
	v := T(q.values.Get(key))
	if v != "" && !valid(v) {
		q.errs[key] = models.OneOf(options)
		return ""
	}
	return v
}

// ok writes the 400 response when any parameter was rejected.
func (q *query) ok(w http.ResponseWriter) bool {
	if len(q.errs) > 0 {
		writeInvalidQuery(w, q.errs)
		return false
	}
	return true
}

func listResponse[T any](items []*T, p models.Page, total int) models.ListResponse[*T] {
	return models.ListResponse[*T]{Data: items, Pagination: models.NewPagination(p, total)}
}
