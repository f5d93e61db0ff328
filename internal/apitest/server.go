// Package apitest runs an in-memory stand-in for the roster REST API so the
// client, commands and screens can be tested end to end.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/auth"
)

// Request is one request received by the fake server.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Server is the fake API. Its zero collections are empty lists.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	employees []api.Employee
	equipment []api.Equipment
	rawRoster []byte
	failures  map[string]int
	requests  []Request
	nextID    int
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	token string
}

// WithToken requires "Authorization: Bearer <token>" on every route.
func WithToken(token string) Option {
	return func(o *serverOptions) { o.token = token }
}

// New starts a fake server and closes it when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{failures: make(map[string]int), nextID: 1000}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/", s.handleList)
	r.Post("/usuarios", s.handleCreate)
	r.Put("/{id}", s.handleUpdate)
	r.Get("/equipamentos", s.handleListEquipment)
	r.Post("/equipamentos/{id}/{op}", s.handleAdjust)

	var h http.Handler = r
	if o.token != "" {
		h = auth.Middleware(o.token, r)
	}
	s.Server = httptest.NewServer(h)
	t.Cleanup(s.Close)
	return s
}

// SetEmployees replaces the roster.
func (s *Server) SetEmployees(emps ...api.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append([]api.Employee(nil), emps...)
	s.rawRoster = nil
}

// SetRawRoster makes GET / answer with body verbatim.
func (s *Server) SetRawRoster(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawRoster = []byte(body)
}

// Employees returns a copy of the roster.
func (s *Server) Employees() []api.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Employee(nil), s.employees...)
}

// SetEquipment replaces the inventory.
func (s *Server) SetEquipment(items ...api.Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment = append([]api.Equipment(nil), items...)
}

// Equipment returns a copy of the inventory.
func (s *Server) Equipment() []api.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Equipment(nil), s.equipment...)
}

// Fail makes the route answer with status until cleared with status 0.
// route is "METHOD pattern", e.g. "GET /" or "POST /equipamentos/{id}/{op}".
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many requests matched method and path.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// failed writes the injected failure for route, if any.
func (s *Server) failed(w http.ResponseWriter, route string) bool {
	s.mu.Lock()
	status, ok := s.failures[route]
	s.mu.Unlock()
	if !ok {
		return false
	}
	http.Error(w, "injected failure", status)
	return true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "GET /") {
		return
	}
	s.mu.Lock()
	raw := s.rawRoster
	emps := append([]api.Employee{}, s.employees...)
	s.mu.Unlock()

	if raw != nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
		return
	}
	writeJSON(w, http.StatusOK, emps)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "POST /usuarios") {
		return
	}
	var in api.NewEmployee
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Nome == "" || in.CPF == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.nextID++
	emp := api.Employee{ID: api.ID(strconv.Itoa(s.nextID)), Nome: in.Nome, CPF: in.CPF}
	s.employees = append(s.employees, emp)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, emp)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "PUT /{id}") {
		return
	}
	id := api.ID(chi.URLParam(r, "id"))
	var patch api.EmployeePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID != id {
			continue
		}
		if patch.Nome != "" {
			s.employees[i].Nome = patch.Nome
		}
		if patch.CPF != "" {
			s.employees[i].CPF = patch.CPF
		}
		writeJSON(w, http.StatusOK, s.employees[i])
		return
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "GET /equipamentos") {
		return
	}
	s.mu.Lock()
	items := append([]api.Equipment{}, s.equipment...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "POST /equipamentos/{id}/{op}") {
		return
	}
	id := api.ID(chi.URLParam(r, "id"))
	op := api.Adjustment(chi.URLParam(r, "op"))
	if op != api.Add && op != api.Remove {
		http.Error(w, "unknown operation", http.StatusNotFound)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.equipment {
		if s.equipment[i].ID != id {
			continue
		}
		if op == api.Add {
			s.equipment[i].Quantidade++
		} else if s.equipment[i].Quantidade > 0 {
			s.equipment[i].Quantidade--
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
