// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package httpserver exposes the oscar engine as a read-only JSON query
// service: one route per entity kind, grounded on
// pkg/serve/httpserver/server.go's gorilla/mux router-setup pattern.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ssc-oscar/oscar-go/modules/oscar"
	"github.com/ssc-oscar/oscar-go/modules/oscar/diff"
)

// Server wraps an oscar.Engine behind an HTTP API.
type Server struct {
	engine *oscar.Engine
	log    *logrus.Logger
	router *mux.Router
}

// New builds a Server and wires its routes. Call Handler to get the
// http.Handler to pass to http.Server or httptest.
func New(e *oscar.Engine, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{engine: e, log: log, router: mux.NewRouter()}
	s.routes()
	return s
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.HandleFunc("/commits/{sha}", s.handleCommit).Methods(http.MethodGet)
	s.router.HandleFunc("/trees/{sha}", s.handleTree).Methods(http.MethodGet)
	s.router.HandleFunc("/blobs/{sha}", s.handleBlob).Methods(http.MethodGet)
	s.router.HandleFunc("/projects/{uri}", s.handleProject).Methods(http.MethodGet)
	s.router.HandleFunc("/diff/{child}/{parent}", s.handleDiff).Methods(http.MethodGet)
	s.router.Use(s.loggingMiddleware)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start),
		}).Debug("httpserver: request")
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type commitResponse struct {
	SHA         string   `json:"sha"`
	ParentSHAs  []string `json:"parents"`
	Author      string   `json:"author"`
	Committer   string   `json:"committer"`
	Message     string   `json:"message"`
	ChildSHAs   []string `json:"children"`
	ProjectURIs []string `json:"projects"`
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	sha := mux.Vars(r)["sha"]
	c, err := s.engine.Commit(sha)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	parents, err := c.ParentSHAs()
	if s.objectErr(w, err) {
		return
	}
	author, err := c.Author()
	if s.objectErr(w, err) {
		return
	}
	committer, err := c.Committer()
	if s.objectErr(w, err) {
		return
	}
	message, err := c.Message()
	if s.objectErr(w, err) {
		return
	}
	children, err := c.ChildSHAs()
	if s.objectErr(w, err) {
		return
	}
	projects, err := c.ProjectNames()
	if s.objectErr(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, commitResponse{
		SHA:         c.SHA(),
		ParentSHAs:  parents,
		Author:      author,
		Committer:   committer,
		Message:     message,
		ChildSHAs:   children,
		ProjectURIs: projects,
	})
}

type treeEntryResponse struct {
	Mode     string `json:"mode"`
	Name     string `json:"name"`
	SHA      string `json:"sha"`
	IsSubdir bool   `json:"is_subdir"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	sha := mux.Vars(r)["sha"]
	t, err := s.engine.Tree(sha)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entries, err := t.Entries()
	if s.objectErr(w, err) {
		return
	}
	out := make([]treeEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, treeEntryResponse{Mode: e.Mode, Name: e.Name, SHA: e.SHA, IsSubdir: e.IsSubdir})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	sha := mux.Vars(r)["sha"]
	b, err := s.engine.Blob(sha)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	content, err := b.Content()
	if s.objectErr(w, err) {
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

type projectResponse struct {
	URI     string `json:"uri"`
	URL     string `json:"url"`
	Commits int    `json:"commit_count"`
	Head    string `json:"head"`
	Tail    string `json:"tail"`
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	uri := mux.Vars(r)["uri"]
	p := s.engine.Project(uri)
	shas, err := p.CommitSHAs()
	if s.objectErr(w, err) {
		return
	}
	head, err := p.Head()
	if s.objectErr(w, err) {
		return
	}
	tail, err := p.Tail()
	if s.objectErr(w, err) {
		return
	}
	headSHA := ""
	if head != nil {
		headSHA = head.SHA()
	}
	writeJSON(w, http.StatusOK, projectResponse{
		URI:     p.URI(),
		URL:     p.URL(),
		Commits: len(shas),
		Head:    headSHA,
		Tail:    tail,
	})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	child, err := s.engine.Commit(vars["child"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	parent, err := s.engine.Commit(vars["parent"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	threshold := diff.DefaultThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			threshold = parsed
		}
	}
	changes, err := diff.Compare(child, parent, threshold)
	if s.objectErr(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func (s *Server) objectErr(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	status := http.StatusInternalServerError
	if errors.Is(err, oscar.ErrObjectNotFound) || errors.Is(err, oscar.ErrCyclicTree) {
		status = http.StatusNotFound
	}
	writeError(w, status, err)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
