package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gamecard/internal/app"
	"gamecard/internal/build"
	"gamecard/internal/domain/config"
	"gamecard/internal/domain/site"
	"gamecard/internal/index"
	"gamecard/internal/ingest"
	"gamecard/internal/logging"
	"gamecard/internal/render"
)

const debounceDelay = 200 * time.Millisecond

// Server renders pages from the index on every request and rebuilds the
// index whenever a source file changes.
type Server struct {
	cfg    config.Config
	log    *slog.Logger
	idx    *index.Store
	pr     *build.PageRenderer
	static fs.FS

	mu     sync.RWMutex
	pages  []config.PageConfig
	routes []site.Route

	reload    *reloadHub
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	pr, err := build.NewPageRenderer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("serve: %w", err)
	}
	pr.DevReload = true

	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	return &Server{
		cfg:    cfg,
		log:    logging.Component(logger, "serve"),
		idx:    st,
		pr:     pr,
		static: pr.Templates.Static(),
		reload: newReloadHub(),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

// Handler serves the site. Rebuild must have run at least once.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoute)
	mux.HandleFunc("/api/search", s.handleSearch)
	// dev SSE
	mux.Handle("/dev/events", s.reload)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	if s.cfg.Serve.Watch {
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", addr, "index", s.idx.Path())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Rebuild re-ingests every source into the index and tells connected
// browsers to reload.
func (s *Server) Rebuild(ctx context.Context) error {
	pages, err := app.ResolvePages(s.cfg)
	if err != nil {
		return err
	}
	opt, err := app.ParserOptions(s.cfg)
	if err != nil {
		return err
	}

	s.log.Info("ingest", "source_dir", s.cfg.Build.SourceDir, "pages", len(pages))
	catalogs, warns, err := ingest.Ingest(ctx, app.Sources(s.cfg, pages), opt)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		s.log.Warn("catalog", "path", w.Path, "msg", w.Msg)
	}

	if err := s.idx.Rebuild(catalogs, index.RebuildOptions{Now: time.Now()}); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	rb := app.RouteBuilder{Pages: pages}
	routes := rb.BuildRoutes()
	s.mu.Lock()
	s.pages = pages
	s.routes = routes
	s.mu.Unlock()

	n := s.reload.broadcast("reload")
	s.log.Info("rebuild complete", "catalogs", len(catalogs), "clients", n)
	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.WalkDir(s.cfg.Build.SourceDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for file changes", "dir", s.cfg.Build.SourceDir)
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// 新建的子目录也要监听
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = s.watcher.Add(ev.Name)
				}
			}
			debounce.Reset(debounceDelay)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "err", err)
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.Rebuild(ctx2); err != nil {
				s.log.Error("rebuild failed", "err", err)
			}
			cancel()
		}
	}
}

func (s *Server) snapshot() ([]config.PageConfig, []site.Route) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pages, s.routes
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	pages, routes := s.snapshot()
	route, ok := app.Match(routes, r.URL.Path)
	if !ok {
		if s.serveStatic(w, r) {
			return
		}
		s.handleNotFound(w, r)
		return
	}

	switch route.Kind {
	case site.RouteIndex:
		s.handleIndex(w, r, pages)
	case site.RoutePage:
		s.handlePage(w, r, findPage(pages, route.Name))
	case site.RouteAPI:
		s.handleEntries(w, r, findPage(pages, route.Name))
	default:
		s.handleNotFound(w, r)
	}
}

func findPage(pages []config.PageConfig, name string) config.PageConfig {
	for _, p := range pages {
		if p.Name == name {
			return p
		}
	}
	return config.PageConfig{Name: name}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, pages []config.PageConfig) {
	metas, err := s.idx.ListCatalogs()
	if err != nil {
		s.serverError(w, "list catalogs", err)
		return
	}
	byName := make(map[string]index.CatalogMeta, len(metas))
	for _, m := range metas {
		byName[m.Name] = m
	}
	summaries := make([]render.PageSummary, 0, len(pages))
	for _, p := range pages {
		m := byName[p.Name]
		summaries = append(summaries, render.PageSummary{
			Name:     p.Name,
			Title:    p.Title,
			URL:      p.Name + ".html",
			Entries:  m.Entries,
			Versions: m.Versions,
		})
	}

	htmlBytes, err := s.pr.Index(r.Context(), summaries)
	if err != nil {
		s.serverError(w, "render index", err)
		return
	}
	writeHTML(w, http.StatusOK, htmlBytes)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request, p config.PageConfig) {
	entries, err := s.idx.AllEntries(p.Name)
	if errors.Is(err, index.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, "load entries", err)
		return
	}
	htmlBytes, err := s.pr.Page(r.Context(), p, entries)
	if err != nil {
		s.serverError(w, "render page", err)
		return
	}
	writeHTML(w, http.StatusOK, htmlBytes)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request, p config.PageConfig) {
	opt := listOptions(r)
	entries, total, err := s.idx.Entries(p.Name, opt)
	if errors.Is(err, index.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "catalog not found"})
		return
	}
	if err != nil {
		s.serverError(w, "load entries", err)
		return
	}
	opt.Page, opt.Size = index.NormalizePaging(opt.Page, opt.Size)
	writeJSON(w, http.StatusOK, app.EntriesPayload{
		Name:    p.Name,
		Title:   p.Title,
		Total:   total,
		Page:    opt.Page,
		Size:    opt.Size,
		Entries: entries,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing q"})
		return
	}
	hits, err := s.idx.Search(q, listOptions(r))
	if err != nil {
		s.serverError(w, "search", err)
		return
	}
	if hits == nil {
		hits = []index.SearchHit{}
	}
	writeJSON(w, http.StatusOK, app.SearchPayload{Query: q, Hits: hits})
}

func listOptions(r *http.Request) index.ListOptions {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return index.ListOptions{Page: page, Size: size}
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) bool {
	if s.static == nil {
		return false
	}
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" || !fs.ValidPath(name) {
		return false
	}
	if st, err := fs.Stat(s.static, name); err != nil || st.IsDir() {
		return false
	}
	http.FileServer(http.FS(s.static)).ServeHTTP(w, r)
	return true
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.pr.NotFound(r.Context(), r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, htmlBytes)
}

func (s *Server) serverError(w http.ResponseWriter, what string, err error) {
	s.log.Error(what, "err", err)
	http.Error(w, what+" error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
