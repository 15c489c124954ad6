package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"gridmdp/models"
	"gridmdp/server/cell_views"
	"gridmdp/server/fastview"
	"gridmdp/server/root_view"

	"github.com/gorilla/mux"
)

const shutdownGracePeriod = 5 * time.Second

// Server serves a single page of live solver views and the websocket feeding it.
// The latest snapshot is kept so a freshly loaded page starts from the current
// board; every update after that arrives over the websocket.
type Server struct {
	addr     string
	logger   *log.Logger
	rootView *root_view.RootView

	mu   sync.RWMutex
	last models.Snapshot
}

// NewServer initializes all of the views and returns a server.
// Snapshots read from updates are recorded as the latest and forwarded to the views.
func NewServer(
	ctx context.Context,
	addr string,
	initial models.Snapshot,
	updates <-chan models.Snapshot,
	logger *log.Logger,
) (*Server, error) {
	if initial.Grid == nil {
		return nil, errors.New("server: initial snapshot has no grid")
	}
	if logger == nil {
		logger = log.Default()
	}

	server := &Server{
		addr:   addr,
		logger: logger,
		last:   initial,
	}

	rootView, err := root_view.NewRootView(ctx, server.record(ctx, updates))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	server.rootView = rootView
	return server, nil
}

// record tees snapshots into the server's latest snapshot.
func (server *Server) record(
	ctx context.Context,
	updates <-chan models.Snapshot,
) <-chan models.Snapshot {
	out := make(chan models.Snapshot)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-updates:
				if !ok {
					return
				}
				server.mu.Lock()
				server.last = snap
				server.mu.Unlock()
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Router returns the server's routes.
func (server *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket)
	return router
}

// Serve listens on the server's address until ctx is cancelled.
func (server *Server) Serve(ctx context.Context) (err error) {
	srv := &http.Server{
		Addr:    server.addr,
		Handler: server.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			server.logger.Println("shutdown:", shutdownErr)
		}
	}()

	server.logger.Printf("serving on %s\n", server.addr)
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// serveWebsocket publishes view updates to the client until it disconnects.
// The ele-update channel is shared, so concurrent pages split the updates.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := fastview.NewClient(server.rootView.Updates(), w, r)
	if err != nil {
		server.logger.Println("upgrade:", err)
		return
	}

	if err = cli.Sync(); err != nil {
		server.logger.Println("sync:", err)
	}
}

// Serve the index.html main page.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	server.mu.RLock()
	last := server.last
	server.mu.RUnlock()

	page := &bytes.Buffer{}
	if err := renderTemplate(page, server.rootView, cell_views.Convert(last)); err != nil {
		server.logger.Println("render:", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = page.WriteTo(w)
}

func renderTemplate(
	w io.Writer,
	vc *root_view.RootView,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
