package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/guardpatrol/feed"
	"github.com/milk9111/guardpatrol/levels"
	"github.com/milk9111/guardpatrol/logger"
	"github.com/milk9111/guardpatrol/prefabs"
	"github.com/milk9111/guardpatrol/sim"
)

func main() {
	levelName := flag.String("level", levels.DefaultLevel, "level file (embedded name or path on disk)")
	ticks := flag.Int("ticks", 0, "ticks to simulate; 0 runs until the mission completes or the process is stopped")
	addr := flag.String("addr", "", "serve the observer websocket feed on this address (at /ws); runs in real time")
	watch := flag.Bool("watch", false, "hot reload prefabs and guard scripts from disk")
	schemaOut := flag.String("schema", "", "write the level JSON schema to this path and exit")
	flag.Parse()

	logger.Init()

	if *schemaOut != "" {
		if err := writeSchema(*schemaOut, levels.Schema()); err != nil {
			logger.Log.WithError(err).Fatal("failed to write schema")
		}
		logger.Log.WithField("path", *schemaOut).Info("level schema written")
		return
	}

	s, err := sim.Load(*levelName)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load simulation")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := runOptions{maxTicks: *ticks}

	if *addr != "" {
		hub := feed.NewHub()
		defer hub.Close()
		attachFeed(s, hub)
		opts.realtime = true
		opts.hub = hub

		srv := &http.Server{Addr: *addr, Handler: newMux(hub), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Log.WithField("addr", *addr).Info("observer feed listening on /ws")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.WithError(err).Error("observer feed stopped")
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if *watch {
		w, err := prefabs.NewWatcher(prefabs.DiskRoot, prefabs.DiskRoot+"/scripts")
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to watch prefabs")
		}
		defer w.Close()
		opts.watcher = w
	}

	result := run(ctx, s, opts)

	logger.Log.WithFields(logrus.Fields{
		"ticks":    result.ticks,
		"complete": result.complete,
		"success":  result.success,
		"changes":  result.stateChanges,
	}).Info("simulation finished")
}

func newMux(hub *feed.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
