package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/silevilence/picto-mino/internal/config"
	"github.com/silevilence/picto-mino/internal/database"
	"github.com/silevilence/picto-mino/internal/handlers"
	"github.com/silevilence/picto-mino/internal/middleware"
	"github.com/silevilence/picto-mino/internal/repository"
	"golang.org/x/sync/errgroup"
)

type App struct {
	logger     *slog.Logger
	router     *http.ServeMux
	db         *pgxpool.Pool
	cookies    *config.Cookies
	ws         *config.WebSocket
	jwt        *config.JWT
	migrations fs.FS
	levels     fs.FS
}

// New wires an App. levels may be nil; when absent, only the built-in
// seed levels are served.
func New(logger *slog.Logger, migrations fs.FS, levels fs.FS) *App {
	router := http.NewServeMux()

	app := &App{
		logger:     logger,
		router:     router,
		migrations: migrations,
		levels:     levels,
	}

	return app
}

func (a *App) Start(ctx context.Context) error {
	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}

	a.db = db

	jwt, err := config.NewJWT()
	if err != nil {
		return err
	}

	a.jwt = jwt

	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return err
	}

	a.cookies = cookies

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}

	a.ws = ws

	store, err := a.loadLevels()
	if err != nil {
		return fmt.Errorf("unable to load levels: %w", err)
	}

	repo := repository.New(a.db)
	if err := repo.EnsureLevelOrder(ctx, store.IDs()); err != nil {
		return fmt.Errorf("unable to seed level order: %w", err)
	}

	a.loadRoutes(store)

	addr := config.Port()
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Logging(a.logger),
			middleware.Cors(),
			middleware.Auth(a.logger, cookies),
		),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	a.logger.Info("server listening", slog.String("addr", addr))
	if err := g.Wait(); err != nil {
		a.logger.Error("server exited with error", slog.Any("error", err))
		return err
	}

	return nil
}

// loadLevels builds the LevelStore served by this instance: any
// authored .level files on disk, plus the built-in seed levels (which
// never override an on-disk level of the same id).
func (a *App) loadLevels() (*handlers.LevelStore, error) {
	var store *handlers.LevelStore
	if a.levels != nil {
		s, err := handlers.LoadLevelStore(a.levels)
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		store = handlers.NewLevelStore()
	}

	seeds, order, err := handlers.SeedLevels()
	if err != nil {
		return nil, err
	}
	for _, id := range order {
		if _, ok := store.Get(id); !ok {
			store.Add(id, seeds[id])
		}
	}

	return store, nil
}
