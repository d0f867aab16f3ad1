package app

import "github.com/silevilence/picto-mino/internal/handlers"

func (a *App) loadRoutes(store *handlers.LevelStore) {
	auth := handlers.NewAuth(a.logger, a.db, a.cookies, a.jwt)
	level := handlers.NewLevel(a.logger, a.db, a.ws, store)

	a.router.HandleFunc("GET /auth/status", auth.Status)
	a.router.HandleFunc("POST /auth/register", auth.Register)
	a.router.HandleFunc("POST /auth/login", auth.Login)

	a.router.HandleFunc("GET /levels", level.List)
	a.router.HandleFunc("POST /levels/verify", level.Verify)
	a.router.HandleFunc("GET /levels/{id}", level.Fetch)
	a.router.HandleFunc("GET /levels/{id}/leaderboard", level.Leaderboard)
	a.router.HandleFunc("/levels/{id}/connect", level.Connect)
}
