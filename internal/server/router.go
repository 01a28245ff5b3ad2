package server

import (
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/go-chi/chi/v5"
)

// Router собирает маршруты API дерева файлов.
//
// Изменяющие запросы проходят проверку доверенной подсети, все запросы
// проходят проверку метода, Content-Type, GZIP и HMAC.
func (h *Handler) Router() chi.Router {
	router := chi.NewRouter()

	router.Use(logger.Middleware)
	router.Use(h.CheckMethod)
	router.Use(h.CheckContentType)
	router.Use(GzipMiddleware)
	router.Use(h.HashMiddleware)
	router.Use(h.WithHashing)

	router.Get("/ping", h.PingHandler)
	router.Get("/version", h.VersionHandler)
	router.Get("/statfs", h.StatFSHandler)

	router.Route("/files", func(router chi.Router) {
		router.Get("/stat", h.StatHandler)
		router.Get("/ls", h.LsHandler)
		router.Get("/read", h.ReadHandler)

		router.Group(func(router chi.Router) {
			router.Use(h.CheckSubnet)
			router.Post("/chmod", h.ChmodHandler)
			router.Post("/mkdir", h.MkdirHandler)
			router.Post("/write", h.WriteHandler)
			router.Post("/touch", h.TouchHandler)
			router.Post("/flush", h.FlushHandler)
		})
	})
	return router
}
