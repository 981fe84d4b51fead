package main

import (
	"github.com/matryer/way"

	"maze-daze/server/handlers"
)

const (
	uriWS      = "/ws"
	uriHealthz = "/healthz"
)

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", uriWS, handlers.ServeWS(handlers.NewUpgrader(), s.players, s.world, s.clients))
	s.router.HandleFunc("GET", uriHealthz, handlers.Healthz())
}
