package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/art-explorer/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve browsing sessions over an HTTP JSON API",
		Long: `Serve starts the HTTP API. Clients create a session, search it and page
through the results. Sessions live in memory or in Redis (session.store).

Endpoints:
  POST   /api/sessions                create a session
  GET    /api/sessions/{id}           session state
  DELETE /api/sessions/{id}           drop a session
  POST   /api/sessions/{id}/search    {"keyword": "..."}
  GET    /api/sessions/{id}/page      render a page (?page=, ?format=)
  POST   /api/sessions/{id}/next      next page
  POST   /api/sessions/{id}/prev      previous page
  GET    /api/objects/{oid}           one artwork
  GET    /health
  GET    /metrics`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logLevelAnnotation: "info"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newCatalog()
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					log.Warn().Err(err).Msg("Failed to close session store")
				}
			}()

			log.Info().
				Str("base_url", client.BaseURL()).
				Str("store", a.cfg.Session.Store).
				Dur("session_ttl", a.cfg.Session.TTL).
				Int("concurrency", a.cfg.Render.Concurrency).
				Msg("Configuration loaded")

			srv := httpapi.New(client, a.newRenderer(client), store)
			return srv.ListenAndServe(cmd.Context(), a.cfg.Serve.Addr)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	bindFlag(cmd.Flags(), "addr", "serve.addr")

	return cmd
}
