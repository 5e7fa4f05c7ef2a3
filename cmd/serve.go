package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/echoplay/internal/gateway"
	"github.com/desertthunder/echoplay/internal/server"
)

// Serve exposes the local document store over HTTP so remote-mode clients can share it.
//
// The served gateway always runs with strict playlist writes so clients see real failures.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	addr := r.cfg().Server
	if cmd.IsSet("host") {
		addr.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		addr.Port = cmd.Int("port")
	}

	gw := gateway.NewLocal(db, gateway.Options{Logger: r.logger})
	router := server.NewDocumentRouter(gw, r.logger)

	r.writePlain("Serving document store on http://%s\n", addr.Addr())
	if err := server.New(addr.Addr(), router, r.logger).Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	r.logger.Info("server stopped")
	return nil
}
