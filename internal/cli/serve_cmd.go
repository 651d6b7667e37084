package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"harvest-timer/internal/config"
)

func newServeCmd(st *state) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve HTTP triggers for the timer (status, stop, resume)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = st.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := st.app.HTTPServer(addr)
			errCh := make(chan error, 1)
			go func() {
				st.log.Info("listening", slog.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				st.log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $HARVEST_SERVER_ADDR or 127.0.0.1:8088)")
	return cmd
}

func newTokenCmd(st *state) *cobra.Command {
	var accountID uint64
	cmd := &cobra.Command{
		Use:         "token <personal-access-token>",
		Short:       "Store a personal access token in the system keyring",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skip-config": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveToken(accountID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token stored for account %d.\n", accountID)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&accountID, "account", 0, "Harvest account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
