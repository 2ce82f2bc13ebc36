package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdmichaud/rdicom/pkg/index"
	"github.com/jdmichaud/rdicom/pkg/logging"
	"github.com/jdmichaud/rdicom/pkg/server"
)

// NewServeCmd serves the DICOMweb API over a previously built index.
func NewServeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the DICOMweb API over a scanned index",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlfile, _ := cmd.Flags().GetString("sqlfile")
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			configPath, _ := cmd.Flags().GetString("config")
			logFile, _ := cmd.Flags().GetString("log-file")

			if sqlfile == "" {
				return fmt.Errorf("%w: --sqlfile is required", ErrConfig)
			}
			if _, err := os.Stat(sqlfile); err != nil {
				return fmt.Errorf("%w: %s does not exist", ErrConfig, sqlfile)
			}
			cfg, err := index.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrConfig, err)
			}

			log := slog.Default()
			if logFile != "" {
				w := logging.RotatingWriter(logFile)
				defer w.Close()
				log = logging.Logger(w, true, slog.LevelInfo)
			}

			store, err := index.OpenSQLStore(sqlfile, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(store.DB(), cfg, server.WithLogger(log))
			addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
			httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				httpSrv.Shutdown(shutdownCtx)
			}()

			fmt.Printf("Serving HTTP on %s port %d (http://%s/) with database %s ...\n",
				host, port, addr, sqlfile)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	pf := cmd.Flags()
	pf.StringP("sqlfile", "s", "", "sqlite index built by scan")
	pf.String("host", "127.0.0.1", "listen address")
	pf.IntP("port", "p", 8080, "listen port")
	pf.StringP("config", "c", "", "YAML config matching the index schema")
	pf.String("log-file", "", "rotated JSON log file (default: stderr)")
	return cmd
}
