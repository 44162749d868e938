// Command epictreed serves the hierarchical tree store over HTTP.
package main

import (
	"fmt"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicolagi/epictree/internal/blobstore"
	"github.com/nicolagi/epictree/internal/config"
	"github.com/nicolagi/epictree/internal/forest"
	"github.com/nicolagi/epictree/internal/httpapi"
	"github.com/nicolagi/epictree/internal/ratelimit"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "epictreed",
		Short: "Serve the hierarchical tree store over HTTP",
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func newServeCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the configured data file and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.ini", "path to the INI configuration file")
	return cmd
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("epictreed: %w", err)
	}

	logger := log.New()
	if cfg.IsProduction() {
		logger.SetLevel(log.ErrorLevel)
	} else {
		logger.SetLevel(log.DebugLevel)
	}

	blobs, err := blobstore.New(blobstore.Kind(cfg.Storage), ".", blobstore.S3Config{
		Profile: cfg.S3Profile,
		Region:  cfg.S3Region,
		Bucket:  cfg.S3Bucket,
	})
	if err != nil {
		return fmt.Errorf("epictreed: building blobstore: %w", err)
	}

	store, err := loadStore(blobs, cfg.DataFile, logger)
	if err != nil {
		return fmt.Errorf("epictreed: %w", err)
	}

	limits := ratelimit.NewTable(ratelimit.DefaultQuotas())
	srv := httpapi.NewServer(store, blobs, cfg, limits, logger)
	router, err := srv.Router()
	if err != nil {
		return fmt.Errorf("epictreed: building router: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, router)
}

// loadStore implements the documented startup contract: abort if the
// data file is missing, initialize an empty forest if it is present but
// empty, otherwise deserialize it.
func loadStore(blobs blobstore.Store, dataFile string, logger *log.Logger) (*forest.Store, error) {
	blob, err := blobs.Get(blobstore.Key(dataFile))
	if err != nil {
		return nil, fmt.Errorf("data file %q does not exist; create an empty one first: %w", dataFile, err)
	}
	if len(blob) == 0 {
		logger.WithField("file", dataFile).Info("data file is empty, initializing an empty forest")
		store := forest.New(logger)
		empty, err := store.MarshalSnapshot()
		if err != nil {
			return nil, err
		}
		if err := blobs.Put(blobstore.Key(dataFile), empty); err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := forest.LoadSnapshot(blob, logger)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", dataFile, err)
	}
	return store, nil
}
