package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pricewise/pricewise-api/internal/config"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/storage"
	"github.com/pricewise/pricewise-api/pkg/dummyjson"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	dataDir    string
	driver     string
	catalogURL string
	timeout    time.Duration
	verbose    bool
}

// session is the local profile opened for one command.
type session struct {
	state   *service.State
	store   storage.Backend
	catalog *service.CatalogService
	out     io.Writer
}

func (s *session) Close() error {
	return s.store.Close()
}

func (s *session) print(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pricewise",
		Short: "Compare deals and manage favourites, alerts and history locally",
		Long: `pricewise keeps a single local profile on disk.

Available subcommands:
  deal    - Compare the two sellers for a catalog product
  fav     - Toggle and list favourite products
  alert   - Manage price alerts
  history - Manage recently viewed products`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.dataDir, "data-dir", "data", "directory holding the local profile")
	pf.StringVar(&opts.driver, "driver", config.StorageFile, "storage driver: file or sqlite")
	pf.StringVar(&opts.catalogURL, "catalog-url", dummyjson.DefaultBaseURL, "product catalog base URL")
	pf.DurationVar(&opts.timeout, "timeout", 15*time.Second, "catalog request timeout")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newDealCmd(opts),
		newFavCmd(opts),
		newAlertCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

// open loads the local profile from the configured backend.
func (o *options) open(ctx context.Context, out io.Writer) (*session, error) {
	var (
		store storage.Backend
		err   error
	)
	switch o.driver {
	case config.StorageFile:
		store, err = storage.NewFileStore(o.dataDir)
	case config.StorageSQLite:
		store, err = storage.OpenSQLite(filepath.Join(o.dataDir, "pricewise.db"))
	default:
		return nil, fmt.Errorf("unsupported driver %q (want file or sqlite)", o.driver)
	}
	if err != nil {
		return nil, err
	}

	st, err := service.LoadState(ctx, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := dummyjson.NewClient(dummyjson.Config{BaseURL: o.catalogURL, Timeout: o.timeout})
	return &session{
		state:   st,
		store:   store,
		catalog: service.NewCatalogService(client, nil),
		out:     out,
	}, nil
}

// run opens the profile, runs fn and closes the profile.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := o.open(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
