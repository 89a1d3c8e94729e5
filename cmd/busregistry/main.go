/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/suparena/busregistry"
	"github.com/suparena/busregistry/config"
	"github.com/suparena/busregistry/datastore"
	"github.com/suparena/busregistry/datastore/ddb"
	"github.com/suparena/busregistry/datastore/sqlstore"
	"github.com/suparena/busregistry/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand.
type cli struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	info := busregistry.GetVersionInfo()

	root := &cobra.Command{
		Use:           "busregistry",
		Short:         "Manage message bus subscriptions",
		Long:          `Provision the subscription store, register message types for the local endpoint and look up subscribers.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newVersionCmd(),
		newProvisionCmd(c),
		newRegisterCmd(c),
		newLookupCmd(c),
	)
	return root
}

// load reads configuration and installs the logger. Subcommands that touch the
// store call it from PreRunE.
func (c *cli) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	c.cfg = cfg
	c.logger = logging.Init("busregistry", cmd.ErrOrStderr(), cfg.Log.Level)
	return nil
}

// subscriptionStore is what the CLI needs from a backend.
type subscriptionStore interface {
	datastore.DataStore
	datastore.Provisioner
}

// openStore builds the configured backend. The returned func releases it.
func (c *cli) openStore(ctx context.Context) (subscriptionStore, func(), error) {
	switch c.cfg.Store.Driver {
	case config.DriverDynamoDB:
		s, err := ddb.Open(ctx,
			c.cfg.Store.AccessKey, c.cfg.Store.SecretKey, c.cfg.Store.Region, c.cfg.Store.Endpoint,
			c.cfg.Store.TableName,
			ddb.WithQueryOptions(c.cfg.QueryOptions()...),
			ddb.WithLogger(c.logger),
		)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.DriverSQLite:
		s, err := sqlstore.Open(c.cfg.Store.SQLitePath, sqlstore.WithLogger(c.logger))
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", c.cfg.Store.Driver)
	}
}

// newRegistry opens the store and wraps it in an unbound registry.
func (c *cli) newRegistry(ctx context.Context) (*busregistry.SubscriptionRegistry, subscriptionStore, func(), error) {
	store, closeFn, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	reg, err := busregistry.New(store, busregistry.WithLogger(c.logger))
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return reg, store, closeFn, nil
}
