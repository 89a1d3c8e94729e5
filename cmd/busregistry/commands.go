/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/suparena/busregistry"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := busregistry.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "busregistry version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		},
	}
}

func newProvisionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "provision",
		Short:   "Create the subscription table and verify the store health check",
		Args:    cobra.NoArgs,
		PreRunE: c.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reg, store, closeFn, err := c.newRegistry(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Provision(ctx); err != nil {
				return fmt.Errorf("provisioning %s store: %w", c.cfg.Store.Driver, err)
			}
			if err := reg.Initialize(ctx, c.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store provisioned\n", c.cfg.Store.Driver)
			return nil
		},
	}
}

func newRegisterCmd(c *cli) *cobra.Command {
	var smoke bool

	cmd := &cobra.Command{
		Use:   "register [message-type...]",
		Short: "Subscribe the configured endpoint to message types",
		Long: `Subscribe the configured endpoint to each message type. The names are queued
first and replayed when the registry binds, as they would be at bus startup.

With --smoke a uniquely named probe type is registered and looked up as well.`,
		PreRunE: c.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !smoke {
				return fmt.Errorf("at least one message type is required")
			}
			ctx := cmd.Context()
			reg, _, closeFn, err := c.newRegistry(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			names := args
			var probe string
			if smoke {
				probe = "busregistry.Smoke." + uuid.NewString()
				names = append(names, probe)
			}

			if err := reg.Register(ctx, names...); err != nil {
				return err
			}
			if err := reg.Initialize(ctx, c.cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintf(out, "registered %s -> %s\n", name, reg.EndpointAddress())
			}

			if probe != "" {
				addrs, err := reg.Lookup(ctx, probe)
				if err != nil {
					return err
				}
				if len(addrs) != 1 || addrs[0] != reg.EndpointAddress() {
					return fmt.Errorf("smoke lookup for %s returned %v", probe, addrs)
				}
				fmt.Fprintln(out, "smoke lookup ok")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&smoke, "smoke", false, "register and look up a unique probe type")
	return cmd
}

func newLookupCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <message-type>",
		Short:   "List the endpoints subscribed to a message type",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, _, closeFn, err := c.newRegistry(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			addrs, err := reg.Lookup(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, addr := range addrs {
				fmt.Fprintln(out, addr)
			}
			return nil
		},
	}
}
