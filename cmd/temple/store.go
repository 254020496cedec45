package main

import (
	"context"
	"fmt"

	"github.com/Comcast/temple/dicta/bolt"
	"github.com/Comcast/temple/sio"
	"github.com/Comcast/temple/tools"

	"github.com/spf13/cobra"
)

func newStoreCmd(a *app) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage libraries in a BoltDB file",
	}
	cmd.PersistentFlags().StringVar(&db, "db", "temple.db", "library store (BoltDB file)")

	with := func(f func(ctx context.Context, cmd *cobra.Command, st *bolt.Storage, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			st, err := openStorage(db, a.log())
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return f(ctx, cmd, st, args)
		}
	}

	put := &cobra.Command{
		Use:   "put LIBRARY...",
		Short: "Store library files, replacing any with the same names",
		Args:  cobra.MinimumNArgs(1),
		RunE: with(func(ctx context.Context, cmd *cobra.Command, st *bolt.Storage, args []string) error {
			for _, filename := range args {
				l, err := tools.ReadLibrary(filename)
				if err != nil {
					return err
				}
				if err = st.PutLibrary(ctx, l); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d dicta\n", l.Name, len(l.Dicta))
			}
			return nil
		}),
	}

	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored library as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, cmd *cobra.Command, st *bolt.Storage, args []string) error {
			l, err := st.GetLibrary(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sio.JSON(l))
			return nil
		}),
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List stored libraries",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, cmd *cobra.Command, st *bolt.Storage, args []string) error {
			names, err := st.Libraries(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	}

	rm := &cobra.Command{
		Use:   "rm NAME...",
		Short: "Remove stored libraries",
		Args:  cobra.MinimumNArgs(1),
		RunE: with(func(ctx context.Context, cmd *cobra.Command, st *bolt.Storage, args []string) error {
			for _, name := range args {
				if err := st.RemLibrary(ctx, name); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		}),
	}

	cmd.AddCommand(put, get, ls, rm)

	return cmd
}
