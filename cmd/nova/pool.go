package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/oriys/nova/internal/ownerbridge"
	"github.com/oriys/nova/internal/resourcepool"
	"github.com/oriys/nova/internal/store"
	"github.com/spf13/cobra"
)

func poolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage resource pools (IP addresses, VNIs, and other discrete allocatable values)",
	}
	cmd.AddCommand(poolGrowCmd(), poolStatsCmd(), poolListCmd(), poolAssignCmd(), poolUnassignCmd())
	return cmd
}

func getResourcePoolStore() (*store.PostgresStore, error) {
	cfg := loadConfig()
	if pgDSN != "" {
		cfg.Postgres.DSN = pgDSN
	}
	return store.NewPostgresStore(context.Background(), cfg.Postgres.DSN)
}

func poolGrowCmd() *cobra.Command {
	var autoAssign bool
	cmd := &cobra.Command{
		Use:   "grow <definitions.toml>",
		Short: "Grow one or more pools from a TOML definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			defs, err := resourcepool.ParseDefinitions(string(text))
			if err != nil {
				return err
			}

			s, err := getResourcePoolStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := context.Background()
			for _, def := range defs {
				if err := resourcepool.Populate(ctx, s.Pool(), def.Name, def.ValueType, def.SeedValues, autoAssign); err != nil {
					return fmt.Errorf("grow %s: %w", def.Name, err)
				}
				fmt.Printf("grew %s (%s): %d values\n", def.Name, def.ValueType, len(def.SeedValues))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&autoAssign, "auto-assign", true, "mark newly added values as eligible for automatic allocation")
	return cmd
}

func poolStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <name>",
		Short: "Show allocation statistics for one pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getResourcePoolStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := context.Background()
			stats, err := resourcepool.Stats(ctx, s.Pool(), args[0])
			if err != nil {
				return err
			}
			min, max, err := resourcepool.Bounds(ctx, s.Pool(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
			fmt.Fprintf(w, "pool\t%s\n", args[0])
			fmt.Fprintf(w, "range\t%s - %s\n", min, max)
			fmt.Fprintf(w, "used\t%d\n", stats.Used)
			fmt.Fprintf(w, "free\t%d\n", stats.Free)
			fmt.Fprintf(w, "auto-assign used/free\t%d / %d\n", stats.AutoAssignUsed, stats.AutoAssignFree)
			fmt.Fprintf(w, "manual used/free\t%d / %d\n", stats.NonAutoAssignUsed, stats.NonAutoAssignFree)
			return w.Flush()
		},
	}
	return cmd
}

func poolListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every resource pool and its allocation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getResourcePoolStore()
			if err != nil {
				return err
			}
			defer s.Close()

			snapshots, err := resourcepool.All(context.Background(), s.Pool())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tRANGE\tUSED\tFREE")
			for _, snap := range snapshots {
				fmt.Fprintf(w, "%s\t%s\t%s - %s\t%d\t%d\n",
					snap.Name, snap.ValueType, snap.Min, snap.Max, snap.Stats.Used, snap.Stats.Free)
			}
			return w.Flush()
		},
	}
	return cmd
}

// poolAssignCmd ties an owner (a VPC, machine, or instance in the control
// plane's own terms) to a value from a pool, the CLI equivalent of the
// allocate-on-create step an owner-lifecycle RPC handler runs inside its own
// transaction. Repeating it for the same owner/pool returns the value
// already held rather than allocating a second one.
func poolAssignCmd() *cobra.Command {
	var requested string
	cmd := &cobra.Command{
		Use:   "assign <pool> <owner-type> <owner-id>",
		Short: "Assign a value from a pool to an owner, or return the one it already holds",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getResourcePoolStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var req *string
			if requested != "" {
				req = &requested
			}

			value, err := ownerbridge.Assign(context.Background(), s.Pool(), resourcepool.OwnerType(args[1]), args[2], args[0], req)
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
	cmd.Flags().StringVar(&requested, "value", "", "request a specific value instead of auto-assigning one")
	return cmd
}

// poolUnassignCmd releases everything an owner holds across every pool it
// was assigned from and forgets the owner, the CLI equivalent of the
// release-on-delete step an owner-lifecycle RPC handler runs. Running it
// twice for the same owner fails the second time rather than silently
// re-releasing a value that may since have been reassigned to someone else.
func poolUnassignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unassign <owner-type> <owner-id>",
		Short: "Release everything an owner holds and forget it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getResourcePoolStore()
			if err != nil {
				return err
			}
			defer s.Close()

			return ownerbridge.Release(context.Background(), s.Pool(), resourcepool.OwnerType(args[0]), args[1])
		},
	}
	return cmd
}
