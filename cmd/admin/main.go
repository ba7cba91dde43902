// Command admin manages roles and cache entries from the shell.
package main

import (
	"context"
	"fmt"
	"os"

	"inkwell/internal/bootstrap"
	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Inkwell admin utilities",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		roleCmd("promote", "Grant admin rights to a user", models.RoleAdmin),
		roleCmd("demote", "Revoke admin rights from a user", models.RoleUser),
		listAdminsCmd(),
		cacheCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withRuntime loads configuration, opens the database and cache, runs fn and
// closes everything again.
func withRuntime(ctx context.Context, fn func(*bootstrap.Runtime) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rt, err := bootstrap.InitRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}

func userService(rt *bootstrap.Runtime) *service.UserService {
	return service.NewUserService(repository.NewUserRepository(rt.DB), rt.Cache)
}

func roleCmd(use, short string, role models.Role) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *bootstrap.Runtime) error {
				user, err := userService(rt).SetRole(cmd.Context(), args[0], role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (ID: %s) is now %s\n", user.Username, user.ID, user.Role)
				return nil
			})
		},
	}
}

func listAdminsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-admins",
		Short: "List all admins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *bootstrap.Runtime) error {
				admins, err := userService(rt).ListAdmins(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(admins) == 0 {
					fmt.Fprintln(out, "No admins found")
					return nil
				}
				for _, a := range admins {
					fmt.Fprintf(out, "ID: %s | Username: %s | Email: %s\n", a.ID, a.Username, a.Email)
				}
				return nil
			})
		},
	}
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cache entries",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "flush-key <key>...",
		Short:   "Invalidate one or more cache keys, e.g. posts or users?id=<id>",
		Args:    cobra.MinimumNArgs(1),
		Example: "  admin cache flush-key posts 'posts?id=0b6c...'",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(rt *bootstrap.Runtime) error {
				for _, key := range args {
					if err := rt.Cache.Invalidate(cmd.Context(), key); err != nil {
						return fmt.Errorf("invalidate %q: %w", key, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "invalidated %s\n", key)
				}
				return nil
			})
		},
	})
	return cmd
}
