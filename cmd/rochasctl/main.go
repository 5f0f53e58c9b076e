// rochasctl tareas de operación sobre la base PostgreSQL: migraciones, conciliación
// saldo vs. kardex y alta del primer administrador.
//
// Uso:
//
//	rochasctl migrate
//	rochasctl reconcile [--repair]
//	rochasctl provision-admin --email admin@empresa.com --password ******
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/rochas-api/internal/application/auth"
	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/inventory"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/rochas-api/pkg/config"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

// withPool carga la configuración, abre el pool y ejecuta fn.
func withPool(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: cmd.ErrOrStderr()})
	ctx := cmd.Context()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	return fn(ctx, &env{cfg: cfg, log: log, pool: pool})
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rochasctl",
		Short:         "Operación de rochas-api",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newReconcileCmd(), newProvisionAdminCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, e *env) error {
				applied, err := postgres.Migrate(ctx, e.pool)
				if err != nil {
					return err
				}
				for _, name := range applied {
					fmt.Fprintln(cmd.OutOrStdout(), "aplicada:", name)
				}
				return nil
			})
		},
	}
}

func newReconcileCmd() *cobra.Command {
	var repair bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compara cada saldo con la suma de su kardex",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, e *env) error {
				txRunner := postgres.NewTxRunner(e.pool, e.cfg.Store.TxMaxAttempts, e.log.Named("tx"))
				reconciler := inventory.NewReconciler(txRunner, postgres.NewRegistry(e.pool), e.log.Named("reconcile"))
				report, err := reconciler.ReconcileAll(ctx, repair)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "rocas verificadas: %d, diferencias: %d\n", report.Checked, len(report.Drifts))
				for _, d := range report.Drifts {
					fmt.Fprintf(out, "  %s saldo=%s kardex=%s corregida=%t\n", d.RockID, d.Balance, d.LedgerSum, d.Repaired)
				}
				if len(report.Drifts) > 0 && !repair {
					return fmt.Errorf("%d saldos inconsistentes (usar --repair)", len(report.Drifts))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "fijar cada saldo divergente a la suma del kardex")
	return cmd
}

func newProvisionAdminCmd() *cobra.Command {
	var in dto.ProvisionUserRequest
	cmd := &cobra.Command{
		Use:   "provision-admin",
		Short: "Crea un usuario administrador con su perfil",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = entity.RoleAdmin
			return withPool(cmd, func(ctx context.Context, e *env) error {
				txRunner := postgres.NewTxRunner(e.pool, e.cfg.Store.TxMaxAttempts, e.log.Named("tx"))
				var user *entity.User
				err := txRunner.Run(ctx, func(tx repository.Registry) error {
					var err error
					user, _, err = auth.CreateAccount(ctx, tx, in)
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "administrador %s creado (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre visible")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
