// invctl herramienta de operación del almacén: migraciones, administrador principal,
// importación de la planilla CSV y consulta del libro de movimientos.
//
// Uso: go run ./cmd/invctl <comando> [flags]
// Lee la misma configuración que el servidor (DB_DRIVER, SQLITE_PATH, DATABASE_URL...).
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var (
	latin1    bool
	limit     int
	reportOut string

	cfg *config.Config
	log *logger.Logger

	rootCmd = &cobra.Command{
		Use:           "invctl",
		Short:         "Operación del almacén desde la línea de comandos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			log = logger.New(logger.Config{Env: "development", Level: cfg.Log.Level})
			return nil
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backend.Open(cmd.Context(), cfg.DB, log)
			if err != nil {
				return err
			}
			defer b.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "migraciones aplicadas (%s)\n", b.Driver)
			return nil
		},
	}

	seedAdminCmd = &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea el administrador principal si la base no tiene usuarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backend.Open(cmd.Context(), cfg.DB, log)
			if err != nil {
				return err
			}
			defer b.Close()
			uc := usecase.NewUserUseCase(b.TxRunner, b.Read, cfg.Auth.MasterCode, log)
			created, err := uc.EnsurePrimaryAdmin(cmd.Context(), usecase.PrimaryAdmin{
				Name:     cfg.Admin.Name,
				Email:    cfg.Admin.Email,
				Password: cfg.Admin.Password,
			})
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "administrador %s creado\n", cfg.Admin.Email)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "ya existen usuarios, nada que hacer")
			}
			return nil
		},
	}

	importCmd = &cobra.Command{
		Use:   "import-csv <archivo>",
		Short: "Importa la planilla CSV exportada (coma o punto y coma)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()

			b, err := backend.Open(cmd.Context(), cfg.DB, log)
			if err != nil {
				return err
			}
			defer b.Close()
			uc := usecase.NewProductUseCase(b.TxRunner, b.Read, nil, log, nil)
			sum, err := uc.ImportCSV(cmd.Context(), f, latin1, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s insertados=%d omitidos=%d\n", sum.Message, sum.Inserted, sum.Skipped)
			return nil
		},
	}

	movementsCmd = &cobra.Command{
		Use:   "movements",
		Short: "Lista los movimientos, el más reciente primero",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backend.Open(cmd.Context(), cfg.DB, log)
			if err != nil {
				return err
			}
			defer b.Close()
			uc := inventory.NewLedgerUseCase(b.TxRunner, b.Read, log, nil)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FECHA\tCÓDIGO\tPRODUCTO\tTIPO\tCANT.\tSALDO")
			n := 0
			for m, err := range uc.Movements(cmd.Context()) {
				if err != nil {
					return err
				}
				if limit > 0 && n >= limit {
					break
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
					m.CreatedAt.Local().Format("2006-01-02 15:04"), m.ProductCode, m.ProductName, m.Kind, m.Amount, m.BalanceAfter)
				n++
			}
			return w.Flush()
		},
	}

	reportCmd = &cobra.Command{
		Use:   "stock-report",
		Short: "Genera el reporte de existencias en PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backend.Open(cmd.Context(), cfg.DB, log)
			if err != nil {
				return err
			}
			defer b.Close()
			uc := usecase.NewProductUseCase(b.TxRunner, b.Read, infrapdf.NewStockReportGenerator(""), log, nil)
			pdf, err := uc.StockReport(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(reportOut, pdf, 0o644); err != nil {
				return fmt.Errorf("escribir reporte: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reporte escrito en %s\n", reportOut)
			return nil
		},
	}
)

func init() {
	importCmd.Flags().BoolVar(&latin1, "latin1", false, "decodificar el archivo como Windows-1252")
	movementsCmd.Flags().IntVarP(&limit, "limit", "n", 50, "máximo de movimientos a mostrar (0 = todos)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "existencias.pdf", "archivo de salida")

	rootCmd.AddCommand(migrateCmd, seedAdminCmd, importCmd, movementsCmd, reportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
