package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/gasflow/internal/config"
	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/validation"
)

type opsRunner func(fn func(cmd *cobra.Command, ops operations) error) func(*cobra.Command, []string) error

func newMigrateCmd(out io.Writer, b backend, loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			version, err := b.migrate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printJSON(out, map[string]int64{"schema_version": version})
		},
	}
}

func newUserCmd(out io.Writer, withOps opsRunner) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var username, password, role string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator or driver account",
		RunE: withOps(func(cmd *cobra.Command, ops operations) error {
			u, err := ops.CreateUser(cmd.Context(), username, password, model.Role(role))
			if err != nil {
				return err
			}
			return printJSON(out, map[string]string{
				"id":       u.ID.String(),
				"username": u.Username,
				"role":     string(u.Role),
			})
		}),
	}
	createCmd.Flags().StringVar(&username, "username", "", "login name")
	createCmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	createCmd.Flags().StringVar(&role, "role", string(model.RoleDriver), "ADMIN or DRIVER")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd)
	return userCmd
}

type dailyReportOutput struct {
	Date             string `json:"date"`
	EntregasDia      int64  `json:"entregas_dia"`
	LlenasEntregadas int64  `json:"llenas_entregadas"`
	VaciasRecibidas  int64  `json:"vacias_recibidas"`
	Pendiente        int64  `json:"pendiente"`
}

type stockSummaryOutput struct {
	Date                       *string `json:"date"`
	InboundFull                int64   `json:"inbound_llenas"`
	DeliveredFull              int64   `json:"llenas_entregadas"`
	RecoveredEmpty             int64   `json:"vacias_recibidas"`
	LlenasDisponiblesEstimadas int64   `json:"llenas_disponibles_estimadas"`
	VaciasDepositoEstimadas    int64   `json:"vacias_deposito_estimadas"`
	PendientesRecuperar        int64   `json:"pendientes_recuperar"`
}

func newReportCmd(out io.Writer, withOps opsRunner) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print operational reports",
	}

	var dailyDate string
	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Deliveries and cylinders exchanged on one day (default today)",
		RunE: withOps(func(cmd *cobra.Command, ops operations) error {
			day, err := validation.ParseOptionalDate("date", dailyDate)
			if err != nil {
				return err
			}
			r, err := ops.DailyReport(cmd.Context(), day)
			if err != nil {
				return err
			}
			return printJSON(out, dailyReportOutput{
				Date:             r.Date.Format(model.DateLayout),
				EntregasDia:      r.Deliveries,
				LlenasEntregadas: r.DeliveredFull,
				VaciasRecibidas:  r.RecoveredEmpty,
				Pendiente:        r.Pending,
			})
		}),
	}
	dailyCmd.Flags().StringVar(&dailyDate, "date", "", "day in YYYY-MM-DD format")

	var stockDate string
	stockCmd := &cobra.Command{
		Use:   "stock",
		Short: "Estimated stock as of a date (default whole history)",
		RunE: withOps(func(cmd *cobra.Command, ops operations) error {
			cutoff, err := validation.ParseOptionalDate("date", stockDate)
			if err != nil {
				return err
			}
			s, err := ops.StockSummary(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			o := stockSummaryOutput{
				InboundFull:                s.InboundFull,
				DeliveredFull:              s.DeliveredFull,
				RecoveredEmpty:             s.RecoveredEmpty,
				LlenasDisponiblesEstimadas: s.EstimatedFullOnHand,
				VaciasDepositoEstimadas:    s.EstimatedEmptyAtDepot,
				PendientesRecuperar:        s.PendingRecovery,
			}
			if s.Date != nil {
				d := s.Date.Format(model.DateLayout)
				o.Date = &d
			}
			return printJSON(out, o)
		}),
	}
	stockCmd.Flags().StringVar(&stockDate, "date", "", "cutoff day in YYYY-MM-DD format")

	reportCmd.AddCommand(dailyCmd, stockCmd)
	return reportCmd
}
