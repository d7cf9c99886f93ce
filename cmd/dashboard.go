package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the interviewer API over the candidate registry",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		serveDashboard(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringP("listen", "l", "", "listen address, e.g. :8080")
	viper.BindPFlag("dashboard.listen", dashboardCmd.Flags().Lookup("listen"))
}

func serveDashboard(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := setup(ctx)
	defer e.Close()

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := dashboard.NewRouter(e.candidates, e.logger)
	if err := dashboard.Serve(ctx, dashboard.Addr(e.config.Dashboard.Listen), router, e.logger); err != nil {
		e.logger.Fatal("dashboard stopped", zap.Error(err))
	}
}
