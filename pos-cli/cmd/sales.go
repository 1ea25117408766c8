package cmd

import (
	"context"

	"restaurant-pos/pos-cli/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSalesCmd(v *viper.Viper) *cobra.Command {
	salesCmd := &cobra.Command{
		Use:   "sales",
		Short: "Read sales analytics",
	}
	salesCmd.AddCommand(newSalesDailyCmd(v), newSalesRangeCmd(v))
	return salesCmd
}

func newSalesDailyCmd(v *viper.Viper) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Morning, afternoon and evening figures for one business date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				if err := s.LoadDailySales(ctx, date); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s.DailySales())
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "business date, YYYY-MM-DD")
	return cmd
}

func newSalesRangeCmd(v *viper.Viper) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Daily sales for every date in a range",
		Long:  "Without --start and --end the API returns the last 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				if err := s.LoadSales(ctx, start, end); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s.SalesData())
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD")
	return cmd
}
