package cmd

import (
	"context"
	"time"

	"restaurant-pos/pos-cli/internal/seed"
	"restaurant-pos/pos-cli/internal/store"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type storeReport struct {
	LastSync    *time.Time                                  `json:"lastSync"`
	Dishes      int                                         `json:"dishes"`
	Ingredients int                                         `json:"ingredients"`
	Orders      int                                         `json:"orders"`
	Status      map[store.Collection]store.CollectionStatus `json:"status"`
}

func report(s *store.Store) storeReport {
	return storeReport{
		LastSync:    s.LastSync(),
		Dishes:      len(s.Dishes()),
		Ingredients: len(s.Ingredients()),
		Orders:      len(s.Orders()),
		Status:      s.Statuses(),
	}
}

func newSyncCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run a server sync, then reload dishes, ingredients and orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				err := s.SyncWithDatabase(ctx)
				if printErr := printJSON(cmd.OutOrStdout(), report(s)); printErr != nil {
					return printErr
				}
				return err
			})
		},
	}
}

func newStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarise the local mirror without contacting the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				return printJSON(cmd.OutOrStdout(), report(s))
			})
		},
	}
}

func newSeedCmd(v *viper.Viper) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Record generated demo orders for the current menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				if err := s.LoadDishes(ctx); err != nil {
					return err
				}
				orders, err := seed.Orders(faker.New(), s.Dishes(), count)
				if err != nil {
					return err
				}

				created := 0
				for _, o := range orders {
					if _, err := s.AddOrder(ctx, o, ""); err != nil {
						_ = printJSON(cmd.OutOrStdout(), map[string]int{"created": created})
						return err
					}
					created++
				}
				return printJSON(cmd.OutOrStdout(), map[string]int{"created": created})
			})
		},
	}
	cmd.Flags().IntVar(&count, "orders", 10, "number of orders to create")
	return cmd
}
