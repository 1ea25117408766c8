package cmd

import (
	"context"
	"fmt"
	"strconv"

	"restaurant-pos/pos-cli/internal/domain"
	"restaurant-pos/pos-cli/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newIngredientsCmd(v *viper.Viper) *cobra.Command {
	ingredientsCmd := &cobra.Command{
		Use:   "ingredients",
		Short: "List and stock ingredients",
	}
	ingredientsCmd.AddCommand(newIngredientsListCmd(v), newIngredientsAddCmd(v), newIngredientsSetQuantityCmd(v))
	return ingredientsCmd
}

func newIngredientsListCmd(v *viper.Viper) *cobra.Command {
	var cached bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Reload and print ingredients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				if !cached {
					if err := s.LoadIngredients(ctx); err != nil {
						return err
					}
				}
				return printJSON(cmd.OutOrStdout(), s.Ingredients())
			})
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "print the local mirror without contacting the API")
	return cmd
}

func newIngredientsAddCmd(v *viper.Viper) *cobra.Command {
	var ingredient domain.Ingredient
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an ingredient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				created, err := s.AddIngredient(ctx, ingredient)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), created)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&ingredient.Name, "name", "", "ingredient name")
	flags.StringVar(&ingredient.Unit, "unit", "", "stock unit, e.g. kg")
	flags.Float64Var(&ingredient.QuantityToday, "quantity", 0, "quantity on hand today")
	flags.Float64Var(&ingredient.MinThreshold, "min-threshold", 0, "low-stock threshold")
	flags.Float64Var(&ingredient.CostPerUnit, "cost", 0, "cost per unit")
	flags.StringVar(&ingredient.Supplier, "supplier", "", "supplier name")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newIngredientsSetQuantityCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <id> <quantity>",
		Short: "Set today's on-hand quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				updated, err := s.SetIngredientQuantity(ctx, args[0], quantity)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), updated)
			})
		},
	}
}
