package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurant-pos/pos-cli/internal/domain"
	"restaurant-pos/pos-cli/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDishesCmd(v *viper.Viper) *cobra.Command {
	dishesCmd := &cobra.Command{
		Use:   "dishes",
		Short: "List and edit menu dishes",
	}
	dishesCmd.AddCommand(newDishesListCmd(v), newDishesAddCmd(v), newDishesUpdateCmd(v), newDishesDeleteCmd(v))
	return dishesCmd
}

func newDishesListCmd(v *viper.Viper) *cobra.Command {
	var cached bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Reload and print active dishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				if !cached {
					if err := s.LoadDishes(ctx); err != nil {
						return err
					}
				}
				return printJSON(cmd.OutOrStdout(), s.Dishes())
			})
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "print the local mirror without contacting the API")
	return cmd
}

func newDishesAddCmd(v *viper.Viper) *cobra.Command {
	var (
		dish        domain.Dish
		ingredients []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a dish",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseDishIngredients(ingredients)
			if err != nil {
				return err
			}
			dish.Ingredients = items
			dish.IsActive = true
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				created, err := s.AddDish(ctx, dish)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), created)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&dish.Name, "name", "", "dish name")
	flags.Float64Var(&dish.Price, "price", 0, "menu price")
	flags.StringVar(&dish.Category, "category", "", "menu category")
	flags.StringVar(&dish.Description, "description", "", "menu description")
	flags.IntVar(&dish.PreparationTime, "prep-time", 0, "preparation time in minutes")
	flags.StringVar(&dish.DifficultyLevel, "difficulty", "", "easy, medium or hard")
	flags.StringArrayVar(&ingredients, "ingredient", nil, "recipe line as ingredient_id:quantity:unit, repeatable")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newDishesUpdateCmd(v *viper.Viper) *cobra.Command {
	var (
		version     int
		ingredients []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a dish",
		Long: `Only the flags that are given are sent. The locally cached version is sent with the change
unless --version is set; the API rejects the change when the dish was edited since.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			patch := domain.DishPatch{Version: version}
			if flags.Changed("name") {
				name, _ := flags.GetString("name")
				patch.Name = &name
			}
			if flags.Changed("price") {
				price, _ := flags.GetFloat64("price")
				patch.Price = &price
			}
			if flags.Changed("category") {
				category, _ := flags.GetString("category")
				patch.Category = &category
			}
			if flags.Changed("description") {
				description, _ := flags.GetString("description")
				patch.Description = &description
			}
			if flags.Changed("prep-time") {
				prepTime, _ := flags.GetInt("prep-time")
				patch.PreparationTime = &prepTime
			}
			if flags.Changed("difficulty") {
				difficulty, _ := flags.GetString("difficulty")
				patch.DifficultyLevel = &difficulty
			}
			if flags.Changed("active") {
				active, _ := flags.GetBool("active")
				patch.IsActive = &active
			}
			if flags.Changed("ingredient") {
				items, err := parseDishIngredients(ingredients)
				if err != nil {
					return err
				}
				patch.Ingredients = &items
			}

			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				updated, err := s.UpdateDish(ctx, args[0], patch)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), updated)
			})
		},
	}
	flags := cmd.Flags()
	flags.String("name", "", "dish name")
	flags.Float64("price", 0, "menu price")
	flags.String("category", "", "menu category")
	flags.String("description", "", "menu description")
	flags.Int("prep-time", 0, "preparation time in minutes")
	flags.String("difficulty", "", "easy, medium or hard")
	flags.Bool("active", true, "whether the dish is on the menu")
	flags.StringArrayVar(&ingredients, "ingredient", nil, "replace the recipe, ingredient_id:quantity:unit, repeatable")
	flags.IntVar(&version, "version", 0, "expected current version")
	return cmd
}

func newDishesDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a dish from the menu",
		Long:  "The dish must be in the local collection; run `pos-cli dishes list` first to refresh it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				if err := s.DeleteDish(ctx, args[0]); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			})
		},
	}
}

func parseDishIngredients(lines []string) ([]domain.DishIngredient, error) {
	items := make([]domain.DishIngredient, 0, len(lines))
	for _, line := range lines {
		parts := strings.Split(line, ":")
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid ingredient %q, expected ingredient_id:quantity:unit", line)
		}
		quantity, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", line, err)
		}
		items = append(items, domain.DishIngredient{IngredientID: parts[0], Quantity: quantity, Unit: parts[2]})
	}
	return items, nil
}
