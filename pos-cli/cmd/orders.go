package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurant-pos/pos-cli/internal/domain"
	"restaurant-pos/pos-cli/internal/seed"
	"restaurant-pos/pos-cli/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newOrdersCmd(v *viper.Viper) *cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "List, record and settle orders",
	}
	ordersCmd.AddCommand(newOrdersListCmd(v), newOrdersAddCmd(v), newOrdersSetStatusCmd(v))
	return ordersCmd
}

func newOrdersListCmd(v *viper.Viper) *cobra.Command {
	var (
		filter domain.OrderFilter
		cached bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Reload and print orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				if !cached {
					if err := s.LoadOrders(ctx, filter); err != nil {
						return err
					}
				}
				return printJSON(cmd.OutOrStdout(), s.Orders())
			})
		},
	}
	cmd.Flags().StringVar(&filter.StartDate, "start", "", "first business date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.EndDate, "end", "", "last business date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&cached, "cached", false, "print the local mirror without contacting the API")
	return cmd
}

func newOrdersAddCmd(v *viper.Viper) *cobra.Command {
	var (
		lines          []string
		order          domain.Order
		idempotencyKey string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a paid order",
		Long: `Items are given as dish_id:quantity. Prices come from the dish collection, which is reloaded
when an item is not in the local mirror. Totals include tax.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				items, err := priceItems(ctx, s, lines)
				if err != nil {
					return err
				}
				order.Items = items
				order.Subtotal, order.Tax, order.Total = seed.Totals(items)

				created, err := s.AddOrder(ctx, order, idempotencyKey)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), created)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVar(&lines, "item", nil, "dish_id:quantity, repeatable")
	flags.StringVar(&order.PaymentMethod, "payment", "cash", "cash, card or mobile")
	flags.StringVar(&order.CashierID, "cashier", "", "cashier id")
	flags.StringVar(&order.CustomerID, "customer", "", "customer id")
	flags.StringVar(&idempotencyKey, "idempotency-key", "", "reuse a key to retry a submission safely (generated when empty)")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("cashier")
	return cmd
}

func newOrdersSetStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <pending|completed|cancelled>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, v, func(ctx context.Context, s *store.Store) error {
				updated, err := s.UpdateOrderStatus(ctx, args[0], domain.OrderStatus(args[1]))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), updated)
			})
		},
	}
}

func priceItems(ctx context.Context, s *store.Store, lines []string) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		dishID, qty, ok := strings.Cut(line, ":")
		quantity, err := strconv.Atoi(qty)
		if !ok || dishID == "" || err != nil || quantity < 1 {
			return nil, fmt.Errorf("invalid item %q, expected dish_id:quantity", line)
		}
		items = append(items, domain.OrderItem{DishID: dishID, Quantity: quantity})
	}

	dishes := dishIndex(s.Dishes())
	for _, item := range items {
		if _, ok := dishes[item.DishID]; !ok {
			if err := s.LoadDishes(ctx); err != nil {
				return nil, err
			}
			dishes = dishIndex(s.Dishes())
			break
		}
	}

	for i, item := range items {
		dish, ok := dishes[item.DishID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", store.ErrDishNotFound, item.DishID)
		}
		items[i].DishName = dish.Name
		items[i].Price = dish.Price
	}
	return items, nil
}

func dishIndex(dishes []domain.Dish) map[string]domain.Dish {
	index := make(map[string]domain.Dish, len(dishes))
	for _, d := range dishes {
		index[d.ID] = d
	}
	return index
}
