// Package seed generates demo orders for the dishes the API already serves.
package seed

import (
	"errors"

	"restaurant-pos/pos-cli/internal/domain"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

var ErrNoDishes = errors.New("no active dishes to order from")

var TaxRate = decimal.NewFromFloat(0.08)

var paymentMethods = []string{"cash", "card", "mobile"}

// Orders builds n orders of one to three distinct dishes each. Totals are rounded to cents and
// always equal subtotal plus tax.
func Orders(fake faker.Faker, dishes []domain.Dish, n int) ([]domain.Order, error) {
	var menu []domain.Dish
	for _, d := range dishes {
		if d.IsActive && d.ID != "" {
			menu = append(menu, d)
		}
	}
	if len(menu) == 0 {
		return nil, ErrNoDishes
	}

	cashiers := make([]string, 3)
	for i := range cashiers {
		cashiers[i] = fake.Person().FirstName()
	}

	orders := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, order(fake, menu, cashiers))
	}
	return orders, nil
}

func order(fake faker.Faker, menu []domain.Dish, cashiers []string) domain.Order {
	count := min(fake.IntBetween(1, 3), len(menu))
	picked := map[int]bool{}

	var items []domain.OrderItem
	for len(items) < count {
		i := fake.IntBetween(0, len(menu)-1)
		if picked[i] {
			continue
		}
		picked[i] = true

		dish := menu[i]
		item := domain.OrderItem{DishID: dish.ID, DishName: dish.Name, Quantity: fake.IntBetween(1, 3), Price: dish.Price}
		if fake.IntBetween(1, 5) == 1 {
			item.Notes = fake.Lorem().Sentence(4)
		}
		items = append(items, item)
	}

	o := domain.Order{
		Items:         items,
		PaymentMethod: fake.RandomStringElement(paymentMethods),
		CashierID:     fake.RandomStringElement(cashiers),
	}
	o.Subtotal, o.Tax, o.Total = Totals(items)
	if fake.Bool() {
		o.CustomerID = fake.UUID().V4()
	}
	return o
}

// Totals prices items at the standard tax rate.
func Totals(items []domain.OrderItem) (subtotal, tax, total float64) {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	sum = sum.Round(2)
	t := sum.Mul(TaxRate).Round(2)
	return sum.InexactFloat64(), t.InexactFloat64(), sum.Add(t).InexactFloat64()
}
