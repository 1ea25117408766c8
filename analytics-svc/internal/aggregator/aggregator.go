// Package aggregator partitions a business day into morning, afternoon and evening buckets and
// computes order count, revenue and average order value per bucket and in total.
//
// All functions are pure: the same sales and policy always produce the same output.
package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout   = "2006-01-02"
	MaxRangeDays = 366

	// StatusCompleted is the only sale status that contributes to the metrics.
	StatusCompleted = "completed"
)

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidRange  = errors.New("end date is before start date")
	ErrRangeTooLarge = fmt.Errorf("date range exceeds %d days", MaxRangeDays)
	ErrInvalidPolicy = errors.New("invalid bucket policy")
)

type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

var Periods = []Period{Morning, Afternoon, Evening}

// BucketPolicy maps an hour of day, read in Location, to a period. Morning covers
// [MorningStart, AfternoonStart), afternoon [AfternoonStart, EveningStart) and evening the rest
// of the day. Hours before MorningStart belong to no period.
type BucketPolicy struct {
	MorningStart   int
	AfternoonStart int
	EveningStart   int
	Location       *time.Location
}

func DefaultPolicy() BucketPolicy {
	return BucketPolicy{MorningStart: 0, AfternoonStart: 12, EveningStart: 18, Location: time.UTC}
}

func (p BucketPolicy) Validate() error {
	if p.MorningStart < 0 || p.MorningStart >= p.AfternoonStart ||
		p.AfternoonStart >= p.EveningStart || p.EveningStart > 23 {
		return fmt.Errorf("%w: need 0 <= morning < afternoon < evening <= 23, got %d/%d/%d",
			ErrInvalidPolicy, p.MorningStart, p.AfternoonStart, p.EveningStart)
	}
	return nil
}

func (p BucketPolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// PeriodOf returns the period t falls in and false when it falls in none.
func (p BucketPolicy) PeriodOf(t time.Time) (Period, bool) {
	hour := t.In(p.location()).Hour()
	switch {
	case hour < p.MorningStart:
		return "", false
	case hour < p.AfternoonStart:
		return Morning, true
	case hour < p.EveningStart:
		return Afternoon, true
	default:
		return Evening, true
	}
}

// DateOf is the calendar date of t in the policy's location.
func (p BucketPolicy) DateOf(t time.Time) string {
	return t.In(p.location()).Format(DateLayout)
}

// DayBounds returns the instants [start, end) covering the given calendar day.
func (p BucketPolicy) DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, p.location())
	return start, start.AddDate(0, 0, 1)
}

// ParseDate reads a YYYY-MM-DD calendar date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

type Sale struct {
	Timestamp time.Time
	Total     float64
	Status    string
}

type PeriodMetric struct {
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
	AvgOrder float64 `json:"avgOrder"`
}

// DailySales holds one business date. Total.Revenue is the sum of the three rounded period
// revenues, exact to the cent; adding the float64 fields back together may differ in the last
// binary digit, so compare them as cents.
type DailySales struct {
	Date      string       `json:"date"`
	Morning   PeriodMetric `json:"morning"`
	Afternoon PeriodMetric `json:"afternoon"`
	Evening   PeriodMetric `json:"evening"`
	Total     PeriodMetric `json:"total"`
}

type bucket struct {
	orders  int
	revenue decimal.Decimal
}

type day map[Period]*bucket

func (d day) add(period Period, total float64) {
	b, ok := d[period]
	if !ok {
		b = &bucket{}
		d[period] = b
	}
	b.orders++
	b.revenue = b.revenue.Add(decimal.NewFromFloat(total))
}

// Daily aggregates the completed sales that fall on date. Sales on other dates are ignored.
func Daily(date time.Time, sales []Sale, policy BucketPolicy) DailySales {
	key := date.Format(DateLayout)
	return summarize(key, group(sales, policy)[key])
}

// Range returns one entry per calendar day from start to end inclusive, oldest first,
// with zero metrics for days without sales.
func Range(start, end time.Time, sales []Sale, policy BucketPolicy) ([]DailySales, error) {
	days, err := RangeDays(start, end)
	if err != nil {
		return nil, err
	}

	first := calendarDay(start)
	byDate := group(sales, policy)
	result := make([]DailySales, 0, days)
	for i := 0; i < days; i++ {
		key := first.AddDate(0, 0, i).Format(DateLayout)
		result = append(result, summarize(key, byDate[key]))
	}
	return result, nil
}

// RangeDays counts the calendar days from start to end inclusive and rejects reversed or oversized ranges.
func RangeDays(start, end time.Time) (int, error) {
	first := calendarDay(start)
	last := calendarDay(end)
	if last.Before(first) {
		return 0, ErrInvalidRange
	}
	days := int(last.Sub(first).Hours()/24) + 1
	if days > MaxRangeDays {
		return 0, ErrRangeTooLarge
	}
	return days, nil
}

// calendarDay drops the clock and zone so day arithmetic is free of DST shifts.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func group(sales []Sale, policy BucketPolicy) map[string]day {
	byDate := map[string]day{}
	for _, sale := range sales {
		if sale.Status != StatusCompleted {
			continue
		}
		period, ok := policy.PeriodOf(sale.Timestamp)
		if !ok {
			continue
		}
		key := policy.DateOf(sale.Timestamp)
		if byDate[key] == nil {
			byDate[key] = day{}
		}
		byDate[key].add(period, sale.Total)
	}
	return byDate
}

func summarize(date string, d day) DailySales {
	out := DailySales{Date: date}
	totalOrders := 0
	totalRevenue := decimal.Zero

	for _, period := range Periods {
		var metric PeriodMetric
		if b, ok := d[period]; ok {
			revenue := b.revenue.Round(2)
			metric = newMetric(b.orders, revenue)
			totalOrders += b.orders
			totalRevenue = totalRevenue.Add(revenue)
		}
		switch period {
		case Morning:
			out.Morning = metric
		case Afternoon:
			out.Afternoon = metric
		case Evening:
			out.Evening = metric
		}
	}
	out.Total = newMetric(totalOrders, totalRevenue)
	return out
}

func newMetric(orders int, revenue decimal.Decimal) PeriodMetric {
	metric := PeriodMetric{Orders: orders, Revenue: revenue.InexactFloat64()}
	if orders > 0 {
		metric.AvgOrder = revenue.Div(decimal.NewFromInt(int64(orders))).Round(2).InexactFloat64()
	}
	return metric
}
