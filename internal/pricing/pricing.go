// Package pricing derives the totals, discounts and bonus terms for a
// (plan, duration, student) selection. Everything here is a pure function of
// the plan catalog.
package pricing

import (
	"fmt"
	"math"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/catalog"
)

// StudentBonusText is surfaced for 12-month student subscriptions. It changes
// entitlement, never price.
const StudentBonusText = "RTA Student Bonus: Megascan Library FREE"

// GraceDays is added to every subscription end date to cover manual
// payment verification time.
const GraceDays = 3

// Quote is the full price breakdown for a selection. Amounts are whole USD.
type Quote struct {
	Plan                 string `json:"plan"`
	DurationMonths       int    `json:"duration_months"`
	Monthly              int    `json:"monthly"`
	Total                int    `json:"total"`
	Regular              int    `json:"regular"`
	Discount             int    `json:"discount"`
	DiscountPercent      int    `json:"discount_percent"`
	BonusMonths          int    `json:"bonus_months"`
	TotalMonthsWithBonus int    `json:"total_months_with_bonus"`
	BonusDescription     string `json:"bonus_description"`
	StudentBonus         string `json:"student_bonus,omitempty"`
}

// BonusMonths returns the free months granted for a term length. The rule is
// independent of the plan price table so it can be asserted on its own.
func BonusMonths(durationMonths int) int {
	switch durationMonths {
	case 12:
		return 2
	case 6:
		return 1
	default:
		return 0
	}
}

// Compute builds the quote for a plan/duration/student selection.
func Compute(plan catalog.Plan, durationMonths int, isStudent bool) (Quote, error) {
	entry, ok := plan.Prices[durationMonths]
	if !ok {
		return Quote{}, fmt.Errorf("plan %s has no %d-month price", plan.Name, durationMonths)
	}

	regular := entry.Monthly * durationMonths
	discount := regular - entry.Total

	percent := 0
	if regular > 0 {
		percent = int(math.Round(float64(discount) / float64(regular) * 100))
	}

	bonus := BonusMonths(durationMonths)

	q := Quote{
		Plan:                 plan.Name,
		DurationMonths:       durationMonths,
		Monthly:              entry.Monthly,
		Total:                entry.Total,
		Regular:              regular,
		Discount:             discount,
		DiscountPercent:      percent,
		BonusMonths:          bonus,
		TotalMonthsWithBonus: durationMonths + bonus,
		BonusDescription:     entry.BonusText,
	}

	if isStudent && durationMonths == 12 {
		q.StudentBonus = StudentBonusText
	}

	return q, nil
}

// ComputeByName is Compute with a catalog lookup by plan name.
func ComputeByName(planName string, durationMonths int, isStudent bool) (Quote, error) {
	plan, ok := catalog.PlanByName(planName)
	if !ok {
		return Quote{}, fmt.Errorf("unknown plan %q", planName)
	}
	return Compute(plan, durationMonths, isStudent)
}

// LocalAmount converts a USD total into the subscriber's payment currency at
// the fixed catalog rate. Unknown countries fall back to USD unchanged.
func LocalAmount(totalUSD int, country string) (amount int, currency string) {
	rate, ok := catalog.CurrencyRates[country]
	if !ok {
		return totalUSD, "USD"
	}
	return totalUSD * rate, catalog.CurrencyCodes[country]
}

// SubscriptionMonths returns the paid term plus bonus months, the span used
// when deriving the end-of-subscription date.
func SubscriptionMonths(durationMonths int) int {
	return durationMonths + BonusMonths(durationMonths)
}
