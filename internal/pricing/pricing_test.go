package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/catalog"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
)

func TestBonusMonths(t *testing.T) {
	cases := map[int]int{3: 0, 6: 1, 12: 2}
	for duration, want := range cases {
		assert.Equal(t, want, BonusMonths(duration), "duration %d", duration)
		assert.Equal(t, duration+want, SubscriptionMonths(duration), "duration %d", duration)
	}

	// anything outside the sellable set earns nothing
	assert.Equal(t, 0, BonusMonths(1))
	assert.Equal(t, 0, BonusMonths(24))
}

func TestComputeAllPlanDurationPairs(t *testing.T) {
	for _, plan := range catalog.Plans {
		for _, d := range models.ValidDurations {
			q, err := Compute(plan, d, false)
			require.NoError(t, err, "%s/%d", plan.Name, d)

			assert.Equal(t, q.Monthly*d, q.Regular)
			assert.Equal(t, q.Regular-q.Total, q.Discount)
			assert.GreaterOrEqual(t, q.Discount, 0)
			assert.GreaterOrEqual(t, q.DiscountPercent, 0)
			assert.LessOrEqual(t, q.DiscountPercent, 100)
			assert.Equal(t, d+BonusMonths(d), q.TotalMonthsWithBonus)
			assert.NotEmpty(t, q.BonusDescription)
			assert.Empty(t, q.StudentBonus)
		}
	}
}

func TestComputeProfessionalYear(t *testing.T) {
	q, err := ComputeByName(models.PlanProfessional, 12, false)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Monthly)
	assert.Equal(t, 30, q.Total)
	assert.Equal(t, 36, q.Regular)
	assert.Equal(t, 6, q.Discount)
	assert.Equal(t, 17, q.DiscountPercent) // round(6/36*100)
	assert.Equal(t, 2, q.BonusMonths)
	assert.Equal(t, 14, q.TotalMonthsWithBonus)
}

func TestStudentBonus(t *testing.T) {
	// student flag only surfaces the bonus on the 12-month term, and never
	// changes any price field
	base, err := ComputeByName(models.PlanEssential, 12, false)
	require.NoError(t, err)

	student, err := ComputeByName(models.PlanEssential, 12, true)
	require.NoError(t, err)

	assert.Equal(t, StudentBonusText, student.StudentBonus)
	student.StudentBonus = ""
	assert.Equal(t, base, student)

	short, err := ComputeByName(models.PlanEssential, 6, true)
	require.NoError(t, err)
	assert.Empty(t, short.StudentBonus)
}

func TestComputeUnknownInputs(t *testing.T) {
	_, err := ComputeByName("Enterprise", 12, false)
	assert.Error(t, err)

	plan, _ := catalog.PlanByName(models.PlanEssential)
	_, err = Compute(plan, 9, false)
	assert.Error(t, err)
}

func TestLocalAmount(t *testing.T) {
	amount, currency := LocalAmount(30, models.CountryMyanmar)
	assert.Equal(t, 120000, amount)
	assert.Equal(t, "MMK", currency)

	amount, currency = LocalAmount(30, models.CountryThailand)
	assert.Equal(t, 1080, amount)
	assert.Equal(t, "THB", currency)

	amount, currency = LocalAmount(30, "Elsewhere")
	assert.Equal(t, 30, amount)
	assert.Equal(t, "USD", currency)
}
