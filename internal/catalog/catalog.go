// Package catalog holds the static plan and channel tables. Both are loaded
// once at process start and never mutated; every other package treats them as
// read-only leaf data.
package catalog

import "github.com/nyeemonkham-stack/rta-library-webapp/internal/models"

// PriceEntry is one row of a plan's duration-indexed price table.
// Amounts are whole USD.
type PriceEntry struct {
	Monthly   int    `json:"monthly"`
	Total     int    `json:"total"`
	Save      int    `json:"save"`
	BonusText string `json:"bonus_text"`
}

// Plan is a subscription tier with a fixed feature set and per-duration pricing.
type Plan struct {
	Name      string             `json:"name"`
	IsPopular bool               `json:"is_popular,omitempty"`
	Features  []string           `json:"features"`
	Prices    map[int]PriceEntry `json:"prices"`
}

// Channel is a gated Telegram distribution destination, the unit of entitlement.
type Channel struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Link     string `json:"link"`
	Software string `json:"software"`
}

// Software tag constants for channels. Max and SketchUp channels are matched by
// the subscriber's chosen format; the remaining tags mark the distinguished
// bonus channels with their own access rules.
const (
	SoftwareMax      = "Max"
	SoftwareSketchUp = "SketchUp"
	SoftwareTexture  = "Texture"
	SoftwareLibrary  = "Software"
	SoftwareMegascan = "Megascan"
)

// Names of the distinguished bonus channels.
const (
	ChannelPremiumTexture  = "Premium Texture Library"
	ChannelSoftwareLibrary = "Software Library - Archviz"
	ChannelMegascan        = "Megascan Library for Archviz"
)

const (
	launchBonus   = "Get the Lowest Launch Price"
	sixMonthBonus = "1 Month FREE"
	yearBonus     = "2 Month FREE - Free Library Management Class (Worth $30)"
)

// Plans is the full plan table in display order.
var Plans = []Plan{
	{
		Name: models.PlanEssential,
		Features: []string{
			"Interior Models",
			"Exterior Models",
			"3ds Max or SketchUp",
			"Model Studio (+$5 Value Saved)",
		},
		Prices: map[int]PriceEntry{
			3:  {Monthly: 2, Total: 6, Save: 0, BonusText: launchBonus},
			6:  {Monthly: 2, Total: 10, Save: 2, BonusText: sixMonthBonus},
			12: {Monthly: 2, Total: 20, Save: 4, BonusText: yearBonus},
		},
	},
	{
		Name:      models.PlanProfessional,
		IsPopular: true,
		Features: []string{
			"Interior Models",
			"Exterior Models",
			"3ds Max or SketchUp",
			"Model Studio (+$5 Value Saved)",
			"Texture Library",
		},
		Prices: map[int]PriceEntry{
			3:  {Monthly: 3, Total: 9, Save: 0, BonusText: launchBonus},
			6:  {Monthly: 3, Total: 15, Save: 3, BonusText: sixMonthBonus},
			12: {Monthly: 3, Total: 30, Save: 6, BonusText: yearBonus},
		},
	},
	{
		Name: models.PlanPremium,
		Features: []string{
			"Interior Models",
			"Exterior Models",
			"Both 3ds Max & SketchUp",
			"Model Studio (+$5 Value Saved)",
			"Texture Library",
			"Software Library FREE",
		},
		Prices: map[int]PriceEntry{
			3:  {Monthly: 5, Total: 15, Save: 0, BonusText: launchBonus},
			6:  {Monthly: 5, Total: 25, Save: 5, BonusText: sixMonthBonus},
			12: {Monthly: 5, Total: 50, Save: 10, BonusText: yearBonus},
		},
	},
}

// PlanByName looks up a plan by its tier name.
func PlanByName(name string) (Plan, bool) {
	for _, p := range Plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

// CurrencyRates are the fixed USD exchange rates used for payment instructions.
var CurrencyRates = map[string]int{
	models.CountryMyanmar:  4000,
	models.CountryThailand: 36,
}

// CurrencyCodes maps country to local currency code.
var CurrencyCodes = map[string]string{
	models.CountryMyanmar:  "MMK",
	models.CountryThailand: "THB",
}

// BankDetails maps country to the transfer account shown at payment time.
var BankDetails = map[string]string{
	models.CountryMyanmar:  "KBZPay: 09798886653 (Kyaw Kyaw Nyein)",
	models.CountryThailand: "KBank: 664-8-47412-2 (MR. KYAW KYAW NYEIN)",
}
