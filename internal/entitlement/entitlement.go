// Package entitlement computes the set of channels a subscription profile
// qualifies for. Entitlement is independent of approval: approval only gates
// whether an entitled channel is currently usable (activation), never which
// channels are in the set.
package entitlement

import (
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/catalog"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
)

// accessRule pairs a profile predicate with a channel matcher. A channel is
// entitled when any rule whose predicate holds also matches the channel, so
// adding a gated channel category is a table change, not new branching.
type accessRule struct {
	applies func(p *models.SubscriptionProfile) bool
	matches func(ch catalog.Channel) bool
}

var rules = []accessRule{
	{
		// 3ds Max channels for Max or Both subscribers
		applies: func(p *models.SubscriptionProfile) bool {
			return p.Format == models.FormatMax || p.Format == models.FormatBoth
		},
		matches: func(ch catalog.Channel) bool { return ch.Software == catalog.SoftwareMax },
	},
	{
		// SketchUp channels for SketchUp or Both subscribers
		applies: func(p *models.SubscriptionProfile) bool {
			return p.Format == models.FormatSketchUp || p.Format == models.FormatBoth
		},
		matches: func(ch catalog.Channel) bool { return ch.Software == catalog.SoftwareSketchUp },
	},
	{
		// texture library for the mid and top tiers
		applies: func(p *models.SubscriptionProfile) bool {
			return p.Plan == models.PlanProfessional || p.Plan == models.PlanPremium
		},
		matches: func(ch catalog.Channel) bool { return ch.Name == catalog.ChannelPremiumTexture },
	},
	{
		// software library for the top tier only
		applies: func(p *models.SubscriptionProfile) bool { return p.Plan == models.PlanPremium },
		matches: func(ch catalog.Channel) bool { return ch.Name == catalog.ChannelSoftwareLibrary },
	},
	{
		// megascan library for students
		applies: func(p *models.SubscriptionProfile) bool { return p.IsStudent },
		matches: func(ch catalog.Channel) bool { return ch.Name == catalog.ChannelMegascan },
	},
}

// AccessibleChannels returns the channels the profile is entitled to, in
// catalog order with duplicates removed by channel name. Pure and
// deterministic; approval status is deliberately never consulted.
func AccessibleChannels(p *models.SubscriptionProfile) []catalog.Channel {
	var out []catalog.Channel
	seen := make(map[string]bool)

	for _, ch := range catalog.Channels {
		if seen[ch.Name] {
			continue
		}
		for _, r := range rules {
			if r.applies(p) && r.matches(ch) {
				out = append(out, ch)
				seen[ch.Name] = true
				break
			}
		}
	}
	return out
}

// ChannelView is an entitled channel plus its activation state. Locked
// channels are rendered as placeholders: a pending subscriber sees exactly
// what they will get, just inactive.
type ChannelView struct {
	catalog.Channel
	Unlocked bool `json:"unlocked"`
}

// ChannelViews wraps the entitled set with the approval visibility gate. The
// link is withheld while locked so a pending subscriber cannot use it early.
func ChannelViews(p *models.SubscriptionProfile) []ChannelView {
	channels := AccessibleChannels(p)
	unlocked := p.Approved()

	views := make([]ChannelView, 0, len(channels))
	for _, ch := range channels {
		v := ChannelView{Channel: ch, Unlocked: unlocked}
		if !unlocked {
			v.Link = ""
		}
		views = append(views, v)
	}
	return views
}
