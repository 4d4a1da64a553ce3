package campaign

import (
	"sort"
	"strings"
)

type Filter string

const (
	FilterAll          Filter = "all"
	FilterFeatured     Filter = "featured"
	FilterLastFunded   Filter = "last-funded"
	FilterJustLaunched Filter = "just-launched"
	FilterHighestGoal  Filter = "highest-goal"
	FilterTopGainers   Filter = "top-gainers"
)

func ParseFilter(value string) (Filter, error) {
	if len(value) == 0 {
		return FilterAll, nil
	}

	switch f := Filter(strings.ToLower(value)); f {
	case FilterAll, FilterFeatured, FilterLastFunded, FilterJustLaunched, FilterHighestGoal, FilterTopGainers:
		return f, nil
	}
	return "", ErrInvalidFilter
}

type ListOptions struct {
	Filter  Filter
	Query   string
	Creator string
}

func matchesQuery(summary *Summary, query string) bool {
	if len(query) == 0 {
		return true
	}

	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(summary.Campaign.Title), query) ||
		strings.Contains(strings.ToLower(summary.Campaign.Description), query)
}

// applyFilter orders summaries, which are expected in creation order. Sorts
// are stable, so ties keep creation order.
func applyFilter(summaries []*Summary, filter Filter) []*Summary {
	switch filter {
	case FilterFeatured:
		var res []*Summary
		for _, summary := range summaries {
			if summary.Campaign.SocialLinkCount() > 0 {
				res = append(res, summary)
			}
		}
		sort.SliceStable(res, func(i, j int) bool {
			return res[i].Campaign.SocialLinkCount() > res[j].Campaign.SocialLinkCount()
		})
		return res
	case FilterLastFunded:
		sort.SliceStable(summaries, func(i, j int) bool {
			a, b := summaries[i].Stats.LastDonationAt, summaries[j].Stats.LastDonationAt
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.After(*b)
		})
	case FilterJustLaunched:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].Campaign.CreatedAt.After(summaries[j].Campaign.CreatedAt)
		})
	case FilterHighestGoal:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].Campaign.GoalLamports > summaries[j].Campaign.GoalLamports
		})
	case FilterTopGainers:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].Progress() > summaries[j].Progress()
		})
	}
	return summaries
}
