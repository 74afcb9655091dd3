package structure

import "smcTickBot/internal/domain"

// DetectBOS returns a break-of-structure event for every supply zone whose top
// price strictly exceeds, and every demand zone whose bottom price strictly
// undercuts. Several zones may break on the same tick.
func DetectBOS(index int64, price float64, supply, demand []domain.Zone) []domain.BOSEvent {
	var events []domain.BOSEvent
	for _, z := range supply {
		if price > z.Top {
			events = append(events, domain.BOSEvent{Kind: domain.BreakHigh, Zone: z, Index: index, Price: price})
		}
	}
	for _, z := range demand {
		if price < z.Bottom {
			events = append(events, domain.BOSEvent{Kind: domain.BreakLow, Zone: z, Index: index, Price: price})
		}
	}
	return events
}
