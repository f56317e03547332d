package domain

// AggregateStatus returns the most frequent item status across items.
//
// Ties go to the status that comes first in the fulfillment lifecycle
// (pending, processing, out for delivery, delivered, cancelled), so an order
// split evenly between two groups reports the less advanced one. The result
// does not depend on item order. ok is false when items is empty.
func AggregateStatus(items []OrderItem) (status ItemStatus, ok bool) {
	counts := make(map[ItemStatus]int, len(itemLifecycle))
	for _, item := range items {
		counts[item.Status]++
	}
	best := 0
	for _, candidate := range itemLifecycle {
		if counts[candidate] > best {
			status, best = candidate, counts[candidate]
		}
	}
	return status, best > 0
}
