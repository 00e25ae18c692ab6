package services

import (
	"time"

	"orderwatch/internal/core/domain/model/order"
)

// Sample windows. Deltas on the boundary or outside are noise.
const (
	MinStateDuration        = 10 * time.Second
	MaxStateDuration        = 6 * time.Hour
	MinCancellationLifetime = 60 * time.Second
	MaxCancellationLifetime = 8 * time.Hour
)

// Report bar names that are not canonical statuses.
const (
	DeliveredBar = "delivered"
	CompletedBar = "completed"
	CanceledBar  = "canceled"
)

// Bucket sums durations. The zero value is an empty bucket.
type Bucket struct {
	Total time.Duration
	Count int
}

func (b *Bucket) Add(d time.Duration) {
	b.Total += d
	b.Count++
}

func (b Bucket) Merge(o Bucket) Bucket {
	return Bucket{Total: b.Total + o.Total, Count: b.Count + o.Count}
}

// AverageSeconds returns ok=false for an empty bucket.
func (b Bucket) AverageSeconds() (float64, bool) {
	if b.Count == 0 {
		return 0, false
	}
	return b.Total.Seconds() / float64(b.Count), true
}

// CategoryAccumulator holds one bucket per canonical status plus the
// cancellation lifetime bucket of one fulfillment category.
type CategoryAccumulator struct {
	states       [order.Canceled + 1]Bucket
	cancellation Bucket
}

func (a *CategoryAccumulator) AddState(s order.Status, d time.Duration) bool {
	if d <= MinStateDuration || d >= MaxStateDuration || s.Validate() != nil {
		return false
	}
	a.states[s].Add(d)
	return true
}

func (a *CategoryAccumulator) AddCancellation(d time.Duration) bool {
	if d <= MinCancellationLifetime || d >= MaxCancellationLifetime {
		return false
	}
	a.cancellation.Add(d)
	return true
}

func (a CategoryAccumulator) State(s order.Status) Bucket {
	if s < 0 || int(s) >= len(a.states) {
		return Bucket{}
	}
	return a.states[s]
}

func (a CategoryAccumulator) Cancellation() Bucket {
	return a.cancellation
}

func (a CategoryAccumulator) Merge(o CategoryAccumulator) CategoryAccumulator {
	out := a
	for i := range out.states {
		out.states[i] = out.states[i].Merge(o.states[i])
	}
	out.cancellation = out.cancellation.Merge(o.cancellation)
	return out
}

// OrderTimeline is what the analytics walk needs to know about one order.
type OrderTimeline struct {
	Status     order.Status
	Category   order.Category
	HasCourier bool
	DistanceKm *float64
	CreatedAt  time.Time
	Log        []order.StatusLogEntry
}

// BottleneckAccumulator aggregates timelines for both categories. The zero
// value is ready to use; accumulators built over disjoint order sets can be
// merged.
//
// Example:
//
//	var acc BottleneckAccumulator
//	for _, tl := range timelines {
//	    acc.AddOrder(tl)
//	}
//	report := acc.Report()
type BottleneckAccumulator struct {
	Delivery CategoryAccumulator
	Pickup   CategoryAccumulator
}

// trackedStates lists, per category, the states whose dwell time is measured.
func trackedStates(c order.Category) []order.Status {
	if c == order.CategoryPickup {
		return []order.Status{order.Pending, order.Processing, order.Confirmed}
	}
	return order.ProgressStatuses()
}

func (a *BottleneckAccumulator) category(c order.Category) *CategoryAccumulator {
	if c == order.CategoryPickup {
		return &a.Pickup
	}
	return &a.Delivery
}

// AddOrder sanitizes the timeline's log and adds its samples. Canceled orders
// contribute only their creation-to-cancellation lifetime, attributed to the
// category they would have had without the cancellation.
func (a *BottleneckAccumulator) AddOrder(tl OrderTimeline) {
	log, _ := SanitizeLog(tl.Log)

	if tl.Status == order.Canceled {
		acc := a.category(order.AttributedCategory(tl.HasCourier, tl.DistanceKm))
		for _, e := range log {
			if e.Status == order.Canceled {
				acc.AddCancellation(e.Timestamp.Sub(tl.CreatedAt))
				break
			}
		}
		return
	}

	cat := tl.Category
	if cat == order.CategoryUnknown {
		cat = order.AttributedCategory(tl.HasCourier, tl.DistanceKm)
	}
	acc := a.category(cat)
	tracked := trackedStates(cat)
	for i := 0; i+1 < len(log); i++ {
		for _, s := range tracked {
			if log[i].Status == s {
				acc.AddState(s, log[i+1].Timestamp.Sub(log[i].Timestamp))
				break
			}
		}
	}
}

func (a BottleneckAccumulator) Merge(o BottleneckAccumulator) BottleneckAccumulator {
	return BottleneckAccumulator{
		Delivery: a.Delivery.Merge(o.Delivery),
		Pickup:   a.Pickup.Merge(o.Pickup),
	}
}

// Bar is one reported average.
type Bar struct {
	Status             string  `json:"status"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
}

type BottleneckReport struct {
	Delivery []Bar `json:"delivery"`
	Pickup   []Bar `json:"pickup"`
}

// Report lists per-state averages in progression order, then a total bar
// equal to the sum of those averages, then the cancellation average. Empty
// buckets are omitted; the total bar is omitted when no state has samples.
func (a BottleneckAccumulator) Report() BottleneckReport {
	return BottleneckReport{
		Delivery: categoryBars(a.Delivery, order.CategoryDelivery, DeliveredBar),
		Pickup:   categoryBars(a.Pickup, order.CategoryPickup, CompletedBar),
	}
}

func categoryBars(acc CategoryAccumulator, c order.Category, totalName string) []Bar {
	bars := make([]Bar, 0, 7)
	var sum float64
	for _, s := range trackedStates(c) {
		if avg, ok := acc.State(s).AverageSeconds(); ok {
			bars = append(bars, Bar{Status: s.String(), AvgDurationSeconds: avg})
			sum += avg
		}
	}
	if len(bars) > 0 {
		bars = append(bars, Bar{Status: totalName, AvgDurationSeconds: sum})
	}
	if avg, ok := acc.Cancellation().AverageSeconds(); ok {
		bars = append(bars, Bar{Status: CanceledBar, AvgDurationSeconds: avg})
	}
	return bars
}
