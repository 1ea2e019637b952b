package calendar

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/starford/fehu/internal/models"
)

const dateLayout = "2006-01-02"

// Day is one calendar cell or agenda day.
type Day struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

// Urgency labels for the upcoming sidebar.
const (
	UrgencyOverdue  = "overdue"
	UrgencyDueSoon  = "due_soon"
	UrgencyUpcoming = "upcoming"
)

// UpcomingItem is one row of the upcoming sidebar projection.
type UpcomingItem struct {
	Event
	Urgency   string `json:"urgency"`
	DaysUntil int    `json:"daysUntil"`
}

// DayAmount is a single-day aggregate for insights.
type DayAmount struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// WeekAmount is a week-of-month aggregate for insights.
type WeekAmount struct {
	Week   int     `json:"week"`
	Amount float64 `json:"amount"`
}

// Insights are the month-scoped derived aggregates.
type Insights struct {
	MostExpensiveDay   DayAmount  `json:"mostExpensiveDay"`
	BestEarningDay     DayAmount  `json:"bestEarningDay"`
	LowestSpendingWeek WeekAmount `json:"lowestSpendingWeek"`
}

// Project builds one Day per date in [from, to], including empty days,
// matching events by exact date string. Malformed bounds yield nil.
func Project(events []Event, from, to string) []Day {
	start, err1 := time.Parse(dateLayout, from)
	end, err2 := time.Parse(dateLayout, to)
	if err1 != nil || err2 != nil || end.Before(start) {
		return nil
	}

	byDate := groupByDate(events)
	var out []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		out = append(out, Day{Date: key, Events: byDate[key]})
	}
	return out
}

// Agenda iterates the window of days starting at today and keeps only
// days with at least one event, in chronological order. Within a day the
// normalizer's emission order is preserved. A window with no matching
// events returns an empty list, not a list of empty days.
func Agenda(events []Event, today string, days int) []Day {
	start, err := time.Parse(dateLayout, today)
	if err != nil || days <= 0 {
		return []Day{}
	}

	byDate := groupByDate(events)
	out := []Day{}
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(dateLayout)
		if evs := byDate[key]; len(evs) > 0 {
			out = append(out, Day{Date: key, Events: evs})
		}
	}
	return out
}

// Upcoming projects pending/overdue invoices plus meetings dated
// today-or-later, sorted by (urgency rank, date, start time) ascending.
// An invoice is overdue when its due date has passed or its status says
// so explicitly; due-soon covers the next seven days.
func Upcoming(events []Event, today string) []UpcomingItem {
	out := []UpcomingItem{}
	for _, ev := range events {
		switch ev.Type {
		case TypeInvoice, TypeOverdue:
			if ev.Status == models.InvoiceStatusPaid {
				continue
			}
		case TypeMeeting:
			if ev.Date < today {
				continue
			}
		default:
			continue
		}

		du := daysBetween(today, ev.Date)
		item := UpcomingItem{Event: ev, DaysUntil: du}
		switch {
		case du < 0 || ev.Type == TypeOverdue || ev.Status == models.InvoiceStatusOverdue:
			item.Urgency = UrgencyOverdue
		case du <= 7:
			item.Urgency = UrgencyDueSoon
		default:
			item.Urgency = UrgencyUpcoming
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := urgencyRank(out[i].Urgency), urgencyRank(out[j].Urgency)
		if ri != rj {
			return ri < rj
		}
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// ComputeInsights derives the month-scoped aggregates: the single day
// with the highest summed expenses, the single day with the highest
// summed income plus work earnings, and the lowest non-zero spending
// week using ceil(dayOfMonth/7) buckets 1-5. If no week has spending,
// week 1 with amount 0 is reported.
func ComputeInsights(events []Event, year, month int) Insights {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	spentByDay := map[string]float64{}
	earnedByDay := map[string]float64{}
	var spentByWeek [6]float64

	for _, ev := range events {
		if len(ev.Date) != 10 || ev.Date[:8] != prefix {
			continue
		}
		amount := 0.0
		if ev.Amount != nil {
			amount = *ev.Amount
		}
		switch ev.Type {
		case TypeExpense:
			spentByDay[ev.Date] += amount
			day, _ := strconv.Atoi(ev.Date[8:])
			week := int(math.Ceil(float64(day) / 7))
			if week >= 1 && week <= 5 {
				spentByWeek[week] += amount
			}
		case TypeIncome, TypeWork:
			earnedByDay[ev.Date] += amount
		}
	}

	ins := Insights{LowestSpendingWeek: WeekAmount{Week: 1, Amount: 0}}
	ins.MostExpensiveDay = maxDay(spentByDay)
	ins.BestEarningDay = maxDay(earnedByDay)

	lowest := math.Inf(1)
	for week := 1; week <= 5; week++ {
		if amt := spentByWeek[week]; amt > 0 && amt < lowest {
			lowest = amt
			ins.LowestSpendingWeek = WeekAmount{Week: week, Amount: amt}
		}
	}
	return ins
}

func groupByDate(events []Event) map[string][]Event {
	byDate := make(map[string][]Event)
	for _, ev := range events {
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}
	return byDate
}

func urgencyRank(u string) int {
	switch u {
	case UrgencyOverdue:
		return 0
	case UrgencyDueSoon:
		return 1
	default:
		return 2
	}
}

// daysBetween returns the whole days from a to b; negative when b is
// before a. Malformed dates count as zero distance.
func daysBetween(a, b string) int {
	ta, err1 := time.Parse(dateLayout, a)
	tb, err2 := time.Parse(dateLayout, b)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

func maxDay(byDay map[string]float64) DayAmount {
	var best DayAmount
	for date, amt := range byDay {
		if amt > best.Amount || (amt == best.Amount && amt > 0 && (best.Date == "" || date < best.Date)) {
			best = DayAmount{Date: date, Amount: amt}
		}
	}
	return best
}
