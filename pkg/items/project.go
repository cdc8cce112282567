package items

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"deal-notifier-go/pkg/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the ordering of a projection
type SortMode string

const (
	SortNone      SortMode = "none"
	SortName      SortMode = "name"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
)

// UnknownPrice is the price assigned to deals whose price cannot be read.
// It sinks them to the bottom of cheap-first listings and lifts them to the
// top of expensive-first ones.
const UnknownPrice = 999999

var sortModes = []SortMode{SortNone, SortName, SortPriceAsc, SortPriceDesc}

// ParseSortMode parses a sort mode name. An empty string means SortNone.
func ParseSortMode(s string) (SortMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNone, nil
	}
	for _, m := range sortModes {
		if string(m) == s {
			return m, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort mode %q", s)
}

// Next returns the mode after m in the cycle none → name → price_asc → price_desc.
func (m SortMode) Next() SortMode {
	i := slices.Index(sortModes, m)
	return sortModes[(i+1)%len(sortModes)]
}

// Label returns a short human-readable name for the mode
func (m SortMode) Label() string {
	switch m {
	case SortName:
		return "Name (A-Z)"
	case SortPriceAsc:
		return "Price (low to high)"
	case SortPriceDesc:
		return "Price (high to low)"
	default:
		return "Found order"
	}
}

// View is the user's current query and sort choice
type View struct {
	Query string
	Sort  SortMode
}

// Apply projects items through the view
func (v View) Apply(list []models.Item) []models.Item {
	return Project(list, v.Query, v.Sort)
}

// Project filters list by a case-insensitive title substring and orders the
// result by mode. It never modifies list and always returns a new slice;
// equal keys keep their arrival order.
func Project(list []models.Item, query string, mode SortMode) []models.Item {
	needle := strings.ToLower(query)
	out := make([]models.Item, 0, len(list))
	for _, item := range list {
		if needle == "" || strings.Contains(strings.ToLower(item.Title), needle) {
			out = append(out, item)
		}
	}

	switch mode {
	case SortName:
		// Collators keep internal buffers, one per call keeps Project safe
		// to call from several goroutines.
		c := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b models.Item) int {
			return c.CompareString(a.Title, b.Title)
		})
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b models.Item) int {
			return cmp.Compare(Price(a), Price(b))
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Item) int {
			return cmp.Compare(Price(b), Price(a))
		})
	}
	return out
}

// Price returns the numeric price used for sorting. Free deals cost 0;
// prices that cannot be read cost UnknownPrice.
func Price(item models.Item) float64 {
	if item.IsFree {
		return 0
	}
	if v, ok := parseLeadingNumber(string(item.DiscountedPrice)); ok {
		return v
	}
	return UnknownPrice
}

// parseLeadingNumber drops every character that is not a digit or a dot and
// reads the longest leading decimal number from what remains, so "₹1,299.00"
// gives 1299 and "1.2.3" gives 1.2.
func parseLeadingNumber(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	end, digits := 0, 0
	seenDot := false
	for end < len(s) {
		if s[end] == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			digits++
		}
		end++
	}
	if digits == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
