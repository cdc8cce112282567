package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Item is one deal discovered by a run.
type Item struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	ImageURL        string `json:"image_url"`
	IsFree          bool   `json:"is_free"`
	DiscountedPrice Price  `json:"discounted_price"`
}

// Price is the display value of a discounted price. The service sends either
// a formatted string ("₹1,299.00", "-") or a bare JSON number; both are kept
// verbatim as text.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid price: %w", err)
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or a number: %w", err)
	}
	*p = Price(n.String())
	return nil
}

func (p Price) String() string {
	return string(p)
}

// DisplayPrice returns the price label shown next to a deal.
func (i Item) DisplayPrice() string {
	if i.IsFree {
		return "FREE"
	}
	if i.DiscountedPrice == "" {
		return "-"
	}
	return string(i.DiscountedPrice)
}
