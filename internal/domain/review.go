package domain

import "time"

// Review bounds used by Validate.
const (
	ReviewContentMinLength = 50
	ReviewContentMaxLength = 200
	ReviewMinRating        = 1
	ReviewMaxRating        = 5
)

// DateLayout is the calendar-day format used for review dates on the wire.
const DateLayout = "2006-01-02"

// Review is a customer review of a product. Its natural key is the pair
// (ProductID, ReviewID). Date is a calendar day; the zero value means absent.
type Review struct {
	ProductID      int       `json:"productId"`
	ReviewID       int       `json:"reviewId"`
	Author         string    `json:"author"`
	Subject        string    `json:"subject"`
	Content        string    `json:"content"`
	Rating         int       `json:"rating"`
	Date           time.Time `json:"date"`
	Version        int       `json:"version"`
	ServiceAddress string    `json:"serviceAddress,omitempty"`
}

// Validate checks every review rule and returns all violations in rule order.
func (r Review) Validate() Violations {
	return check(
		minRule("productId", r.ProductID, 0),
		minRule("reviewId", r.ReviewID, 0),
		notBlankRule("author", r.Author),
		notBlankRule("subject", r.Subject),
		notBlankRule("content", r.Content),
		sizeRule("content", r.Content, ReviewContentMinLength, ReviewContentMaxLength),
		minRule("rating", r.Rating, ReviewMinRating),
		maxRule("rating", r.Rating, ReviewMaxRating),
		requiredRule("date", r.Date),
	)
}

// WithServiceAddress returns a copy of the review stamped with addr.
func (r Review) WithServiceAddress(addr string) Review {
	r.ServiceAddress = addr
	return r
}

// Day truncates t to the calendar day it falls on in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
