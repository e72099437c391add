package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	dErrors "accountdesk/pkg/domain-errors"
)

// Segment is the income-derived customer tier.
// Invariant: a stored client's segment equals ClassifyIncome(income) at insertion.
type Segment string

const (
	SegmentRetail    Segment = "Retail"
	SegmentExclusive Segment = "Exclusive"
	SegmentPremium   Segment = "Premium"
	SegmentPrivate   Segment = "Private"
)

// Lower bounds (inclusive) of each band above Retail.
var (
	exclusiveFloor = decimal.NewFromInt(7000)
	premiumFloor   = decimal.NewFromInt(30000)
	privateFloor   = decimal.NewFromInt(100000)
)

var segmentTiers = map[Segment]int{
	SegmentRetail:    1,
	SegmentExclusive: 2,
	SegmentPremium:   3,
	SegmentPrivate:   4,
}

// segmentAliases accepts the legacy labels still present in imported data.
var segmentAliases = map[string]Segment{
	"retail":    SegmentRetail,
	"varejo":    SegmentRetail,
	"exclusive": SegmentExclusive,
	"premium":   SegmentPremium,
	"private":   SegmentPrivate,
	"classe a":  SegmentPrivate,
}

// ClassifyIncome maps an income to its segment. It is total: negative incomes are
// Retail and each band runs up to the next band's floor, so the mapping never
// decreases in tier as income grows.
func ClassifyIncome(income decimal.Decimal) Segment {
	switch {
	case income.LessThan(exclusiveFloor):
		return SegmentRetail
	case income.LessThan(premiumFloor):
		return SegmentExclusive
	case income.LessThan(privateFloor):
		return SegmentPremium
	default:
		return SegmentPrivate
	}
}

// ParseSegment constructs a Segment from external input, case-insensitively.
func ParseSegment(s string) (Segment, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "segment cannot be empty")
	}
	seg, ok := segmentAliases[key]
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown segment: "+s)
	}
	return seg, nil
}

// AllSegments lists the segments in ascending tier order.
func AllSegments() []Segment {
	return []Segment{SegmentRetail, SegmentExclusive, SegmentPremium, SegmentPrivate}
}

func (s Segment) IsValid() bool {
	_, ok := segmentTiers[s]
	return ok
}

// Tier returns the segment's rank (1 = Retail ... 4 = Private), or 0 when unknown.
func (s Segment) Tier() int {
	return segmentTiers[s]
}

func (s Segment) String() string {
	return string(s)
}

// ParseIncome parses a decimal amount such as "5000" or "6999.99".
func ParseIncome(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, "invalid income: "+s)
	}
	return d, nil
}

// FormatIncome renders an income with exactly two decimal places.
func FormatIncome(income decimal.Decimal) string {
	return income.StringFixed(2)
}
