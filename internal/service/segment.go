package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

var ErrInvalidSegmentFormat = errors.New("invalid segment interval")

var segmentIntervalPattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// ParseSegmentInterval parses a "low-high" token such as "10-100". Both
// numbers are returned in the order written.
func ParseSegmentInterval(token string) (models.SegmentInterval, error) {
	m := segmentIntervalPattern.FindStringSubmatch(token)
	if m == nil {
		return models.SegmentInterval{}, fmt.Errorf("%w %q: does not match pattern %s",
			ErrInvalidSegmentFormat, token, segmentIntervalPattern)
	}
	low, err := strconv.Atoi(m[1])
	if err != nil {
		return models.SegmentInterval{}, fmt.Errorf("segment %q: %w", token, models.ErrRangeOverflow)
	}
	high, err := strconv.Atoi(m[2])
	if err != nil {
		return models.SegmentInterval{}, fmt.Errorf("segment %q: %w", token, models.ErrRangeOverflow)
	}
	return models.SegmentInterval{Low: low, High: high}, nil
}

// BuildFilter assembles a filter from the optional request fields. Empty
// segment tokens count as absent.
func BuildFilter(countryCode, frequencySegment, recencySegment *string) (models.VoucherSelectionFilter, error) {
	f := models.VoucherSelectionFilter{CountryCode: countryCode}

	if frequencySegment != nil && *frequencySegment != "" {
		iv, err := ParseSegmentInterval(*frequencySegment)
		if err != nil {
			return models.VoucherSelectionFilter{}, fmt.Errorf("frequency_segment: %w", err)
		}
		f.TotalOrdersFrom, f.TotalOrdersTo = &iv.Low, &iv.High
	}

	if recencySegment != nil && *recencySegment != "" {
		iv, err := ParseSegmentInterval(*recencySegment)
		if err != nil {
			return models.VoucherSelectionFilter{}, fmt.Errorf("recency_segment: %w", err)
		}
		f.LastOrderFrom, f.LastOrderTo = &iv.Low, &iv.High
	}

	return f, nil
}
