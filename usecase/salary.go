package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

var salaryPattern = regexp.MustCompile(`\d+k?(?:\s*-\s*\d+k?)?`)

// ParseSalary reads a free-text salary such as "50k - 80k" or "1200". A
// trailing k multiplies by 1000 and a single figure sets both bounds. Text
// without a figure yields nil bounds.
func ParseSalary(text string) (*int, *int) {
	match := salaryPattern.FindString(strings.ToLower(text))
	if match == "" {
		return nil, nil
	}

	parts := strings.SplitN(match, "-", 2)
	low, ok := salaryFigure(parts[0])
	if !ok {
		return nil, nil
	}
	high := low
	if len(parts) == 2 {
		if high, ok = salaryFigure(parts[1]); !ok {
			return nil, nil
		}
	}
	return &low, &high
}

func salaryFigure(s string) (int, bool) {
	s = strings.TrimSpace(s)
	multiplier := 1
	if strings.HasSuffix(s, "k") {
		multiplier = 1000
		s = strings.TrimSuffix(s, "k")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n * multiplier, true
}
