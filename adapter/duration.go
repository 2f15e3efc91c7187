// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package adapter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nil-go/treeconf/mapper"
	"github.com/nil-go/treeconf/tree"
)

// Duration converts time.Duration to and from human-readable text.
//
// It decodes one or more `<n><unit>` groups such as `5m30s` or `1w2d`,
// where unit is s, m, h, d (24h) or w (7d), case-insensitive.
// A plain number is taken as seconds, and Go duration syntax such as `1.5h` is accepted too.
// Absent decodes to zero.
//
// It encodes whole minutes as `<n>m` and anything else as whole seconds `<n>s`,
// so sub-second precision is lost.
var Duration = mapper.Func(decodeDuration, encodeDuration) //nolint:gochecknoglobals

func decodeDuration(_ *mapper.Mapper, node tree.Value) (time.Duration, error) {
	switch node.Kind() {
	case tree.KindAbsent:
		return 0, nil
	case tree.KindScalar:
	default:
		return 0, fmt.Errorf("duration expected scalar, got %s: %w", node.Kind(), mapper.ErrShapeMismatch)
	}

	switch value := node.Scalar().(type) {
	case int:
		return seconds(int64(value))
	case int64:
		return seconds(value)
	case uint64:
		if value > math.MaxInt64/uint64(time.Second) {
			return 0, fmt.Errorf("duration %d overflows: %w", value, mapper.ErrTypeMismatch)
		}

		return time.Duration(value) * time.Second, nil
	case float64:
		nanos := value * float64(time.Second)
		if math.IsNaN(nanos) || nanos >= math.MaxInt64 || nanos < math.MinInt64 {
			return 0, fmt.Errorf("duration %v overflows: %w", value, mapper.ErrTypeMismatch)
		}

		return time.Duration(nanos), nil
	case string:
		return ParseDuration(value)
	default:
		return 0, fmt.Errorf("cannot parse %T as duration: %w", value, mapper.ErrTypeMismatch)
	}
}

func encodeDuration(_ *mapper.Mapper, value time.Duration) (tree.Value, error) {
	secs := int64(value / time.Second)
	if secs%60 == 0 {
		return tree.Scalar(strconv.FormatInt(secs/60, 10) + "m"), nil
	}

	return tree.Scalar(strconv.FormatInt(secs, 10) + "s"), nil
}

// ParseDuration parses text such as `5m30s`, `2h`, `1w2d3h` or `90` (seconds).
func ParseDuration(text string) (time.Duration, error) {
	text = strings.TrimSpace(text)
	if secs, err := strconv.ParseInt(text, 10, 64); err == nil {
		return seconds(secs)
	}

	if durationPattern.MatchString(text) {
		var total time.Duration
		for _, group := range durationGroup.FindAllStringSubmatch(text, -1) {
			n, err := strconv.ParseInt(group[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", text, mapper.ErrTypeMismatch)
			}
			// Groups are never negative.
			unit := durationUnits[strings.ToLower(group[2])]
			if n > int64(math.MaxInt64/unit) || time.Duration(n)*unit > math.MaxInt64-total {
				return 0, fmt.Errorf("duration %q overflows: %w", text, mapper.ErrTypeMismatch)
			}
			total += time.Duration(n) * unit
		}

		return total, nil
	}

	if d, err := time.ParseDuration(text); err == nil {
		return d, nil
	}

	return 0, fmt.Errorf("invalid duration %q: %w", text, mapper.ErrTypeMismatch)
}

func seconds(secs int64) (time.Duration, error) {
	if secs > int64(math.MaxInt64/time.Second) || secs < int64(math.MinInt64/time.Second) {
		return 0, fmt.Errorf("duration %ds overflows: %w", secs, mapper.ErrTypeMismatch)
	}

	return time.Duration(secs) * time.Second, nil
}

//nolint:gochecknoglobals
var (
	durationPattern = regexp.MustCompile(`^(?i)(\d+[smhdw])+$`)
	durationGroup   = regexp.MustCompile(`(?i)(\d+)([smhdw])`)
	durationUnits   = map[string]time.Duration{
		"s": time.Second,
		"m": time.Minute,
		"h": time.Hour,
		"d": 24 * time.Hour,
		"w": 7 * 24 * time.Hour,
	}
)
