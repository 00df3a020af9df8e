package utils

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

func NowUTC() time.Time {
	return time.Now().UTC()
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDate accepts either a plain calendar date or a full RFC3339
// timestamp and returns the calendar date in DateLayout.
func ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", raw)
	}
	return t.UTC().Format(DateLayout), nil
}

// FormatHour renders decimal hours as a clock time, 14.5 -> "14:30".
func FormatHour(hours float64) string {
	whole := math.Floor(hours)
	minutes := math.Round((hours - whole) * 60)
	if minutes == 60 {
		whole++
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", int(whole), int(minutes))
}

// HumanDate renders a DateLayout date as "Jan 2, 2006", falling back
// to the input when it cannot be parsed.
func HumanDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.String {
				field.Elem().SetString(sanitizeString(field.Elem().String()))
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
