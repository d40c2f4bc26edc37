package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole converts a case-insensitive role name into a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q (expected %q or %q)", s, RoleAdmin, RoleUser)
	}
	return r, nil
}

// Weekday is a charger working day, Monday through Friday.
// The zero value is Monday so a Weekday can index a Breakdown directly.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists the working days in order
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday"}

func (d Weekday) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func (d Weekday) IsValid() bool {
	return d >= Monday && d <= Friday
}

// ParseWeekday converts a lowercase or capitalised day name into a Weekday.
// Weekend days are rejected.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q (expected monday..friday)", s)
}

// WeekdayOf returns the working day of t, or false on Saturday and Sunday
func WeekdayOf(t time.Time) (Weekday, bool) {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return 0, false
	default:
		return Weekday(t.Weekday() - time.Monday), true
	}
}

// Breakdown holds charger hours for each working day of a week.
// Every weekday is always present, zero when unused.
type Breakdown [5]int

// Get returns the hours for a day
func (b Breakdown) Get(d Weekday) int {
	return b[d]
}

// Add adds hours to a day in place
func (b *Breakdown) Add(d Weekday, hours int) {
	b[d] += hours
}

// Total sums all five days
func (b Breakdown) Total() int {
	total := 0
	for _, h := range b {
		total += h
	}
	return total
}

// Map returns the breakdown keyed by lowercase weekday name
func (b Breakdown) Map() map[string]int {
	m := make(map[string]int, len(b))
	for _, d := range Weekdays {
		m[d.String()] = b[d]
	}
	return m
}
