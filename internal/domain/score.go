package domain

import (
	"fmt"
	"strings"
)

type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

func ParseSide(raw string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "a", "side_a":
		return SideA, nil
	case "b", "side_b":
		return SideB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSide, raw)
	}
}

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) Label() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return string(s)
	}
}

// SetScore is an immutable pair of point counts for one set.
type SetScore struct {
	SideA int
	SideB int
}

func (s SetScore) Points(side Side) int {
	if side == SideB {
		return s.SideB
	}
	return s.SideA
}

// WithPoints returns a copy of s with side's count replaced.
func (s SetScore) WithPoints(side Side, points int) SetScore {
	if side == SideB {
		s.SideB = points
		return s
	}
	s.SideA = points
	return s
}

func (s SetScore) String() string {
	return fmt.Sprintf("%d-%d", s.SideA, s.SideB)
}

// Winner reports which side won the set under rules, if any.
func (s SetScore) Winner(rules MatchRules) (Side, bool) {
	for _, side := range []Side{SideA, SideB} {
		points := s.Points(side)
		if points < rules.TargetPoints {
			continue
		}
		if !rules.DeuceEnabled || points-s.Points(side.Other()) >= 2 {
			return side, true
		}
	}

	return "", false
}

// Leader returns the side with more points. Completed sets always have one.
func (s SetScore) Leader() (Side, bool) {
	switch {
	case s.SideA > s.SideB:
		return SideA, true
	case s.SideB > s.SideA:
		return SideB, true
	default:
		return "", false
	}
}
