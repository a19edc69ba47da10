// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package directory

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/tomtom215/ursa/internal/geo"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/validation"
)

// ErrInvalidPhone is returned when a number cannot be put in E.164 form.
var ErrInvalidPhone = errors.New("invalid phone number")

// DefaultPoliceNumber is the demo dispatch line.
const DefaultPoliceNumber = "+13022151083"

// NormalizeE164 converts common North American spellings into E.164.
// Ten digit numbers get +1, eleven digit numbers starting with 1 get +.
// Numbers that already carry + are only stripped of punctuation.
func NormalizeE164(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	plus := strings.HasPrefix(raw, "+")

	var digits strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
		}
	}
	d := digits.String()

	var out string
	switch {
	case plus:
		out = "+" + d
	case len(d) == 10:
		out = "+1" + d
	case len(d) == 11 && d[0] == '1':
		out = "+" + d
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}

	if err := validation.GetValidator().Var(out, "e164"); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return out, nil
}

// DemoMember is the single subscriber registered out of the box.
func DemoMember(phone string) models.CommunityMember {
	return models.CommunityMember{Phone: phone, Lat: 37.7749, Lng: -122.4194, Name: "Demo User"}
}

// Community is the subscriber registry keyed by phone number.
type Community struct {
	mu      sync.RWMutex
	order   []string
	members map[string]models.CommunityMember
	grid    *geo.Grid[models.CommunityMember]
}

// NewCommunity registers members in order.
func NewCommunity(members []models.CommunityMember) (*Community, error) {
	c := &Community{
		members: make(map[string]models.CommunityMember, len(members)),
		grid:    geo.NewGrid[models.CommunityMember](gridCellMiles),
	}
	for _, m := range members {
		if _, err := c.Add(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add normalizes and validates m and registers it. A member with the same
// phone number is replaced.
func (c *Community) Add(m models.CommunityMember) (models.CommunityMember, error) {
	phone, err := NormalizeE164(m.Phone)
	if err != nil {
		return models.CommunityMember{}, err
	}
	m.Phone = phone
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		m.Name = "Community Member"
	}
	if verr := validation.ValidateStruct(&m); verr != nil {
		return models.CommunityMember{}, verr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.grid.Insert(m.Phone, m.Location(), m); err != nil {
		return models.CommunityMember{}, fmt.Errorf("member %s: %w", m.Phone, err)
	}
	if _, ok := c.members[m.Phone]; !ok {
		c.order = append(c.order, m.Phone)
	}
	c.members[m.Phone] = m
	return m, nil
}

// Members returns every member in registration order.
func (c *Community) Members() []models.CommunityMember {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.CommunityMember, 0, len(c.order))
	for _, p := range c.order {
		out = append(out, c.members[p])
	}
	return out
}

// Within returns members within radiusMiles of loc, nearest first.
func (c *Community) Within(loc models.Location, radiusMiles float64) ([]geo.Hit[models.CommunityMember], error) {
	return c.grid.Within(loc, radiusMiles)
}
