// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import (
	"math"
	"time"
)

const (
	// vehicleMarginPx widens a vehicle box when testing whether a person is beside it.
	vehicleMarginPx = 50

	// loiterFrames is both the minimum object history and the lookback for loitering.
	loiterFrames = 10

	// loiterMinPositions is how many person positions the lookback must contain.
	loiterMinPositions = 5

	// loiterMaxVariance is the summed x/y position variance below which a person is loitering.
	loiterMaxVariance = 10000

	// guardianRadiusPx is how close a person must be for an animal to count as accompanied.
	guardianRadiusPx = 150

	// animalMovingVariance is the summed position variance above which an animal is moving.
	animalMovingVariance = 400
)

// ObjectSummary is the object-derived part of a frame's features.
type ObjectSummary struct {
	People             []ObjectDetection
	Vehicles           []ObjectDetection
	Animals            []ObjectDetection
	PeopleNearVehicles bool
	Loitering          bool

	// Unaccompanied is the first animal with no person within the guardian
	// radius, nil if none.
	Unaccompanied *ObjectDetection

	// AnimalVariance is the summed position variance of the animal class
	// of Unaccompanied across the object history.
	AnimalVariance float64
}

// FilterObjects splits detections into confident people, vehicles and
// animals for one frame.
func FilterObjects(ts time.Time, objects []ObjectDetection) ObjectFrame {
	f := ObjectFrame{Timestamp: ts}
	for _, o := range objects {
		if o.Confidence <= MinObjectConfidence {
			continue
		}
		switch {
		case o.Class == LabelPerson:
			f.People = append(f.People, o)
		case IsVehicle(o.Class):
			f.Vehicles = append(f.Vehicles, o)
		case IsAnimal(o.Class):
			f.Animals = append(f.Animals, o)
		}
	}
	return f
}

// Summarize analyzes the current frame against the object history. history
// must already include current as its newest entry.
func Summarize(current ObjectFrame, history []ObjectFrame) ObjectSummary {
	s := ObjectSummary{
		People:   current.People,
		Vehicles: current.Vehicles,
		Animals:  current.Animals,
	}
	s.PeopleNearVehicles = personNearVehicle(current.People, current.Vehicles)
	s.Loitering = loitering(current, history)

	for i := range current.Animals {
		a := current.Animals[i]
		if !accompanied(a, current.People) {
			s.Unaccompanied = &a
			s.AnimalVariance = animalVariance(a.Class, history)
			break
		}
	}
	return s
}

func personNearVehicle(people, vehicles []ObjectDetection) bool {
	for _, p := range people {
		x, y := p.Center[0], p.Center[1]
		for _, v := range vehicles {
			if v.BBox[0]-vehicleMarginPx < x && x < v.BBox[2]+vehicleMarginPx &&
				v.BBox[1]-vehicleMarginPx < y && y < v.BBox[3]+vehicleMarginPx {
				return true
			}
		}
	}
	return false
}

func loitering(current ObjectFrame, history []ObjectFrame) bool {
	if len(history) < loiterFrames || len(current.People) == 0 {
		return false
	}
	var positions [][2]float64
	for _, f := range history[len(history)-loiterFrames:] {
		for _, p := range f.People {
			positions = append(positions, p.Center)
		}
	}
	if len(positions) < loiterMinPositions {
		return false
	}
	return positionVariance(positions) < loiterMaxVariance
}

func accompanied(animal ObjectDetection, people []ObjectDetection) bool {
	for _, p := range people {
		if math.Hypot(p.Center[0]-animal.Center[0], p.Center[1]-animal.Center[1]) <= guardianRadiusPx {
			return true
		}
	}
	return false
}

func animalVariance(class string, history []ObjectFrame) float64 {
	var positions [][2]float64
	for _, f := range history {
		for _, a := range f.Animals {
			if a.Class == class {
				positions = append(positions, a.Center)
			}
		}
	}
	return positionVariance(positions)
}

// positionVariance sums the population variance of x and y.
func positionVariance(points [][2]float64) float64 {
	if len(points) < 2 {
		return 0
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p[0], p[1]
	}
	_, sx := meanStd(xs)
	_, sy := meanStd(ys)
	return sx*sx + sy*sy
}
