package domain

import (
	"math/rand"
	"strconv"
)

// PositionBound is the half-extent of the starfield cube. Every generated
// coordinate falls within [-PositionBound, PositionBound].
const PositionBound = 40.0

// Position is a point in the shared 3D starfield.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Star is the single persisted entity: one visitor's zodiac placement
// plus its coordinate in the shared scene.
//
// All inputs (HTTP payloads, persisted JSON, backups) are merged into
// this structure.
type Star struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the opaque unique token assigned at creation. It never
	// changes across updates and is never reused after deletion.
	//
	// Records persisted by early versions may lack an ID entirely;
	// see Key for how those are still addressable.
	ID string `json:"id"`

	// ─────────────────────────────
	// Zodiac placement
	// ─────────────────────────────

	// SunSign, MoonSign and RisingSign are zodiac labels. The service
	// stores whatever strings arrive; strict validation is an opt-in
	// hook (see service.WithValidator).
	SunSign    string `json:"sunSign"`
	MoonSign   string `json:"moonSign"`
	RisingSign string `json:"risingSign"`

	// Position is fixed at creation and survives every update, no
	// matter what an update payload claims it should be.
	Position Position `json:"position"`

	// Timestamp is milliseconds since epoch, overwritten on every
	// update. It is a last-modified marker, not a created-at marker.
	Timestamp int64 `json:"timestamp"`
}

// SyntheticID derives the legacy identifier for records persisted before
// IDs were always assigned.
func (s Star) SyntheticID() string {
	return "star:" + strconv.FormatInt(s.Timestamp, 10)
}

// Key returns the identifier a stored record answers to: its ID when it
// has one, otherwise the timestamp-derived synthetic ID.
func (s Star) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.SyntheticID()
}

// RandomPosition returns a uniformly random point inside the starfield cube.
func RandomPosition() Position {
	return Position{
		X: rand.Float64()*2*PositionBound - PositionBound,
		Y: rand.Float64()*2*PositionBound - PositionBound,
		Z: rand.Float64()*2*PositionBound - PositionBound,
	}
}
