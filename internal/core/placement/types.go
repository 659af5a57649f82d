// Package placement describes the requests sent to a spatial placement solver and the
// results it returns.
package placement

import (
	"fmt"

	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// ObjectType tags what a query places. Results echo it to route spawning.
type ObjectType uint8

const (
	ObjectTarget ObjectType = iota + 1
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTarget:
		return "Target"
	default:
		return fmt.Sprintf("ObjectType(%d)", uint8(t))
	}
}

// Shape is the kind of location the solver searches for.
type Shape uint8

const (
	ShapeInMidAir Shape = iota + 1
	ShapeOnFloor
	ShapeOnWall
	ShapeOnCeiling
)

func (s Shape) String() string {
	switch s {
	case ShapeInMidAir:
		return "in_mid_air"
	case ShapeOnFloor:
		return "on_floor"
	case ShapeOnWall:
		return "on_wall"
	case ShapeOnCeiling:
		return "on_ceiling"
	default:
		return "unknown"
	}
}

// Definition is the solver-ready shape descriptor.
type Definition struct {
	Shape    Shape        `json:"shape"`
	HalfDims physics.Vec3 `json:"half_dims"`
}

func OnFloor(halfDims physics.Vec3) Definition {
	return Definition{Shape: ShapeOnFloor, HalfDims: halfDims}
}
func InMidAir(halfDims physics.Vec3) Definition {
	return Definition{Shape: ShapeInMidAir, HalfDims: halfDims}
}
func OnWall(halfDims physics.Vec3) Definition {
	return Definition{Shape: ShapeOnWall, HalfDims: halfDims}
}
func OnCeiling(halfDims physics.Vec3) Definition {
	return Definition{Shape: ShapeOnCeiling, HalfDims: halfDims}
}

type RuleKind uint8

const (
	RuleAwayFromOtherObjects RuleKind = iota + 1
	RuleAwayFromPosition
	RuleAwayFromWalls
)

// Rule is a hard requirement: candidates violating it are rejected.
type Rule struct {
	Kind     RuleKind     `json:"kind"`
	Distance float64      `json:"distance"`
	Position physics.Vec3 `json:"position"`
}

func AwayFromOtherObjects(distance float64) Rule {
	return Rule{Kind: RuleAwayFromOtherObjects, Distance: distance}
}

func AwayFromPosition(pos physics.Vec3, distance float64) Rule {
	return Rule{Kind: RuleAwayFromPosition, Position: pos, Distance: distance}
}

func AwayFromWalls(distance float64) Rule {
	return Rule{Kind: RuleAwayFromWalls, Distance: distance}
}

type ConstraintKind uint8

const (
	ConstraintNearCenter ConstraintKind = iota + 1
	ConstraintNearPoint
	ConstraintAwayFromOtherObjects
)

// Constraint is a soft preference used to rank candidates that pass every rule.
type Constraint struct {
	Kind        ConstraintKind `json:"kind"`
	Position    physics.Vec3   `json:"position"`
	MinDistance float64        `json:"min_distance,omitempty"`
	MaxDistance float64        `json:"max_distance,omitempty"`
}

func NearCenter(minDistance, maxDistance float64) Constraint {
	return Constraint{Kind: ConstraintNearCenter, MinDistance: minDistance, MaxDistance: maxDistance}
}

func NearPoint(pos physics.Vec3, minDistance, maxDistance float64) Constraint {
	return Constraint{Kind: ConstraintNearPoint, Position: pos, MinDistance: minDistance, MaxDistance: maxDistance}
}

func AwayFromOthers() Constraint {
	return Constraint{Kind: ConstraintAwayFromOtherObjects}
}

// Query is a single "find me a spot" request.
type Query struct {
	Name        string       `json:"name"`
	Definition  Definition   `json:"definition"`
	Dimensions  physics.Vec3 `json:"dimensions"`
	ObjectType  ObjectType   `json:"object_type"`
	Rules       []Rule       `json:"rules"`
	Constraints []Constraint `json:"constraints"`
}

// NewQuery builds a query; nil rule or constraint lists become empty lists.
func NewQuery(name string, def Definition, dims physics.Vec3, objType ObjectType, rules []Rule, constraints []Constraint) Query {
	if rules == nil {
		rules = []Rule{}
	}
	if constraints == nil {
		constraints = []Constraint{}
	}
	return Query{
		Name:        name,
		Definition:  def,
		Dimensions:  dims,
		ObjectType:  objType,
		Rules:       rules,
		Constraints: constraints,
	}
}

func (q Query) Validate() error {
	if !q.Dimensions.NonNegative() {
		return fmt.Errorf("%w: %s has negative dimensions %+v", ErrInvalidQuery, q.Name, q.Dimensions)
	}
	if !q.Definition.HalfDims.NonNegative() {
		return fmt.Errorf("%w: %s has negative half extents", ErrInvalidQuery, q.Name)
	}
	if q.Rules == nil || q.Constraints == nil {
		return fmt.Errorf("%w: %s has nil rule or constraint list", ErrInvalidQuery, q.Name)
	}
	return nil
}

// Result is a resolved placement.
type Result struct {
	Query      string       `json:"query"`
	Position   physics.Vec3 `json:"position"`
	Normal     physics.Vec3 `json:"normal"`
	ObjectType ObjectType   `json:"object_type"`
	Dimensions physics.Vec3 `json:"dimensions"`
}

// Rotation orients the object's forward axis along the surface normal, keeping it as
// upright as the geometry allows.
func (r Result) Rotation() physics.Quat {
	return physics.LookRotation(r.Normal, physics.Up)
}
