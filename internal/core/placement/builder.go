package placement

import (
	"fmt"

	"github.com/zeusync/artrainer/internal/core/systems/physics"
)

// DefaultMinDistance keeps targets at least this far from every other placed object.
const DefaultMinDistance = 0.1

// BuildQueries creates count queries for objType sized to fullDims. Targets go on the
// floor with a single away-from-other-objects rule and no constraints; unknown types fall
// back to an unconstrained mid-air box.
func BuildQueries(count int, fullDims physics.Vec3, objType ObjectType, minDistance float64) []Query {
	if count <= 0 {
		return []Query{}
	}
	halfDims := fullDims.Scale(0.5)
	queries := make([]Query, 0, count)
	for i := 0; i < count; i++ {
		def := InMidAir(halfDims)
		var rules []Rule
		if objType == ObjectTarget {
			def = OnFloor(halfDims)
			rules = []Rule{AwayFromOtherObjects(minDistance)}
		}
		name := fmt.Sprintf("%s%d", objType, i)
		queries = append(queries, NewQuery(name, def, fullDims, objType, rules, nil))
	}
	return queries
}
