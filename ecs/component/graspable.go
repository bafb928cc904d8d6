package component

import "github.com/milk9111/gripposer/physics"

// Graspable marks an entity as a body in the spatial query world. Name
// supplies the body id.
type Graspable struct {
	Shape physics.Shape
}

var GraspableComponent = NewComponent[Graspable]("graspable")
