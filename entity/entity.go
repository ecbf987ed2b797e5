package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/world"
)

// DefaultShape is the collision shape given to characters when none is specified.
var DefaultShape = world.BoxShape(34, 34, 88)

// Entity is an actor in the world owning a root primitive.
type Entity struct {
	name string
	root *Primitive
}

// NewEntity creates an entity named name whose root primitive has the given shape and transform.
func NewEntity(name string, shape world.Shape, location mgl32.Vec3, rotation game.Rotator) *Entity {
	e := &Entity{name: name}
	e.SetRoot(NewPrimitive(shape, location, rotation))
	return e
}

// Name ...
func (e *Entity) Name() string {
	return e.name
}

// Root returns the root primitive of the entity. It may be nil.
func (e *Entity) Root() *Primitive {
	return e.root
}

// SetRoot replaces the root primitive of the entity.
func (e *Entity) SetRoot(p *Primitive) {
	if p != nil {
		p.owner = e
	}
	e.root = p
}
