package entity

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/world"
)

// Primitive is a collidable component with a transform. It is what movement actually moves: the simulation
// sweeps its shape through the world and writes the result back into its transform.
type Primitive struct {
	// mu protects all the following fields.
	mu sync.Mutex
	// shape is the collision shape of the primitive, centred on location.
	shape world.Shape
	// location is the centre of the primitive in the world.
	location mgl32.Vec3
	// rotation is the orientation of the primitive.
	rotation game.Rotator
	// velocity is the velocity last assigned to the primitive. Moving the primitive does not change it.
	velocity mgl32.Vec3
	// transformWrites counts how many times the transform has been set.
	transformWrites uint64
	// owner is the entity the primitive is the root of, if any.
	owner *Entity
}

// NewPrimitive creates a primitive with the given collision shape at location.
func NewPrimitive(shape world.Shape, location mgl32.Vec3, rotation game.Rotator) *Primitive {
	return &Primitive{shape: shape, location: location, rotation: rotation}
}

// Shape returns the collision shape of the primitive.
func (p *Primitive) Shape() world.Shape {
	return p.shape
}

// CollisionShape returns the collision shape grown by inflation on every side.
func (p *Primitive) CollisionShape(inflation float32) world.Shape {
	if inflation == 0 {
		return p.shape
	}
	return p.shape.Inflate(inflation)
}

// HalfHeight returns the distance from the centre of the primitive to its base.
func (p *Primitive) HalfHeight() float32 {
	return p.shape.HalfHeight()
}

// Location returns the centre of the primitive.
func (p *Primitive) Location() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

// Rotation returns the orientation of the primitive.
func (p *Primitive) Rotation() game.Rotator {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotation
}

// Velocity returns the velocity last assigned to the primitive.
func (p *Primitive) Velocity() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.velocity
}

// SetVelocity ...
func (p *Primitive) SetVelocity(vel mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.velocity = vel
}

// SetLocationAndRotation sets the transform of the primitive without any collision.
func (p *Primitive) SetLocationAndRotation(location mgl32.Vec3, rotation game.Rotator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = location
	p.rotation = rotation
	p.transformWrites++
}

// TransformWrites returns the number of times the transform of the primitive has been set.
func (p *Primitive) TransformWrites() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transformWrites
}

// Owner returns the entity the primitive is the root of, or nil.
func (p *Primitive) Owner() *Entity {
	return p.owner
}
