package game

// Default tunables for character movement, in world units and seconds.
const (
	MovementSpeed      = float32(500)
	Gravity            = float32(800)
	StopSpeed          = float32(100)
	Acceleration       = float32(10)
	AirAcceleration    = float32(1)
	FlightAcceleration = float32(8)
	Friction           = float32(6)
	FlightFriction     = float32(3)
	JumpSpeed          = float32(350)

	// MinFrictionSpeed is the speed under which friction stops the character outright.
	MinFrictionSpeed = float32(0.1)
	// MinWalkSpeed is the speed under which a walking character is brought to rest after accelerating.
	MinWalkSpeed = float32(1)
	// GroundProbeDistance is how far below the base of the collision shape the ground is searched for.
	GroundProbeDistance = float32(1)

	ErrorTolerance                   = float32(10)
	PenetrationPullbackDistance      = float32(0.125)
	PenetrationOverlapCheckInflation = float32(0.1)
	// DefaultPenetrationDepth is used when a hit reports penetration without a usable depth.
	DefaultPenetrationDepth = float32(0.125)

	RotatorTolerance  = float32(1e-3)
	LocationTolerance = float32(1e-4)
	DefaultMaxSpeed   = float32(1200)
	// TeleportDistanceSquared is the squared distance past which interpolation snaps instead of blending.
	TeleportDistanceSquared = float32(1000 * 1000)
	// LookRateYaw is the yaw rate in degrees per second produced by a full look input.
	LookRateYaw = float32(150)
)
