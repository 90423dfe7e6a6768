package mesh

// EntityKind tags the three kinds of mesh entities a reader creates.
type EntityKind uint8

const (
	VertexEntity EntityKind = iota
	EdgeEntity
	QuadEntity
)

func (k EntityKind) String() string {
	return [...]string{"Vertex", "Edge", "Quad"}[k]
}

// Entity is implemented by *Vertex, *Edge and *Quad.
type Entity interface {
	EntityID() int
	EntityKind() EntityKind
}

// A ControllerFactory lets a presentation layer decorate every entity the reader
// creates. The codec never looks inside the controllers it is handed back.
type ControllerFactory interface {
	CreateProvider(entity Entity) ControllerProvider
}

type ControllerProvider interface {
	CreateController(entity Entity) Controller
}

type Controller interface {
	Entity() Entity
}

// IdentityFactory is used when no presentation layer is attached, its controllers
// hold the entity and nothing else.
type IdentityFactory struct{}

func (IdentityFactory) CreateProvider(Entity) ControllerProvider { return identityProvider{} }

type identityProvider struct{}

func (identityProvider) CreateController(entity Entity) Controller {
	return identityController{entity: entity}
}

type identityController struct {
	entity Entity
}

func (ic identityController) Entity() Entity { return ic.entity }

// Decorate runs an entity through a factory.
func Decorate(f ControllerFactory, entity Entity) Controller {
	return f.CreateProvider(entity).CreateController(entity)
}
