package grid

// Handle addresses a record in a Store. Handles are stable for the life of
// the store.
type Handle int32

// NoHandle marks an empty adjacency slot.
const NoHandle Handle = -1

// Kind tells which pass owns a record.
type Kind uint8

const (
	KindTile Kind = iota
	KindPipe
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindPipe:
		return "pipe"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Pos locates a record on its region's grid.
type Pos struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Region int `json:"region"`
}

// NodeType classifies the space a tile sits in.
type NodeType uint8

const (
	NodeNone NodeType = iota
	NodeSpace
	NodeRoom
)

// Occupied is the directional blocking mask of a tile.
type Occupied uint8

const (
	OccupiedNone  Occupied = 0
	OccupiedRight Occupied = 1 << 0
	OccupiedUp    Occupied = 1 << 1
	OccupiedLeft  Occupied = 1 << 2
	OccupiedDown  Occupied = 1 << 3

	// OccupiedFull blocks every side but still runs atmos on the tile.
	OccupiedFull = OccupiedRight | OccupiedUp | OccupiedLeft | OccupiedDown

	// OccupiedSolid marks walls and other solid tiles.
	OccupiedSolid Occupied = 1 << 4
)

// Dir indexes the four adjacency slots. The order matches the Occupied bits.
type Dir uint8

const (
	DirRight Dir = iota
	DirUp
	DirLeft
	DirDown
)

// Dirs lists every direction in slot order.
var Dirs = [4]Dir{DirRight, DirUp, DirLeft, DirDown}

// Bit returns the Occupied bit facing d.
func (d Dir) Bit() Occupied { return Occupied(1) << d }

// Opposite returns the direction pointing back.
func (d Dir) Opposite() Dir { return (d + 2) % 4 }

// Offset returns the grid step for d. Up is towards smaller y, matching
// screen coordinates.
func (d Dir) Offset() (dx, dy int) {
	switch d {
	case DirRight:
		return 1, 0
	case DirUp:
		return 0, -1
	case DirLeft:
		return -1, 0
	default:
		return 0, 1
	}
}

// Tile is the static description of a record.
type Tile struct {
	Pos      Pos      `json:"pos"`
	Node     NodeType `json:"node"`
	Occupied Occupied `json:"occupied"`
}

// IsIsolated reports a tile blocked on every side, like a closed door.
func (t *Tile) IsIsolated() bool { return t.Occupied == OccupiedFull }

// IsSolid reports a wall.
func (t *Tile) IsSolid() bool { return t.Occupied == OccupiedSolid }

// IsSpace reports a tile open to space.
func (t *Tile) IsSpace() bool { return t.Node == NodeSpace }

// IsRoom reports a tile inside a room.
func (t *Tile) IsRoom() bool { return t.Node == NodeRoom }

// Blocks reports whether the tile's mask has the bit facing d.
func (t *Tile) Blocks(d Dir) bool { return t.Occupied&d.Bit() != 0 }

// Conductivity is the solid heat state of a record.
type Conductivity struct {
	Temperature float32 `json:"temperature"`
	// ThermalConductivity is in 0..1.
	ThermalConductivity   float32 `json:"thermal_conductivity"`
	HeatCapacity          float32 `json:"heat_capacity"`
	StartingSuperconduct  bool    `json:"starting"`
	AllowedToSuperconduct bool    `json:"allowed"`
}

// Conducting reports whether either superconduction flag is set.
func (c *Conductivity) Conducting() bool {
	return c.StartingSuperconduct || c.AllowedToSuperconduct
}

// Update is the per-record scheduling metadata. PhaseX and PhaseY never
// change after the record is built.
type Update struct {
	PhaseX        uint8 `json:"phase_x"`
	PhaseY        uint8 `json:"phase_y"`
	Updated       bool  `json:"updated"`
	TriedToUpdate bool  `json:"tried"`
}

// PhaseOf returns the floor-mod phase of a coordinate pair.
func PhaseOf(x, y int) (uint8, uint8) {
	return uint8(((x % 4) + 4) % 4), uint8(((y % 4) + 4) % 4)
}
