package model

// Kind identifies an entity collection of the scene.
type Kind string

const (
	KindRoom      Kind = "room"
	KindDoor      Kind = "door"
	KindWindow    Kind = "window"
	KindFurniture Kind = "furniture"
)

// Kinds lists every selectable entity kind.
var Kinds = []Kind{KindRoom, KindDoor, KindWindow, KindFurniture}

// Batch is a heterogeneous set of entity ids grouped by kind.
type Batch struct {
	Rooms     []string `json:"rooms,omitempty"`
	Doors     []string `json:"doors,omitempty"`
	Windows   []string `json:"windows,omitempty"`
	Furniture []string `json:"furniture,omitempty"`
}

func (b *Batch) slot(k Kind) *[]string {
	switch k {
	case KindRoom:
		return &b.Rooms
	case KindDoor:
		return &b.Doors
	case KindWindow:
		return &b.Windows
	case KindFurniture:
		return &b.Furniture
	}
	return nil
}

// IDs returns the ids of kind k.
func (b Batch) IDs(k Kind) []string {
	if s := b.slot(k); s != nil {
		return *s
	}
	return nil
}

// Has reports whether id of kind k is in the batch.
func (b Batch) Has(k Kind, id string) bool {
	for _, v := range b.IDs(k) {
		if v == id {
			return true
		}
	}
	return false
}

// Add inserts id under kind k if it is not already present.
func (b *Batch) Add(k Kind, id string) {
	s := b.slot(k)
	if s == nil || b.Has(k, id) {
		return
	}
	*s = append(*s, id)
}

// Remove drops id of kind k. Returns true if it was present.
func (b *Batch) Remove(k Kind, id string) bool {
	s := b.slot(k)
	if s == nil {
		return false
	}
	for i, v := range *s {
		if v == id {
			*s = append((*s)[:i:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle adds id if absent and removes it otherwise.
func (b *Batch) Toggle(k Kind, id string) {
	if !b.Remove(k, id) {
		b.Add(k, id)
	}
}

// Merge adds every id of o to b.
func (b *Batch) Merge(o Batch) {
	for _, k := range Kinds {
		for _, id := range o.IDs(k) {
			b.Add(k, id)
		}
	}
}

// Len returns the total number of ids.
func (b Batch) Len() int {
	return len(b.Rooms) + len(b.Doors) + len(b.Windows) + len(b.Furniture)
}

// Empty reports whether the batch holds no ids.
func (b Batch) Empty() bool {
	return b.Len() == 0
}

// Clone returns an independent copy of b.
func (b Batch) Clone() Batch {
	var c Batch
	c.Merge(b)
	return c
}
