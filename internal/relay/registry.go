package relay

import "sort"

// Registry maps room ids to their member sets. A room is present only while
// it has at least one member. It is not safe for concurrent use.
type Registry struct {
	rooms map[string]map[*Connection]struct{}
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[*Connection]struct{})}
}

// Join adds c to roomID, creating the room if needed. It reports whether
// the room was created.
func (r *Registry) Join(roomID string, c *Connection) bool {
	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[*Connection]struct{})
		r.rooms[roomID] = members
	}
	members[c] = struct{}{}
	return !ok
}

// Leave removes c from roomID and reports whether the room was deleted.
func (r *Registry) Leave(roomID string, c *Connection) bool {
	members, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	delete(members, c)
	if len(members) == 0 {
		delete(r.rooms, roomID)
		return true
	}
	return false
}

// Broadcast hands payload to every open member of roomID except exclude.
// Members that are not open or refuse the payload count as dropped.
func (r *Registry) Broadcast(roomID string, payload []byte, exclude *Connection) (delivered, dropped int) {
	for c := range r.rooms[roomID] {
		if c == exclude {
			continue
		}
		if err := c.Send(payload); err != nil {
			dropped++
			continue
		}
		delivered++
	}
	return delivered, dropped
}

func (r *Registry) Has(roomID string) bool {
	_, ok := r.rooms[roomID]
	return ok
}

// Members returns the connections of roomID sorted by id.
func (r *Registry) Members(roomID string) []*Connection {
	members := r.rooms[roomID]
	out := make([]*Connection, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *Registry) Len() int { return len(r.rooms) }

// Rooms returns room id -> member count.
func (r *Registry) Rooms() map[string]int {
	out := make(map[string]int, len(r.rooms))
	for id, members := range r.rooms {
		out[id] = len(members)
	}
	return out
}
