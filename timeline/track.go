package timeline

// Track is a horizontal lane holding non-overlapping segments. Locked tracks
// reject all segment mutation; hidden tracks are excluded from layout and
// collision queries but keep their segments.
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Locked bool   `json:"locked"`
	Hidden bool   `json:"hidden"`
}

// TrackPatch carries a partial track update. Nil fields are left unchanged.
type TrackPatch struct {
	Name   *string
	Locked *bool
	Hidden *bool
}
