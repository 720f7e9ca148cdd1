package timeline

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Store owns the ordered track list, the authored steps, and the segment
// placements. Invariant violations are never surfaced as errors: a mutation
// that would overlap a sibling segment, invert a frame range, or touch a
// locked track is rejected and the previous state retained, because the
// store is driven by continuous pointer input where a crashed interaction is
// worse than a silently-corrected one.
//
// The store is single-threaded by design; every mutation is atomic from the
// perspective of one engine tick.
type Store struct {
	cfg       Config
	tracks    []*Track
	steps     map[string]*Step
	segments  map[string]*Segment
	journal   journal
	telemetry *Counters
}

// NewStore builds a store with one default track, matching engine creation
// in the authoring tools.
func NewStore(cfg Config) *Store {
	s := &Store{
		cfg:      cfg.normalized(),
		steps:    make(map[string]*Step),
		segments: make(map[string]*Segment),
	}
	s.AddTrack("Track 1")
	return s
}

func (s *Store) setTelemetry(counters *Counters) {
	if s == nil {
		return
	}
	s.telemetry = counters
}

func (s *Store) reject() bool {
	if s != nil && s.telemetry != nil {
		s.telemetry.RecordStoreRejection()
	}
	return false
}

func newID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// Drain returns the patches accumulated since the previous drain.
func (s *Store) Drain() []Patch {
	if s == nil {
		return nil
	}
	return s.journal.Drain()
}

// --- tracks ---

// AddTrack appends a track with a generated ID and returns the record.
func (s *Store) AddTrack(name string) Track {
	track := &Track{ID: newID("track"), Name: name}
	s.tracks = append(s.tracks, track)
	s.journal.append(Patch{Kind: PatchTrackAdded, EntityID: track.ID, Payload: TrackPayload{Track: *track}})
	return *track
}

// InsertTrack adds a track record with a caller-supplied ID, generating one
// when absent. Duplicate IDs are rejected.
func (s *Store) InsertTrack(track Track) (Track, bool) {
	if s == nil {
		return Track{}, false
	}
	if track.ID == "" {
		track.ID = newID("track")
	} else if _, exists := s.trackByID(track.ID); exists {
		return Track{}, s.reject()
	}
	stored := track
	s.tracks = append(s.tracks, &stored)
	s.journal.append(Patch{Kind: PatchTrackAdded, EntityID: stored.ID, Payload: TrackPayload{Track: stored}})
	return stored, true
}

// RemoveTrack deletes a track and cascades its segments. Removing the last
// remaining track or a locked track is rejected.
func (s *Store) RemoveTrack(id string) bool {
	if s == nil || len(s.tracks) <= 1 {
		return s.reject()
	}
	index := -1
	for i, track := range s.tracks {
		if track.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return s.reject()
	}
	if s.tracks[index].Locked {
		return s.reject()
	}
	for segID, seg := range s.segments {
		if seg.TrackID == id {
			delete(s.segments, segID)
			s.journal.append(Patch{Kind: PatchSegmentRemoved, EntityID: segID})
		}
	}
	s.tracks = append(s.tracks[:index], s.tracks[index+1:]...)
	s.journal.append(Patch{Kind: PatchTrackRemoved, EntityID: id})
	return true
}

// UpdateTrack applies a partial update. Nil patch fields keep their value.
func (s *Store) UpdateTrack(id string, patch TrackPatch) bool {
	track, ok := s.trackByID(id)
	if !ok {
		return s.reject()
	}
	if patch.Name != nil {
		track.Name = *patch.Name
	}
	if patch.Locked != nil {
		track.Locked = *patch.Locked
	}
	if patch.Hidden != nil {
		track.Hidden = *patch.Hidden
	}
	s.journal.append(Patch{Kind: PatchTrackUpdated, EntityID: id, Payload: TrackPayload{Track: *track}})
	return true
}

// Track returns a copy of the track record.
func (s *Store) Track(id string) (Track, bool) {
	track, ok := s.trackByID(id)
	if !ok {
		return Track{}, false
	}
	return *track, true
}

// Tracks returns copies of every track in layout order.
func (s *Store) Tracks() []Track {
	if s == nil {
		return nil
	}
	tracks := make([]Track, 0, len(s.tracks))
	for _, track := range s.tracks {
		tracks = append(tracks, *track)
	}
	return tracks
}

// VisibleTracks returns the tracks that participate in layout and collision
// queries, in row order. Hidden tracks keep their segments but drop out of
// this view.
func (s *Store) VisibleTracks() []Track {
	if s == nil {
		return nil
	}
	tracks := make([]Track, 0, len(s.tracks))
	for _, track := range s.tracks {
		if track.Hidden {
			continue
		}
		tracks = append(tracks, *track)
	}
	return tracks
}

func (s *Store) trackByID(id string) (*Track, bool) {
	if s == nil || id == "" {
		return nil, false
	}
	for _, track := range s.tracks {
		if track.ID == id {
			return track, true
		}
	}
	return nil, false
}

// --- steps ---

// AddStep stores an authored step, generating an ID when absent. Unknown
// step types and duplicate IDs are rejected.
func (s *Store) AddStep(step Step) (Step, bool) {
	if s == nil || !step.Type.Valid() {
		return Step{}, s.reject()
	}
	if step.ID == "" {
		step.ID = newID("step")
	} else if _, exists := s.steps[step.ID]; exists {
		return Step{}, s.reject()
	}
	stored := step.clone()
	s.steps[stored.ID] = &stored
	s.journal.append(Patch{Kind: PatchStepAdded, EntityID: stored.ID, Payload: StepPayload{Step: stored.clone()}})
	return stored.clone(), true
}

// RemoveStep deletes a step and cascades every segment referencing it, so a
// segment can never point at a missing step.
func (s *Store) RemoveStep(id string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.steps[id]; !ok {
		return s.reject()
	}
	for segID, seg := range s.segments {
		if seg.StepID == id {
			delete(s.segments, segID)
			s.journal.append(Patch{Kind: PatchSegmentRemoved, EntityID: segID})
		}
	}
	delete(s.steps, id)
	s.journal.append(Patch{Kind: PatchStepRemoved, EntityID: id})
	return true
}

// Step returns a copy of the stored step.
func (s *Store) Step(id string) (Step, bool) {
	if s == nil {
		return Step{}, false
	}
	step, ok := s.steps[id]
	if !ok {
		return Step{}, false
	}
	return step.clone(), true
}

// Steps returns copies of every authored step, sorted by ID for determinism.
func (s *Store) Steps() []Step {
	if s == nil {
		return nil
	}
	steps := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		steps = append(steps, step.clone())
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].ID < steps[j].ID })
	return steps
}

// --- segments ---

// AddSegment places a step on a track at the given start frame, using the
// per-type default duration. Negative start frames are clamped to zero at
// the boundary; placements that would overlap a sibling, land on a locked
// track, or reference missing records are rejected.
func (s *Store) AddSegment(stepID, trackID string, startFrame int) (Segment, bool) {
	if s == nil {
		return Segment{}, false
	}
	step, ok := s.steps[stepID]
	if !ok {
		return Segment{}, s.reject()
	}
	track, ok := s.trackByID(trackID)
	if !ok || track.Locked {
		return Segment{}, s.reject()
	}
	if startFrame < 0 {
		startFrame = 0
	}
	duration := s.cfg.DefaultDuration(step.Type)
	endFrame := startFrame + duration
	if max := s.cfg.MaxSegmentFrames(); max > 0 && endFrame > max {
		endFrame = max
	}
	if !s.rangeValid(startFrame, endFrame) || !s.rangeFree(trackID, startFrame, endFrame, "") {
		return Segment{}, s.reject()
	}
	seg := &Segment{
		ID:         newID("segment"),
		StepID:     stepID,
		TrackID:    trackID,
		StartFrame: startFrame,
		EndFrame:   endFrame,
	}
	s.segments[seg.ID] = seg
	s.journal.append(Patch{Kind: PatchSegmentAdded, EntityID: seg.ID, Payload: SegmentPayload{Segment: *seg}})
	return *seg, true
}

// InsertSegment adds a full segment record (used when importing an authored
// timeline). The same invariants apply as for interactive placement.
func (s *Store) InsertSegment(seg Segment) (Segment, bool) {
	if s == nil {
		return Segment{}, false
	}
	if _, ok := s.steps[seg.StepID]; !ok {
		return Segment{}, s.reject()
	}
	track, ok := s.trackByID(seg.TrackID)
	if !ok || track.Locked {
		return Segment{}, s.reject()
	}
	if seg.ID == "" {
		seg.ID = newID("segment")
	} else if _, exists := s.segments[seg.ID]; exists {
		return Segment{}, s.reject()
	}
	if !s.rangeValid(seg.StartFrame, seg.EndFrame) || !s.rangeFree(seg.TrackID, seg.StartFrame, seg.EndFrame, "") {
		return Segment{}, s.reject()
	}
	stored := seg
	s.segments[stored.ID] = &stored
	s.journal.append(Patch{Kind: PatchSegmentAdded, EntityID: stored.ID, Payload: SegmentPayload{Segment: stored}})
	return stored, true
}

// RemoveSegment deletes a placement. Segments on locked tracks stay put.
func (s *Store) RemoveSegment(id string) bool {
	if s == nil {
		return false
	}
	seg, ok := s.segments[id]
	if !ok {
		return s.reject()
	}
	if track, ok := s.trackByID(seg.TrackID); ok && track.Locked {
		return s.reject()
	}
	delete(s.segments, id)
	s.journal.append(Patch{Kind: PatchSegmentRemoved, EntityID: id})
	return true
}

// UpdateSegment commits a new frame range on the segment's current track.
func (s *Store) UpdateSegment(id string, startFrame, endFrame int) bool {
	seg, ok := s.segmentByID(id)
	if !ok {
		return s.reject()
	}
	return s.commitSegment(seg, seg.TrackID, startFrame, endFrame)
}

// MoveSegment commits a new frame range and destination track, used by the
// drag controller for cross-track migration.
func (s *Store) MoveSegment(id, trackID string, startFrame, endFrame int) bool {
	seg, ok := s.segmentByID(id)
	if !ok {
		return s.reject()
	}
	return s.commitSegment(seg, trackID, startFrame, endFrame)
}

func (s *Store) commitSegment(seg *Segment, trackID string, startFrame, endFrame int) bool {
	sourceTrack, ok := s.trackByID(seg.TrackID)
	if !ok || sourceTrack.Locked {
		return s.reject()
	}
	destTrack, ok := s.trackByID(trackID)
	if !ok || destTrack.Locked {
		return s.reject()
	}
	if startFrame < 0 {
		startFrame = 0
	}
	if max := s.cfg.MaxSegmentFrames(); max > 0 && endFrame > max {
		endFrame = max
	}
	if !s.rangeValid(startFrame, endFrame) || !s.rangeFree(trackID, startFrame, endFrame, seg.ID) {
		return s.reject()
	}
	if seg.TrackID == trackID && seg.StartFrame == startFrame && seg.EndFrame == endFrame {
		return true
	}
	seg.TrackID = trackID
	seg.StartFrame = startFrame
	seg.EndFrame = endFrame
	s.journal.append(Patch{Kind: PatchSegmentUpdated, EntityID: seg.ID, Payload: SegmentPayload{Segment: *seg}})
	return true
}

// Segment returns a copy of the placement record.
func (s *Store) Segment(id string) (Segment, bool) {
	seg, ok := s.segmentByID(id)
	if !ok {
		return Segment{}, false
	}
	return *seg, true
}

// TrackSegments returns the segments on a track ordered by start frame.
func (s *Store) TrackSegments(trackID string) []Segment {
	if s == nil {
		return nil
	}
	segments := make([]Segment, 0)
	for _, seg := range s.segments {
		if seg.TrackID == trackID {
			segments = append(segments, *seg)
		}
	}
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].StartFrame == segments[j].StartFrame {
			return segments[i].ID < segments[j].ID
		}
		return segments[i].StartFrame < segments[j].StartFrame
	})
	return segments
}

// SegmentsAt returns every segment whose half-open range contains the frame,
// across all tracks, ordered by track row then start frame. Hidden tracks
// still play back; hiding is a layout concern, not a mute.
func (s *Store) SegmentsAt(frame int) []Segment {
	if s == nil {
		return nil
	}
	rows := make(map[string]int, len(s.tracks))
	for i, track := range s.tracks {
		rows[track.ID] = i
	}
	segments := make([]Segment, 0)
	for _, seg := range s.segments {
		if seg.Contains(frame) {
			segments = append(segments, *seg)
		}
	}
	sort.Slice(segments, func(i, j int) bool {
		ri, rj := rows[segments[i].TrackID], rows[segments[j].TrackID]
		if ri != rj {
			return ri < rj
		}
		if segments[i].StartFrame != segments[j].StartFrame {
			return segments[i].StartFrame < segments[j].StartFrame
		}
		return segments[i].ID < segments[j].ID
	})
	return segments
}

// Segments returns copies of every placement, ordered like SegmentsAt.
func (s *Store) Segments() []Segment {
	if s == nil {
		return nil
	}
	segments := make([]Segment, 0, len(s.segments))
	for _, seg := range s.segments {
		segments = append(segments, *seg)
	}
	rows := make(map[string]int, len(s.tracks))
	for i, track := range s.tracks {
		rows[track.ID] = i
	}
	sort.Slice(segments, func(i, j int) bool {
		ri, rj := rows[segments[i].TrackID], rows[segments[j].TrackID]
		if ri != rj {
			return ri < rj
		}
		if segments[i].StartFrame != segments[j].StartFrame {
			return segments[i].StartFrame < segments[j].StartFrame
		}
		return segments[i].ID < segments[j].ID
	})
	return segments
}

func (s *Store) segmentByID(id string) (*Segment, bool) {
	if s == nil || id == "" {
		return nil, false
	}
	seg, ok := s.segments[id]
	return seg, ok
}

// rangeValid enforces the duration invariant: end > start with at least the
// configured minimum duration.
func (s *Store) rangeValid(startFrame, endFrame int) bool {
	if startFrame < 0 {
		return false
	}
	minDuration := s.cfg.MinDurationFrames
	if minDuration < 1 {
		minDuration = 1
	}
	return endFrame-startFrame >= minDuration
}

// rangeFree reports whether [startFrame, endFrame) avoids every sibling on
// the track, ignoring the excluded segment (the one being mutated).
func (s *Store) rangeFree(trackID string, startFrame, endFrame int, excludeID string) bool {
	for _, seg := range s.segments {
		if seg.TrackID != trackID || seg.ID == excludeID {
			continue
		}
		if seg.Overlaps(startFrame, endFrame) {
			return false
		}
	}
	return true
}

// neighborBounds returns the end frame of the closest segment before the
// range and the start frame of the closest segment after it, used by resize
// clamping. Missing neighbors yield 0 and the maximum segment bound.
func (s *Store) neighborBounds(trackID, excludeID string, startFrame, endFrame int) (int, int) {
	prevEnd := 0
	nextStart := s.cfg.MaxSegmentFrames()
	if nextStart <= 0 {
		nextStart = int(^uint(0) >> 1)
	}
	for _, seg := range s.segments {
		if seg.TrackID != trackID || seg.ID == excludeID {
			continue
		}
		if seg.EndFrame <= startFrame && seg.EndFrame > prevEnd {
			prevEnd = seg.EndFrame
		}
		if seg.StartFrame >= endFrame && seg.StartFrame < nextStart {
			nextStart = seg.StartFrame
		}
	}
	return prevEnd, nextStart
}
