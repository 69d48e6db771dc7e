// Package inventory holds per-showing seat state in memory and provides
// atomic claim and release of seat sets. It is the only place where
// concurrent bookings contend; everything above it sees either a fully
// committed claim or none at all.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cinehall/booking/internal/model"
)

// MaxSeatsPerClaim bounds a single claim. Mirrors the request-level
// limit so a misbehaving caller cannot lock half the hall at once.
const MaxSeatsPerClaim = 10

var (
	ErrUnknownShowing = errors.New("unknown showing")
	ErrUnknownSeat    = errors.New("unknown seat")
	ErrInvalidSeatSet = errors.New("invalid seat set")

	// ErrSeatNotAvailable is the sentinel wrapped by UnavailableError so
	// callers can match with errors.Is without unpacking the seat list.
	ErrSeatNotAvailable = errors.New("seat not available")
)

// UnavailableError reports which seats prevented a claim from
// committing. The claim leaves no state behind when it is returned.
type UnavailableError struct {
	ShowingID uint
	SeatIDs   []uint
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("showing %d: seats %v not available", e.ShowingID, e.SeatIDs)
}

func (e *UnavailableError) Unwrap() error { return ErrSeatNotAvailable }

// SeatState is the snapshot of one seat for one showing. BookingRef is
// non-empty exactly when Status is BOOKED. Version increments on every
// committed transition. Label and Category are immutable seat metadata
// carried along so snapshot consumers need no extra lookup.
type SeatState struct {
	SeatID     uint
	Label      string
	Category   model.SeatCategory
	Status     model.SeatStatus
	Price      float64
	BookingRef string
	Version    uint64
}

// seat pairs a timed exclusive lock with an atomically swappable state
// snapshot, so browsing reads never wait on in-flight claims.
type seat struct {
	lock  chan struct{}
	state atomic.Pointer[SeatState]
}

func newSeat(st SeatState) *seat {
	s := &seat{lock: make(chan struct{}, 1)}
	s.state.Store(&st)
	return s
}

func (s *seat) acquire(deadline time.Time) bool {
	select {
	case s.lock <- struct{}{}:
		return true
	default:
	}
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case s.lock <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (s *seat) release() { <-s.lock }

type showing struct {
	seats     map[uint]*seat
	total     int
	available atomic.Int64
}

// Inventory keys seat state by (showingID, seatID). Claims on disjoint
// seat sets of the same showing run fully in parallel; overlapping
// claims serialize on the shared seats only.
type Inventory struct {
	mu           sync.RWMutex
	showings     map[uint]*showing
	claimTimeout time.Duration
}

func New(claimTimeout time.Duration) *Inventory {
	return &Inventory{
		showings:     make(map[uint]*showing),
		claimTimeout: claimTimeout,
	}
}

// Register installs the full seat set of a showing. Existing state for
// the showing is replaced, so it is also the rehydration entry point at
// startup.
func (inv *Inventory) Register(showingID uint, seats []SeatState) {
	sh := &showing{seats: make(map[uint]*seat, len(seats)), total: len(seats)}
	available := 0
	for _, st := range seats {
		sh.seats[st.SeatID] = newSeat(st)
		if st.Status == model.SeatAvailable {
			available++
		}
	}
	sh.available.Store(int64(available))

	inv.mu.Lock()
	inv.showings[showingID] = sh
	inv.mu.Unlock()
}

func (inv *Inventory) showing(showingID uint) (*showing, error) {
	inv.mu.RLock()
	sh, ok := inv.showings[showingID]
	inv.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownShowing
	}
	return sh, nil
}

// Claim transitions every seat in seatIDs from AVAILABLE to BOOKED under
// the given booking reference, or none of them. Locks are taken in
// ascending seat-ID order so overlapping claims cannot deadlock, and
// each acquisition is bounded by the configured claim timeout; a timeout
// surfaces as UnavailableError rather than a hang.
func (inv *Inventory) Claim(showingID uint, ref string, seatIDs []uint) ([]SeatState, error) {
	if err := checkSeatSet(seatIDs); err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: empty booking reference", ErrInvalidSeatSet)
	}
	sh, err := inv.showing(showingID)
	if err != nil {
		return nil, err
	}

	ordered := sortedCopy(seatIDs)
	seats := make([]*seat, len(ordered))
	for i, id := range ordered {
		st, ok := sh.seats[id]
		if !ok {
			return nil, fmt.Errorf("%w: seat %d in showing %d", ErrUnknownSeat, id, showingID)
		}
		seats[i] = st
	}

	deadline := time.Now().Add(inv.claimTimeout)
	acquired := 0
	for i, st := range seats {
		if !st.acquire(deadline) {
			unlockAll(seats[:acquired])
			return nil, &UnavailableError{ShowingID: showingID, SeatIDs: []uint{ordered[i]}}
		}
		acquired++
	}
	defer unlockAll(seats)

	var unavailable []uint
	for i, st := range seats {
		if st.state.Load().Status != model.SeatAvailable {
			unavailable = append(unavailable, ordered[i])
		}
	}
	if len(unavailable) > 0 {
		return nil, &UnavailableError{ShowingID: showingID, SeatIDs: unavailable}
	}

	snapshots := make([]SeatState, 0, len(seats))
	for _, st := range seats {
		next := *st.state.Load()
		next.Status = model.SeatBooked
		next.BookingRef = ref
		next.Version++
		st.state.Store(&next)
		snapshots = append(snapshots, next)
	}
	sh.available.Add(-int64(len(seats)))
	return snapshots, nil
}

// Release reverts the given seats from BOOKED to AVAILABLE when they
// are held under ref, clearing the booking reference. Seats already
// available or held under a different reference are skipped, so a
// retried cancellation is harmless and can never free seats that were
// rebooked in the meantime. It returns how many seats actually flipped.
func (inv *Inventory) Release(showingID uint, ref string, seatIDs []uint) (int, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	sh, err := inv.showing(showingID)
	if err != nil {
		return 0, err
	}

	ordered := sortedCopy(seatIDs)
	seats := make([]*seat, len(ordered))
	for i, id := range ordered {
		st, ok := sh.seats[id]
		if !ok {
			return 0, fmt.Errorf("%w: seat %d in showing %d", ErrUnknownSeat, id, showingID)
		}
		seats[i] = st
	}

	deadline := time.Now().Add(inv.claimTimeout)
	acquired := 0
	for i, st := range seats {
		if !st.acquire(deadline) {
			unlockAll(seats[:acquired])
			return 0, &UnavailableError{ShowingID: showingID, SeatIDs: []uint{ordered[i]}}
		}
		acquired++
	}
	defer unlockAll(seats)

	released := 0
	for _, st := range seats {
		cur := st.state.Load()
		if cur.Status != model.SeatBooked || cur.BookingRef != ref {
			continue
		}
		next := *cur
		next.Status = model.SeatAvailable
		next.BookingRef = ""
		next.Version++
		st.state.Store(&next)
		released++
	}
	if released > 0 {
		sh.available.Add(int64(released))
	}
	return released, nil
}

// Snapshot returns the current state of every seat of a showing, sorted
// by seat ID. It never blocks on in-flight claims; a claim committing
// concurrently may be partially visible, which browsing tolerates.
func (inv *Inventory) Snapshot(showingID uint) ([]SeatState, error) {
	sh, err := inv.showing(showingID)
	if err != nil {
		return nil, err
	}
	out := make([]SeatState, 0, len(sh.seats))
	for _, st := range sh.seats {
		out = append(out, *st.state.Load())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatID < out[j].SeatID })
	return out, nil
}

// Available returns the count of seats currently AVAILABLE for a showing.
func (inv *Inventory) Available(showingID uint) (int, error) {
	sh, err := inv.showing(showingID)
	if err != nil {
		return 0, err
	}
	return int(sh.available.Load()), nil
}

// TotalSeats returns the registered seat count of a showing.
func (inv *Inventory) TotalSeats(showingID uint) (int, error) {
	sh, err := inv.showing(showingID)
	if err != nil {
		return 0, err
	}
	return sh.total, nil
}

func checkSeatSet(seatIDs []uint) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSeatSet)
	}
	if len(seatIDs) > MaxSeatsPerClaim {
		return fmt.Errorf("%w: %d seats exceeds limit of %d", ErrInvalidSeatSet, len(seatIDs), MaxSeatsPerClaim)
	}
	seen := make(map[uint]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate seat %d", ErrInvalidSeatSet, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func sortedCopy(seatIDs []uint) []uint {
	out := make([]uint, len(seatIDs))
	copy(out, seatIDs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unlockAll(seats []*seat) {
	for i := len(seats) - 1; i >= 0; i-- {
		seats[i].release()
	}
}
