package storage

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/eugenenazirov/army-grid/internal/layout"
)

// DefaultProfileName names the profile seeded at startup. It cannot be deleted.
const DefaultProfileName = "default"

const (
	maxProfiles  = 64
	maxGridBound = 1000
)

var (
	// ErrInvalidProfile indicates the provided profile violates validation rules.
	ErrInvalidProfile = errors.New("invalid layout profile")
	// ErrInvalidProfileName indicates a malformed profile name.
	ErrInvalidProfileName = errors.New("profile names must be 1-64 characters of a-z, 0-9, '-' or '_'")
	// ErrProfileNotFound is returned when no profile exists under the given name.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileProtected is returned when deleting the default profile.
	ErrProfileProtected = errors.New("the default profile cannot be deleted")
	// ErrTooManyProfiles is returned when the store is full.
	ErrTooManyProfiles = errors.New("profile limit reached")
)

var profileNamePattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Profile holds the spawn-area settings a layout is solved against.
type Profile struct {
	Area       layout.Size
	Item       layout.Size
	MarginX    float64
	MarginY    float64
	MinRows    int
	MinColumns int
	MaxRows    int
	MaxColumns int
	DirectionX layout.DirectionX
	DirectionY layout.DirectionY
}

// DefaultProfile mirrors the stock spawner: an 800x600 area of 50x50 items
// with a 20 unit horizontal margin.
func DefaultProfile() Profile {
	return Profile{
		Area:    layout.Size{Width: 800, Height: 600},
		Item:    layout.Size{Width: 50, Height: 50},
		MarginX: 20,
	}
}

// Request builds a layout request for itemCount items in this profile's area.
func (p Profile) Request(itemCount int) layout.Request {
	return layout.Request{
		ItemCount:  itemCount,
		Area:       p.Area,
		Item:       p.Item,
		MarginX:    p.MarginX,
		MarginY:    p.MarginY,
		MinRows:    p.MinRows,
		MinColumns: p.MinColumns,
		MaxRows:    p.MaxRows,
		MaxColumns: p.MaxColumns,
		DirectionX: p.DirectionX,
		DirectionY: p.DirectionY,
	}
}

// Validate checks sizes are positive, margins non-negative and grid bounds in range.
func (p Profile) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"area width", p.Area.Width},
		{"area height", p.Area.Height},
		{"item width", p.Item.Width},
		{"item height", p.Item.Height},
	} {
		if !finite(f.v) || f.v <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidProfile, f.name)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"margin x", p.MarginX},
		{"margin y", p.MarginY},
	} {
		if !finite(f.v) || f.v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidProfile, f.name)
		}
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"min rows", p.MinRows},
		{"min columns", p.MinColumns},
		{"max rows", p.MaxRows},
		{"max columns", p.MaxColumns},
	} {
		if f.v < 0 || f.v > maxGridBound {
			return fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidProfile, f.name, maxGridBound)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Storage provides access to the named layout profiles.
type Storage interface {
	GetProfile(name string) (Profile, error)
	PutProfile(name string, p Profile) error
	DeleteProfile(name string) error
	ListProfiles() ([]string, error)
}

// MemoryStorage keeps profiles in a concurrent in-memory map.
type MemoryStorage struct {
	profiles *xsync.Map[string, Profile]
}

// NewMemoryStorage initialises storage with the default profile.
func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{profiles: xsync.NewMap[string, Profile]()}
	s.profiles.Store(DefaultProfileName, DefaultProfile())
	return s
}

// GetProfile returns the profile stored under name.
func (s *MemoryStorage) GetProfile(name string) (Profile, error) {
	p, ok := s.profiles.Load(name)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, nil
}

// PutProfile validates and stores p under name, replacing any existing profile.
// The profile limit is checked without locking, so concurrent inserts may
// briefly overshoot it.
func (s *MemoryStorage) PutProfile(name string, p Profile) error {
	if !profileNamePattern.MatchString(name) {
		return ErrInvalidProfileName
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := s.profiles.Load(name); !exists && s.profiles.Size() >= maxProfiles {
		return ErrTooManyProfiles
	}
	s.profiles.Store(name, p)
	return nil
}

// DeleteProfile removes the named profile.
func (s *MemoryStorage) DeleteProfile(name string) error {
	if name == DefaultProfileName {
		return ErrProfileProtected
	}
	if _, ok := s.profiles.LoadAndDelete(name); !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return nil
}

// ListProfiles returns the sorted profile names.
func (s *MemoryStorage) ListProfiles() ([]string, error) {
	names := make([]string, 0, s.profiles.Size())
	s.profiles.Range(func(name string, _ Profile) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names, nil
}
