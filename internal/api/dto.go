package api

import (
	"time"

	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/roster"
	"github.com/eugenenazirov/army-grid/internal/storage"
)

type sizeDTO struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type gridDTO struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

type partitionRequest struct {
	Sum        int     `json:"sum"`
	Count      int     `json:"count"`
	LowerBound int     `json:"lowerBound"`
	UpperBound int     `json:"upperBound"`
	Seed       *uint64 `json:"seed,omitempty"`
}

type partitionResponse struct {
	Sum        int   `json:"sum"`
	Count      int   `json:"count"`
	LowerBound int   `json:"lowerBound"`
	UpperBound int   `json:"upperBound"`
	Values     []int `json:"values"`
}

// profileDTO is the wire form of a layout profile.
type profileDTO struct {
	Area       sizeDTO `json:"area"`
	Item       sizeDTO `json:"item"`
	MarginX    float64 `json:"marginX"`
	MarginY    float64 `json:"marginY"`
	MinRows    int     `json:"minRows"`
	MinColumns int     `json:"minColumns"`
	MaxRows    int     `json:"maxRows"`
	MaxColumns int     `json:"maxColumns"`
	DirectionX string  `json:"directionX,omitempty"`
	DirectionY string  `json:"directionY,omitempty"`
}

type layoutRequest struct {
	profileDTO
	ItemCount int     `json:"itemCount"`
	Previous  gridDTO `json:"previous"`
}

type slotDTO struct {
	Row    int     `json:"row"`
	Column int     `json:"column"`
	Item   int     `json:"item"`
	Empty  bool    `json:"empty,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type layoutResponse struct {
	Rows          int         `json:"rows"`
	Columns       int         `json:"columns"`
	AvailableArea sizeDTO     `json:"availableArea"`
	AspectRatio   float64     `json:"aspectRatio"`
	Slots         [][]slotDTO `json:"slots"`
}

type profileResponse struct {
	Name    string     `json:"name"`
	Profile profileDTO `json:"profile"`
	Message string     `json:"message,omitempty"`
}

type profilesResponse struct {
	Profiles  []string  `json:"profiles"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type rosterRequest struct {
	Total   int     `json:"total"`
	Profile string  `json:"profile,omitempty"`
	Seed    *uint64 `json:"seed,omitempty"`
}

type unitCountDTO struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type placementDTO struct {
	Unit   string  `json:"unit"`
	Row    int     `json:"row"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type rosterResponse struct {
	Total             int            `json:"total"`
	Profile           string         `json:"profile"`
	Counts            []unitCountDTO `json:"counts"`
	Rows              int            `json:"rows"`
	Columns           int            `json:"columns"`
	Item              sizeDTO        `json:"item"`
	Recomputed        bool           `json:"recomputed"`
	Placements        []placementDTO `json:"placements"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (d profileDTO) toProfile() (storage.Profile, error) {
	dx, err := layout.ParseDirectionX(d.DirectionX)
	if err != nil {
		return storage.Profile{}, err
	}
	dy, err := layout.ParseDirectionY(d.DirectionY)
	if err != nil {
		return storage.Profile{}, err
	}
	return storage.Profile{
		Area:       layout.Size{Width: d.Area.Width, Height: d.Area.Height},
		Item:       layout.Size{Width: d.Item.Width, Height: d.Item.Height},
		MarginX:    d.MarginX,
		MarginY:    d.MarginY,
		MinRows:    d.MinRows,
		MinColumns: d.MinColumns,
		MaxRows:    d.MaxRows,
		MaxColumns: d.MaxColumns,
		DirectionX: dx,
		DirectionY: dy,
	}, nil
}

func newProfileDTO(p storage.Profile) profileDTO {
	return profileDTO{
		Area:       sizeDTO{Width: p.Area.Width, Height: p.Area.Height},
		Item:       sizeDTO{Width: p.Item.Width, Height: p.Item.Height},
		MarginX:    p.MarginX,
		MarginY:    p.MarginY,
		MinRows:    p.MinRows,
		MinColumns: p.MinColumns,
		MaxRows:    p.MaxRows,
		MaxColumns: p.MaxColumns,
		DirectionX: p.DirectionX.String(),
		DirectionY: p.DirectionY.String(),
	}
}

func newLayoutResponse(result layout.Result) layoutResponse {
	slots := make([][]slotDTO, len(result.Slots))
	for i, row := range result.Slots {
		slots[i] = make([]slotDTO, len(row))
		for j, slot := range row {
			slots[i][j] = slotDTO{
				Row:    slot.Row,
				Column: slot.Column,
				Item:   slot.Item,
				Empty:  slot.Empty(),
				X:      slot.Position.X,
				Y:      slot.Position.Y,
			}
		}
	}
	return layoutResponse{
		Rows:          result.Rows,
		Columns:       result.Columns,
		AvailableArea: sizeDTO{Width: result.AvailableArea.Width, Height: result.AvailableArea.Height},
		AspectRatio:   result.AspectRatio,
		Slots:         slots,
	}
}

func newRosterResponse(name string, profile storage.Profile, army roster.Army, elapsed time.Duration) rosterResponse {
	counts := make([]unitCountDTO, len(army.Counts))
	for i, c := range army.Counts {
		counts[i] = unitCountDTO{Type: c.Type.String(), Count: c.Count}
	}
	placements := make([]placementDTO, len(army.Placements))
	for i, p := range army.Placements {
		placements[i] = placementDTO{
			Unit:   p.Unit.Type.String(),
			Row:    p.Slot.Row,
			Column: p.Slot.Column,
			X:      p.Slot.Position.X,
			Y:      p.Slot.Position.Y,
		}
	}
	return rosterResponse{
		Total:             army.Total,
		Profile:           name,
		Counts:            counts,
		Rows:              army.Layout.Rows,
		Columns:           army.Layout.Columns,
		Item:              sizeDTO{Width: profile.Item.Width, Height: profile.Item.Height},
		Recomputed:        army.Recomputed,
		Placements:        placements,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
}
