package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrNotFound      = errors.New("task not found")
	ErrInvalidType   = errors.New("invalid task type")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrInvalidDate   = errors.New("invalid task date")
	ErrDuplicateID   = errors.New("duplicate task id")
	ErrReservedID    = errors.New("reserved task id")
)

// ReservedIDs name the derived views under /api/tasks/ and cannot be used
// as task ids.
var ReservedIDs = []string{"upcoming", "counts", "reset"}

func reservedID(id string) bool {
	for _, r := range ReservedIDs {
		if id == r {
			return true
		}
	}
	return false
}

type Type string

const (
	TypePlanting    Type = "planting"
	TypeWatering    Type = "watering"
	TypeHarvesting  Type = "harvesting"
	TypeMaintenance Type = "maintenance"
)

var Types = []Type{TypePlanting, TypeWatering, TypeHarvesting, TypeMaintenance}

func (t Type) Valid() bool {
	switch t {
	case TypePlanting, TypeWatering, TypeHarvesting, TypeMaintenance:
		return true
	}
	return false
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// SuggestedZones are the zones offered by the planner form. Zone is free
// text and is not checked against this list.
var SuggestedZones = []string{"Zone A", "Zone B", "Zone C", "All Zones"}

type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Type      Type      `json:"type" yaml:"type"`
	Crop      string    `json:"crop" yaml:"crop"`
	Zone      string    `json:"zone" yaml:"zone"`
	Date      string    `json:"date" yaml:"date"` // YYYY-MM-DD
	Status    Status    `json:"status" yaml:"status"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Draft is what a caller supplies to Add. Status is accepted so that JSON
// clients can round-trip a task, but it is always ignored.
type Draft struct {
	Title  string `json:"title"`
	Type   Type   `json:"type"`
	Crop   string `json:"crop"`
	Zone   string `json:"zone"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
	Status Status `json:"status,omitempty"`
}

// Fields is a partial update. nil pointer => "no change".
type Fields struct {
	Title *string `json:"title,omitempty"`
	Type  *Type   `json:"type,omitempty"`
	Crop  *string `json:"crop,omitempty"`
	Zone  *string `json:"zone,omitempty"`
	Date  *string `json:"date,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type Counts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

type Filter struct {
	// "" matches everything
	Status Status
	Type   Type
	Zone   string
}

func (f Filter) matches(t Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Zone != "" && !strings.EqualFold(t.Zone, f.Zone) {
		return false
	}
	return true
}

func validDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}

func (f Fields) validate() error {
	if f.Type != nil && !f.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, *f.Type)
	}
	if f.Date != nil {
		return validDate(*f.Date)
	}
	return nil
}

func (f Fields) apply(t *Task) {
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.Type != nil {
		t.Type = *f.Type
	}
	if f.Crop != nil {
		t.Crop = *f.Crop
	}
	if f.Zone != nil {
		t.Zone = *f.Zone
	}
	if f.Date != nil {
		t.Date = *f.Date
	}
	if f.Notes != nil {
		t.Notes = *f.Notes
	}
}

// Validate checks the id and the closed-set fields of a stored task. Free
// text is never validated.
func (t Task) Validate() error {
	if reservedID(t.ID) {
		return fmt.Errorf("%w: %q", ErrReservedID, t.ID)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	return validDate(t.Date)
}
