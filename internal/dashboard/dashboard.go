package dashboard

import (
	"context"
	"fmt"

	"github.com/Tarynjenifer/smartgrow-ai/internal/task"
)

type Reading struct {
	Time        string  `yaml:"time" json:"time"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	Humidity    float64 `yaml:"humidity" json:"humidity"`
	PH          float64 `yaml:"ph" json:"ph"`
}

type GrowthWeek struct {
	Name     string `yaml:"name" json:"name"`
	Lettuce  int    `yaml:"lettuce" json:"lettuce"`
	Tomatoes int    `yaml:"tomatoes" json:"tomatoes"`
	Herbs    int    `yaml:"herbs" json:"herbs"`
}

type HarvestShare struct {
	Name  string `yaml:"name" json:"name"`
	Value int    `yaml:"value" json:"value"`
	Color string `yaml:"color" json:"color"`
}

type Metric struct {
	Name   string  `yaml:"name" json:"name"`
	Value  float64 `yaml:"value" json:"value"`
	Unit   string  `yaml:"unit" json:"unit,omitempty"`
	Status string  `yaml:"status" json:"status"` // optimal | good | critical
	Trend  string  `yaml:"trend" json:"trend"`   // up | down | stable
}

type Alert struct {
	Type    string `yaml:"type" json:"type"` // warning | success | info
	Message string `yaml:"message" json:"message"`
	Time    string `yaml:"time" json:"time"`
}

type Tables struct {
	Environment []Reading      `yaml:"environment" json:"environment"`
	Growth      []GrowthWeek   `yaml:"growth" json:"growth"`
	Harvest     []HarvestShare `yaml:"harvest" json:"harvest"`
	Metrics     []Metric       `yaml:"metrics" json:"metrics"`
	Alerts      []Alert        `yaml:"alerts" json:"alerts"`
}

type Feature struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Page        string `yaml:"page" json:"page"`
}

type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Home struct {
	Title    string    `yaml:"title" json:"title"`
	Tagline  string    `yaml:"tagline" json:"tagline"`
	Features []Feature `yaml:"features" json:"features"`
	Stats    []Stat    `yaml:"stats" json:"stats"`
}

type PlannerSummary struct {
	Counts   task.Counts `json:"counts"`
	Upcoming []task.Task `json:"upcoming"`
}

type Snapshot struct {
	Tables
	SystemStatus string         `json:"system_status"`
	Planner      PlannerSummary `json:"planner"`
}

type Service struct {
	tables        Tables
	home          Home
	tasks         task.Repo
	upcomingLimit int
}

func NewService(tables Tables, home Home, tasks task.Repo, upcomingLimit int) *Service {
	if upcomingLimit <= 0 {
		upcomingLimit = 3
	}
	return &Service{tables: tables, home: home, tasks: tasks, upcomingLimit: upcomingLimit}
}

func (s *Service) Home() Home { return s.home }

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	counts, err := s.tasks.Counts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("planner counts: %w", err)
	}
	upcoming, err := s.tasks.Upcoming(ctx, s.upcomingLimit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("planner upcoming: %w", err)
	}

	return Snapshot{
		Tables:       s.tables,
		SystemStatus: SystemStatus(s.tables.Metrics),
		Planner:      PlannerSummary{Counts: counts, Upcoming: upcoming},
	}, nil
}

// SystemStatus summarises the current metrics for the dashboard header.
func SystemStatus(metrics []Metric) string {
	critical := 0
	for _, m := range metrics {
		if m.Status == "critical" {
			critical++
		}
	}
	switch critical {
	case 0:
		return "All Systems Operational"
	case 1:
		return "1 Metric Needs Attention"
	default:
		return fmt.Sprintf("%d Metrics Need Attention", critical)
	}
}
