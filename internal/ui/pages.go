// Package ui renders the HTML pages. Pages are html/template layouts
// exposed as templ components so they are served with templ.Handler.
package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/Tarynjenifer/smartgrow-ai/internal/dashboard"
	"github.com/Tarynjenifer/smartgrow-ai/internal/suggest"
	"github.com/Tarynjenifer/smartgrow-ai/internal/task"
)

//go:embed templates/*.html
var templateFS embed.FS

const Brand = "SmartGrow AI"

type navItem struct {
	Href   string
	Label  string
	Active bool
}

var navPages = []struct{ page, href, label string }{
	{"home", "/", "Home"},
	{"dashboard", "/dashboard", "Dashboard"},
	{"planner", "/planner", "Planner"},
	{"suggest", "/suggest", "AI Suggestions"},
	{"chat", "/chat", "Chatbot"},
}

type view struct {
	Brand string
	Title string
	Page  string
	Nav   []navItem
	Data  any
}

// Pages holds one parsed template set per page.
type Pages struct {
	sets map[string]*template.Template
}

func NewPages() (*Pages, error) {
	p := &Pages{sets: map[string]*template.Template{}}
	for _, name := range []string{"home", "dashboard", "planner", "chat", "suggest"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

func (p *Pages) component(page, title string, data func(ctx context.Context) (any, error)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		d, err := data(ctx)
		if err != nil {
			return err
		}
		nav := make([]navItem, 0, len(navPages))
		for _, n := range navPages {
			nav = append(nav, navItem{Href: n.href, Label: n.label, Active: n.page == page})
		}
		return p.sets[page].ExecuteTemplate(w, "layout", view{
			Brand: Brand,
			Title: title,
			Page:  page,
			Nav:   nav,
			Data:  d,
		})
	})
}

func static(v any) func(context.Context) (any, error) {
	return func(context.Context) (any, error) { return v, nil }
}

func (p *Pages) HomePage(home dashboard.Home) templ.Component {
	return p.component("home", "Home", static(home))
}

// DashboardPage renders a fresh snapshot on every request.
func (p *Pages) DashboardPage(svc *dashboard.Service) templ.Component {
	return p.component("dashboard", "Dashboard", func(ctx context.Context) (any, error) {
		return svc.Snapshot(ctx)
	})
}

type plannerData struct {
	Types    []task.Type
	Statuses []task.Status
	Zones    []string
}

func (p *Pages) PlannerPage() templ.Component {
	return p.component("planner", "Planner", static(plannerData{
		Types:    task.Types,
		Statuses: task.Statuses,
		Zones:    task.SuggestedZones,
	}))
}

type chatData struct {
	ConversationID string
	QuickQuestions []string
}

func (p *Pages) ChatPage(quickQuestions []string) templ.Component {
	return p.component("chat", "Chatbot", static(chatData{
		ConversationID: "default",
		QuickQuestions: quickQuestions,
	}))
}

type slider struct {
	Name  string
	Label string
	Value float64
	Range suggest.Range
}

type suggestData struct {
	Sliders    []slider
	SoilTypes  []suggest.SoilType
	Experience []suggest.Experience
}

func (p *Pages) SuggestPage() templ.Component {
	d := suggest.DefaultParameters()
	return p.component("suggest", "AI Suggestions", static(suggestData{
		Sliders: []slider{
			{"temperature", "Temperature (°C)", d.Temperature, suggest.TemperatureRange},
			{"humidity", "Humidity (%)", d.Humidity, suggest.HumidityRange},
			{"ph", "pH", d.PH, suggest.PHRange},
			{"area", "Area (sq ft)", d.Area, suggest.AreaRange},
		},
		SoilTypes:  suggest.SoilTypes,
		Experience: suggest.ExperienceLevels,
	}))
}
