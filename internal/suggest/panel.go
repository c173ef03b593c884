package suggest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Tarynjenifer/smartgrow-ai/internal/clock"
	"github.com/Tarynjenifer/smartgrow-ai/internal/delay"
	"github.com/Tarynjenifer/smartgrow-ai/internal/telemetry"
)

const DefaultDelay = 2 * time.Second

type Options struct {
	Catalog []Suggestion
	Clock   clock.Clock
	Delay   time.Duration
	Events  telemetry.Recorder
	Logger  *zap.Logger
}

// Panel gates the generator behind the simulated analysis delay. Each
// panel id has its own slot, so a newer request replaces an older one.
type Panel struct {
	gen    *Generator
	slots  *delay.Slots
	delay  time.Duration
	events telemetry.Recorder
	logger *zap.Logger
}

func NewPanel(opts Options) *Panel {
	if opts.Events == nil {
		opts.Events = telemetry.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Delay < 0 {
		opts.Delay = DefaultDelay
	}
	return &Panel{
		gen:    NewGenerator(opts.Catalog),
		slots:  delay.NewSlots(opts.Clock),
		delay:  opts.Delay,
		events: opts.Events,
		logger: opts.Logger,
	}
}

func (p *Panel) Generator() *Generator { return p.gen }

func (p *Panel) Request(ctx context.Context, panelID string, params Parameters) ([]Suggestion, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var out []Suggestion
	err := p.slots.Do(ctx, panelID, p.delay, func() error {
		out = p.gen.Generate(params)
		return nil
	})
	if err != nil {
		if errors.Is(err, delay.ErrSuperseded) || errors.Is(err, delay.ErrCancelled) {
			p.record(telemetry.EventSuggestSuperseded, telemetry.EventMetadata{"panel": panelID})
		}
		p.logger.Debug("suggestion request dropped", zap.String("panel", panelID), zap.Error(err))
		return nil, err
	}

	p.record(telemetry.EventSuggestionsServed, telemetry.EventMetadata{
		"panel":      panelID,
		"count":      len(out),
		"soil_type":  string(params.SoilType),
		"experience": string(params.Experience),
	})
	return out, nil
}

// Loading reports whether a request for panelID is still in flight.
func (p *Panel) Loading(panelID string) bool {
	return p.slots.Pending(panelID)
}

// Cancel drops the in-flight request for panelID, if any.
func (p *Panel) Cancel(panelID string) bool {
	return p.slots.Cancel(panelID)
}

// Active returns the number of panels with a request in flight.
func (p *Panel) Active() int {
	return p.slots.Len()
}

func (p *Panel) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if err := p.events.RecordEvent(t, md); err != nil {
		p.logger.Warn("record event failed", zap.String("event", string(t)), zap.Error(err))
	}
}
