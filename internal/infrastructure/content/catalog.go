// Package content loads the festival programme shipped with the binary. The
// programme is content data, not sync state: the core only reads activity
// ids, prices and schedules from it.
package content

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/pkg/tz"
)

//go:embed fiestas.yaml
var programmeYAML []byte

type activityYAML struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	ShortName   string   `yaml:"short_name"`
	Date        string   `yaml:"date"`  // "2025-08-15"
	Time        string   `yaml:"time"`  // "09:00", local Madrid time
	EndTime     string   `yaml:"end_time,omitempty"`
	Location    string   `yaml:"location,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	PriceEUR    *float64 `yaml:"price_eur,omitempty"`
	Responsible string   `yaml:"responsible,omitempty"`
	Notes       string   `yaml:"notes,omitempty"`
}

type programmeYAMLDoc struct {
	Version    string         `yaml:"version"`
	Activities []activityYAML `yaml:"activities"`
}

// Catalog is the in-memory activity programme, indexed by id.
type Catalog struct {
	version string
	byID    map[string]*entities.Activity
	ordered []entities.Activity
}

// Load parses the embedded programme.
func Load() (*Catalog, error) {
	return parse(programmeYAML)
}

func parse(raw []byte) (*Catalog, error) {
	var doc programmeYAMLDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse programme: %w", err)
	}

	c := &Catalog{version: doc.Version, byID: make(map[string]*entities.Activity)}
	for _, a := range doc.Activities {
		if a.ID == "" || a.Title == "" {
			return nil, fmt.Errorf("programme: activity without id or title (%q/%q)", a.ID, a.Title)
		}
		starts, err := parseLocal(a.Date, a.Time)
		if err != nil {
			return nil, fmt.Errorf("programme %s: %w", a.ID, err)
		}
		var ends time.Time
		if a.EndTime != "" {
			if ends, err = parseLocal(a.Date, a.EndTime); err != nil {
				return nil, fmt.Errorf("programme %s: %w", a.ID, err)
			}
		}
		act := entities.Activity{
			ID:          a.ID,
			Title:       a.Title,
			ShortName:   a.ShortName,
			StartsAt:    starts,
			EndsAt:      ends,
			Location:    a.Location,
			Category:    a.Category,
			PriceEUR:    a.PriceEUR,
			Responsible: a.Responsible,
			Notes:       a.Notes,
		}
		if _, dup := c.byID[act.ID]; dup {
			return nil, fmt.Errorf("programme: duplicate activity id %q", act.ID)
		}
		c.ordered = append(c.ordered, act)
		c.byID[act.ID] = &c.ordered[len(c.ordered)-1]
	}

	sort.SliceStable(c.ordered, func(i, j int) bool {
		return c.ordered[i].StartsAt.Before(c.ordered[j].StartsAt)
	})
	// Reindex after the sort moved the slots around.
	for i := range c.ordered {
		c.byID[c.ordered[i].ID] = &c.ordered[i]
	}
	return c, nil
}

// Version returns the programme version string.
func (c *Catalog) Version() string { return c.version }

// All returns every activity ordered by start time.
func (c *Catalog) All() []entities.Activity {
	out := make([]entities.Activity, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByID returns the activity with the given id, or ErrActividadNoHay.
func (c *Catalog) ByID(id string) (*entities.Activity, error) {
	if a, ok := c.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrActividadNoHay
}

// ByShortName returns the activity matching the short name
// (case-insensitive), or ErrActividadNoHay.
func (c *Catalog) ByShortName(name string) (*entities.Activity, error) {
	for i := range c.ordered {
		if strings.EqualFold(c.ordered[i].ShortName, name) {
			return &c.ordered[i], nil
		}
	}
	return nil, domain.ErrActividadNoHay
}

func parseLocal(date, clock string) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("missing date/time (%q %q)", date, clock)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, tz.Madrid)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q %q: %w", date, clock, err)
	}
	return t, nil
}
