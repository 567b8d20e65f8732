// Package content loads the guide steps, media and events from a YAML or
// TOML file so the text can change without a rebuild.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/guidebot/internal/events"
	"github.com/m3rciful/guidebot/internal/guide"
)

// TestLinkPlaceholder is replaced with Content.TestLink in step bodies.
const TestLinkPlaceholder = "{test_link}"

// Content is the parsed, validated content file.
type Content struct {
	Steps       []guide.Step
	FastForward int
	TestLink    string
	EventsPhoto string
	Events      []events.Event
}

// Engine builds a guide engine over the loaded steps.
func (c *Content) Engine() (*guide.Engine, error) {
	return guide.NewEngine(c.Steps, guide.WithFastForward(c.FastForward))
}

type file struct {
	FastForward *int        `yaml:"fast_forward" toml:"fast_forward"`
	TestLink    string      `yaml:"test_link" toml:"test_link"`
	EventsPhoto string      `yaml:"events_photo" toml:"events_photo"`
	Steps       []stepEntry `yaml:"steps" toml:"steps"`
	Events      []eventItem `yaml:"events" toml:"events"`
}

type stepEntry struct {
	Body string `yaml:"body" toml:"body"`
	// Media is either a single URL or a list of URLs.
	Media any `yaml:"media" toml:"media"`
}

type eventItem struct {
	Title string `yaml:"title" toml:"title"`
	Date  string `yaml:"date" toml:"date"`
	Link  string `yaml:"link" toml:"link"`
}

// Load reads path and decodes it by extension (.yaml, .yml or .toml).
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return Parse(data, "yaml")
	case ".toml":
		return Parse(data, "toml")
	default:
		return nil, fmt.Errorf("unsupported content format %q", ext)
	}
}

// Parse decodes data in the given format ("yaml" or "toml").
func Parse(data []byte, format string) (*Content, error) {
	var raw file
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml content: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse toml content: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported content format %q", format)
	}
	return raw.build()
}

func (f file) build() (*Content, error) {
	if len(f.Steps) == 0 {
		return nil, guide.ErrEmptyGuide
	}
	c := &Content{
		FastForward: guide.DefaultFastForwardIndex,
		TestLink:    strings.TrimSpace(f.TestLink),
		EventsPhoto: strings.TrimSpace(f.EventsPhoto),
	}
	if f.FastForward != nil {
		c.FastForward = *f.FastForward
	}
	var errs []error
	for i, s := range f.Steps {
		body := strings.TrimRight(s.Body, "\n")
		if strings.TrimSpace(body) == "" {
			errs = append(errs, fmt.Errorf("step %d: empty body", i+1))
			continue
		}
		media, err := parseMedia(s.Media)
		if err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
			continue
		}
		c.Steps = append(c.Steps, guide.Step{
			Body:  strings.ReplaceAll(body, TestLinkPlaceholder, c.TestLink),
			Media: media,
		})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	for _, e := range f.Events {
		c.Events = append(c.Events, events.New(e.Title, e.Date, e.Link))
	}
	return c, nil
}

func parseMedia(v any) (guide.Media, error) {
	switch m := v.(type) {
	case nil:
		return guide.NoMedia(), nil
	case string:
		return guide.SingleMedia(m), nil
	case []any:
		refs := make([]string, 0, len(m))
		for _, item := range m {
			s, ok := item.(string)
			if !ok {
				return guide.Media{}, fmt.Errorf("media list item %v is not a string", item)
			}
			refs = append(refs, s)
		}
		return guide.GroupMedia(refs...), nil
	default:
		return guide.Media{}, fmt.Errorf("media must be a string or a list, got %T", v)
	}
}
