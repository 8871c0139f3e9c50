// Package yamlcfg loads scene declarations from YAML documents. Declarative
// fields only: hooks, handlers, and effects are code and must be attached by
// the host program after loading.
package yamlcfg

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/dsl"
)

// sceneDTO mirrors the YAML shape of one scene entry. It uses
// "mapstructure" tags so decoding tolerates documents produced by other
// tools as long as the keys match.
type sceneDTO struct {
	Name             string         `mapstructure:"name"`
	Extends          string         `mapstructure:"extends"`
	Visible          *[]string      `mapstructure:"visible"`
	Surfaces         map[string]int `mapstructure:"surfaces"`
	PreserveOnExit   []string       `mapstructure:"preserve_on_exit"`
	CleanupOnExit    []string       `mapstructure:"cleanup_on_exit"`
	Resources        []string       `mapstructure:"resources"`
	ResourceDelayMS  int            `mapstructure:"resource_delay_ms"`
	Effect           string         `mapstructure:"effect"`
	EffectDurationMS int            `mapstructure:"effect_duration_ms"`
	ClearStage       bool           `mapstructure:"clear_stage"`
	ClearStageIgnore []string       `mapstructure:"clear_stage_ignore"`
}

type documentDTO struct {
	Scenes []sceneDTO `mapstructure:"scenes"`
}

// Load parses a YAML document into scene declarations, in document order.
func Load(r io.Reader) ([]*domain.SceneDecl, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	var doc documentDTO
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, fmt.Errorf("invalid scene document: %w", err)
	}

	decls := make([]*domain.SceneDecl, 0, len(doc.Scenes))
	for i, s := range doc.Scenes {
		if s.Name == "" {
			return nil, fmt.Errorf("scene %d: missing name", i)
		}
		decls = append(decls, toDecl(s))
	}
	return decls, nil
}

// LoadFile parses the YAML file at path.
func LoadFile(path string) ([]*domain.SceneDecl, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func toDecl(s sceneDTO) *domain.SceneDecl {
	b := dsl.New(s.Name)
	if s.Extends != "" {
		b.Extends(s.Extends)
	}
	// Distinguish "visible: []" (show nothing) from an absent key
	// (inherit from the parent).
	if s.Visible != nil {
		b.Visible(*s.Visible...)
	}
	for name, order := range s.Surfaces {
		b.DeclareSurface(name, order)
	}
	if len(s.PreserveOnExit) > 0 {
		b.PreserveOnExit(s.PreserveOnExit...)
	}
	if len(s.CleanupOnExit) > 0 {
		b.CleanupOnExit(s.CleanupOnExit...)
	}
	if len(s.Resources) > 0 {
		var opts []dsl.ResourceOption
		if s.ResourceDelayMS > 0 {
			opts = append(opts, dsl.WithSpawnDelay(time.Duration(s.ResourceDelayMS)*time.Millisecond))
		}
		b.WithResources(s.Resources, opts...)
	}
	if s.Effect != "" {
		b.Transition(s.Effect, time.Duration(s.EffectDurationMS)*time.Millisecond)
	}
	if s.ClearStage {
		b.ClearStage(s.ClearStageIgnore...)
	}
	return b.Build()
}
