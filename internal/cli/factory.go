// Package cli wires the library into an interactive terminal session and
// carries the shared setup used by the scenestack commands.
package cli

import (
	"fmt"
	"log/slog"

	scenestack "github.com/scenestack/scenestack"
	"github.com/scenestack/scenestack/internal/logging"
	"github.com/scenestack/scenestack/pkg/adapters/memory"
	"github.com/scenestack/scenestack/pkg/adapters/redis"
	"github.com/scenestack/scenestack/pkg/adapters/yamlcfg"
	"github.com/scenestack/scenestack/pkg/ports"
)

// RunOptions carries the flags shared by the run and serve commands.
type RunOptions struct {
	ConfigPath string
	Initial    string
	RedisAddr  string
	Debug      bool
}

// Session bundles everything a command needs to drive a configured
// director.
type Session struct {
	Director *scenestack.Director
	Host     *memory.Host
	Input    *memory.Input
	History  ports.HistoryStore
	Logger   *slog.Logger

	// FirstScene is the first scene declared in the config, used as the
	// default entry point.
	FirstScene string
}

// NewSession builds a director from the options: scenes from the YAML
// config, history in Redis when an address is given and in memory
// otherwise.
func NewSession(opts RunOptions, extra ...scenestack.Option) (*Session, error) {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	decls, err := yamlcfg.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error loading scenes: %w", err)
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("no scenes defined in %s", opts.ConfigPath)
	}

	var history ports.HistoryStore
	if opts.RedisAddr != "" {
		history = redis.New(opts.RedisAddr, "", 0)
	} else {
		history = memory.NewHistory()
	}

	host := memory.NewHost()
	input := memory.NewInput()

	dirOpts := []scenestack.Option{
		scenestack.WithLogger(logger),
		scenestack.WithHost(host),
		scenestack.WithInputSource(input),
		scenestack.WithHistory(history),
	}
	dirOpts = append(dirOpts, extra...)

	director := scenestack.New(dirOpts...)
	for _, decl := range decls {
		director.RegisterDecl(decl)
	}

	first := opts.Initial
	if first == "" {
		first = decls[0].Name
	}

	return &Session{
		Director:   director,
		Host:       host,
		Input:      input,
		History:    history,
		Logger:     logger,
		FirstScene: first,
	}, nil
}
