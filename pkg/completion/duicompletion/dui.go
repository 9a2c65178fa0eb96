// Package duicompletion adapts a DUI (Diplomacy Universal Interface)
// engine subprocess, via pkg/dui, to completion.Service so a native
// search-based engine can sit behind the same Session/Coordinator
// machinery as any chat-completion provider.
package duicompletion

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ninthcircle/conclave/pkg/completion"
	"github.com/ninthcircle/conclave/pkg/dui"
)

// Service drives one DUI engine process for one power.
type Service struct {
	Engine   *dui.Engine
	Power    string
	MoveTime int // milliseconds passed to the engine's go command
}

// New starts and initializes a DUI engine binary for the given power.
func New(ctx context.Context, path string, power string, moveTimeMS int, args ...string) (*Service, error) {
	eng := dui.NewEngine(path, args...)
	if err := eng.Init(ctx); err != nil {
		return nil, fmt.Errorf("duicompletion: init engine: %w", err)
	}
	eng.SetPower(power)
	if moveTimeMS <= 0 {
		moveTimeMS = 5000
	}
	return &Service{Engine: eng, Power: power, MoveTime: moveTimeMS}, nil
}

var dfenRe = regexp.MustCompile(`(?m)^DFEN:\s*(.+)$`)

// Complete sets the engine's position from an embedded "DFEN: ..." line
// in the prompt (falling back to the engine's own current position when
// absent) and returns its search result as an ORDERS: section.
func (s *Service) Complete(ctx context.Context, req completion.Request) (completion.Response, error) {
	text := lastUserContent(req)

	if m := dfenRe.FindStringSubmatch(text); m != nil {
		s.Engine.Position(strings.TrimSpace(m[1]))
	}

	if err := s.Engine.IsReady(ctx); err != nil {
		return completion.Response{}, fmt.Errorf("duicompletion: isready: %w", err)
	}

	results, err := s.Engine.Go(ctx, dui.GoParams{MoveTime: s.MoveTime})
	if err != nil {
		return completion.Response{}, fmt.Errorf("duicompletion: go: %w", err)
	}

	return completion.Response{
		Content:    "ORDERS:\n" + results.BestOrders + "\n",
		StopReason: completion.StopEndTurn,
	}, nil
}

// Close releases the underlying engine subprocess.
func (s *Service) Close() error {
	return s.Engine.Close()
}

func lastUserContent(req completion.Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}
