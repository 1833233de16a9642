package game_test

import (
	"sync"

	"github.com/ajmarcus/sweeper/internal/game"
)

// scripted replays fixed draws; it panics if the test under-provisions it.
type scripted struct {
	draws []int
}

func draws(cells ...int) *scripted { return &scripted{draws: cells} }

func (s *scripted) IntN(n int) int {
	v := s.draws[0]
	s.draws = s.draws[1:]
	return v % n
}

// cycle repeats the same draws forever, for games that deal several boards.
type cycle struct {
	draws []int
	i     int
}

func (c *cycle) IntN(n int) int {
	v := c.draws[c.i%len(c.draws)]
	c.i++
	return v % n
}

type stageEvent struct {
	Outcome game.Outcome
	Stage   int
	Label   string
}

// recorder is a Listener that keeps every notification.
type recorder struct {
	mu       sync.Mutex
	stages   []stageEvent
	restarts []game.Snapshot
}

func (r *recorder) OnOutcome(_ string, o game.Outcome, stage int, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stageEvent{Outcome: o, Stage: stage, Label: label})
}

func (r *recorder) OnRestart(s game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restarts = append(r.restarts, s)
}
