package interp

import (
	"sync"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/event"
)

// defaultPassStepMs is used when `loop pass(ms)`'s argument doesn't
// resolve to a positive number.
const defaultPassStepMs = 100

// passWorkerRNGOffset keeps a pass worker's *rand.Rand seed out of the
// range ordinary spawn indices use, so a program mixing spawns and pass
// loops never seeds two workers identically.
const passWorkerRNGOffset = 1 << 20

// execPassLoop implements `loop pass(ms): BODY` (spec.md §4.6, §5, §6.1):
// a background worker that re-runs BODY at a fixed virtual-time step
// against its own cursor, reporting events back through the shared
// background channel rather than through the synchronous spawn
// join-barrier. The worker runs on its own goroutine, but its iteration
// count and cursor advance are wholly determined by stepMs and
// $total_duration, not wall-clock time, so a render stays reproducible
// regardless of goroutine scheduling (spec.md §8: "same input, same
// output").
func (ip *Interpreter) execPassLoop(stmt ast.Statement) {
	stepMs := ip.num(stmt.LoopPassMs)
	if stepMs <= 0 {
		stepMs = defaultPassStepMs
	}
	stepSeconds := stepMs / 1000

	total := float32(0)
	if ip.scope.Special != nil {
		total = ip.scope.Special.TotalDuration
	}

	if ip.bgChannel == nil {
		ip.bgChannel = make(chan []event.AudioEvent, 64)
		ip.bgOwnsReceive = true
	}
	if ip.bgWG == nil {
		ip.bgWG = &sync.WaitGroup{}
	}

	ip.passCounter++
	worker := ip.forkForPassWorker(ip.passCounter)
	ch := ip.bgChannel
	wg := ip.bgWG
	body := stmt.Body

	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.runPassIterations(body, stepSeconds, total, ch)
	}()
}

// forkForPassWorker builds a background worker interpreter the same way
// a Spawn fork does, but also inherits the parent's background channel
// and wait group so a nested `loop pass` inside this worker's own body
// still reports to the one true root owner instead of orphaning a
// second receiver (spec.md §5).
func (ip *Interpreter) forkForPassWorker(index int) *Interpreter {
	child := ip.forkForSpawn(passWorkerRNGOffset + index)
	child.bgChannel = ip.bgChannel
	child.bgWG = ip.bgWG
	child.bgOwnsReceive = false
	return child
}

// runPassIterations repeats body at stepSeconds increments of this
// worker's own cursor until $total_duration is reached, sending each
// iteration's freshly produced events to ch. With no total duration
// set there is no bound to iterate against, so the worker runs body
// once and stops, matching the count-less non-pass loop's fallback.
func (ip *Interpreter) runPassIterations(body []ast.Statement, stepSeconds, total float32, ch chan []event.AudioEvent) {
	for i := 0; i < maxUnboundedLoopIterations; i++ {
		if total > 0 && ip.cursor >= total {
			return
		}

		before := len(ip.events)
		ip.exec(body, ip.scope.WithParent(ip.scope))
		if len(ip.events) > before {
			batch := append([]event.AudioEvent(nil), ip.events[before:]...)
			ch <- batch
		}
		if ip.breakFlag {
			ip.breakFlag = false
			return
		}
		if ip.returning {
			return
		}

		ip.cursor += stepSeconds
		if total <= 0 {
			return
		}
	}
}

// drainBackground performs a non-blocking drain of any background
// "pass" worker events that have arrived since the last block entry
// (spec.md §5: "the parent drains the receiver opportunistically at
// block entry — never blocking"). Only the interpreter that created the
// channel owns this right; forks inherit the sender side only, so a
// worker never steals events meant for its owner.
func (ip *Interpreter) drainBackground() {
	if !ip.bgOwnsReceive || ip.bgChannel == nil {
		return
	}
	for {
		select {
		case batch, ok := <-ip.bgChannel:
			if !ok {
				ip.bgChannel = nil
				return
			}
			ip.events = append(ip.events, batch...)
		default:
			return
		}
	}
}

// joinBackgroundWorkers waits for every pass worker started during this
// Run to finish, then drains whatever events it still has buffered, so
// a render always sees a complete, deterministic event list regardless
// of goroutine scheduling.
func (ip *Interpreter) joinBackgroundWorkers() {
	if ip.bgWG == nil {
		return
	}
	ip.bgWG.Wait()
	ip.drainBackground()
}
