package agent

import (
	"sync"

	agentmodels "staffdesk/internal/domain/models/agent"
)

// Memory is the ordered turn log of one conversation.
//
// Turn 0 is the instruction turn once one has been set. The log is capped at
// maxTurns: when it grows past the cap, Turn 0 and the most recent turns are
// kept, and the kept suffix never starts with a tool result. System notes
// trim to the tighter noteMaxTurns cap.
//
// Memory is safe for concurrent use. Snapshot returns copies, so callers never
// share turns with the log.
type Memory struct {
	mu           sync.Mutex
	turns        []agentmodels.Turn
	maxTurns     int
	noteMaxTurns int
}

// NewMemory creates an empty memory. Bounds below 2 disable trimming for
// that path.
func NewMemory(maxTurns, noteMaxTurns int) *Memory {
	return &Memory{maxTurns: maxTurns, noteMaxTurns: noteMaxTurns}
}

// EnsureInstruction pins text as the instruction turn. An existing
// instruction is replaced in place; trailing turns are untouched.
func (m *Memory) EnsureInstruction(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.turns) > 0 && m.turns[0].Role == agentmodels.RoleInstruction {
		m.turns[0].Content = text
		return
	}
	// Notes injected before the first conversation round stay after it
	m.turns = append([]agentmodels.Turn{agentmodels.NewInstructionTurn(text)}, m.turns...)
}

// Append adds turns at the end and trims to the regular bound.
func (m *Memory) Append(turns ...agentmodels.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range turns {
		m.turns = append(m.turns, t.Clone())
	}
	m.trimLocked(m.maxTurns)
}

// InjectNote appends an out-of-band event as a system note and trims to the
// note bound.
func (m *Memory) InjectNote(event agentmodels.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, agentmodels.NewNoteTurn(event))
	m.trimLocked(m.noteMaxTurns)
}

// Trim applies the eviction policy for the given bound.
func (m *Memory) Trim(bound int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trimLocked(bound)
}

func (m *Memory) trimLocked(bound int) {
	if bound >= 2 && len(m.turns) > bound {
		kept := make([]agentmodels.Turn, 0, bound)
		kept = append(kept, m.turns[0])
		kept = append(kept, m.turns[len(m.turns)-(bound-1):]...)
		m.turns = kept
	}
	m.dropOrphanResultsLocked()
}

// dropOrphanResultsLocked removes tool results directly after Turn 0. Their
// request was evicted by an earlier trim, possibly on a previous append.
func (m *Memory) dropOrphanResultsLocked() {
	if len(m.turns) < 2 || m.turns[0].Role == agentmodels.RoleAssistantToolRequests {
		return
	}
	i := 1
	for i < len(m.turns) && m.turns[i].Role == agentmodels.RoleToolResult {
		i++
	}
	if i > 1 {
		m.turns = append(m.turns[:1], m.turns[i:]...)
	}
}

// Snapshot returns a copy of the log.
func (m *Memory) Snapshot() []agentmodels.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return agentmodels.CloneTurns(m.turns)
}

// Len returns the number of turns in the log.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// Clear empties the log, instruction included.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
}
