package agent

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agentmodels "staffdesk/internal/domain/models/agent"
)

func roles(turns []agentmodels.Turn) []agentmodels.Role {
	out := make([]agentmodels.Role, len(turns))
	for i, t := range turns {
		out[i] = t.Role
	}
	return out
}

func TestMemory_EnsureInstruction(t *testing.T) {
	m := NewMemory(20, 15)

	m.EnsureInstruction("v1")
	m.Append(agentmodels.NewUserTurn("hi"), agentmodels.NewAssistantTurn("hello"))
	m.EnsureInstruction("v2")

	turns := m.Snapshot()
	require.Len(t, turns, 3)
	assert.Equal(t, agentmodels.RoleInstruction, turns[0].Role)
	assert.Equal(t, "v2", turns[0].Content)
	assert.Equal(t, "hi", turns[1].Content)
	assert.Equal(t, "hello", turns[2].Content)
}

func TestMemory_EnsureInstructionAfterEarlyNote(t *testing.T) {
	m := NewMemory(20, 15)
	m.InjectNote(agentmodels.Event{Kind: agentmodels.EventExternal, Description: "payroll imported"})

	m.EnsureInstruction("rules")

	turns := m.Snapshot()
	require.Len(t, turns, 2)
	assert.Equal(t, []agentmodels.Role{agentmodels.RoleInstruction, agentmodels.RoleSystemNote}, roles(turns))
	assert.Contains(t, turns[1].Text(), "payroll imported")
}

func TestMemory_TrimKeepsInstructionAndRecentTurns(t *testing.T) {
	m := NewMemory(4, 4)
	m.EnsureInstruction("rules")
	for i := 0; i < 6; i++ {
		m.Append(agentmodels.NewUserTurn(fmt.Sprint(i)))
	}

	turns := m.Snapshot()
	require.Len(t, turns, 4)
	assert.Equal(t, "rules", turns[0].Content)
	assert.Equal(t, "3", turns[1].Content)
	assert.Equal(t, "4", turns[2].Content)
	assert.Equal(t, "5", turns[3].Content)
}

func TestMemory_TrimDropsLeadingToolResults(t *testing.T) {
	m := NewMemory(20, 20)
	m.EnsureInstruction("rules")
	m.Append(
		agentmodels.NewUserTurn("delete Bob and Ann"),
		agentmodels.NewToolRequestTurn("", []agentmodels.ToolRequest{{ID: "a"}, {ID: "b"}}),
		agentmodels.NewToolResultTurn("a", "deleted Bob"),
		agentmodels.NewToolResultTurn("b", "deleted Ann"),
		agentmodels.NewAssistantTurn("done"),
	)

	// Last 3 turns start at the first tool result
	m.Trim(4)

	turns := m.Snapshot()
	assert.Equal(t, []agentmodels.Role{agentmodels.RoleInstruction, agentmodels.RoleAssistant}, roles(turns))
}

func TestMemory_ResultsAfterEvictedRequestAreDropped(t *testing.T) {
	m := NewMemory(4, 4)
	m.EnsureInstruction("rules")
	m.Append(agentmodels.NewToolRequestTurn("", []agentmodels.ToolRequest{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}))

	// The batch evicts its own request
	m.Append(
		agentmodels.NewToolResultTurn("a", "ok"),
		agentmodels.NewToolResultTurn("b", "ok"),
		agentmodels.NewToolResultTurn("c", "ok"),
	)
	assert.Equal(t, []agentmodels.Role{agentmodels.RoleInstruction}, roles(m.Snapshot()))

	// A late result for the same request lands under the bound
	m.Append(agentmodels.NewToolResultTurn("d", "ok"))
	assert.Equal(t, []agentmodels.Role{agentmodels.RoleInstruction}, roles(m.Snapshot()))

	m.Append(agentmodels.NewAssistantTurn("done"))
	assert.Equal(t, []agentmodels.Role{agentmodels.RoleInstruction, agentmodels.RoleAssistant}, roles(m.Snapshot()))
}

func TestMemory_ResultsAfterLeadingRequestAreKept(t *testing.T) {
	m := NewMemory(20, 20)
	m.Append(
		agentmodels.NewToolRequestTurn("", []agentmodels.ToolRequest{{ID: "a"}}),
		agentmodels.NewToolResultTurn("a", "ok"),
	)
	assert.Equal(t, []agentmodels.Role{agentmodels.RoleAssistantToolRequests, agentmodels.RoleToolResult}, roles(m.Snapshot()))
}

func TestMemory_InjectNoteUsesNoteBound(t *testing.T) {
	m := NewMemory(10, 5)
	m.EnsureInstruction("rules")
	for i := 0; i < 8; i++ {
		m.Append(agentmodels.NewUserTurn(fmt.Sprint(i)))
	}
	require.Equal(t, 9, m.Len())

	m.InjectNote(agentmodels.Event{Kind: agentmodels.EventExternal, Description: "x"})

	turns := m.Snapshot()
	require.Len(t, turns, 5)
	assert.Equal(t, agentmodels.RoleInstruction, turns[0].Role)
	assert.Equal(t, agentmodels.RoleSystemNote, turns[4].Role)
}

// Random append sequences never break the window invariants.
func TestMemory_TrimInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	allRoles := []agentmodels.Role{
		agentmodels.RoleUser,
		agentmodels.RoleAssistant,
		agentmodels.RoleAssistantToolRequests,
		agentmodels.RoleToolResult,
		agentmodels.RoleToolResult,
	}

	for bound := 4; bound <= 9; bound++ {
		t.Run(fmt.Sprintf("bound=%d", bound), func(t *testing.T) {
			m := NewMemory(bound, bound)
			m.EnsureInstruction("rules")

			for seq := 0; seq < 200; seq++ {
				turn := agentmodels.Turn{
					Role:    allRoles[rng.Intn(len(allRoles))],
					Content: fmt.Sprint(seq),
				}
				m.Append(turn)

				turns := m.Snapshot()
				require.LessOrEqual(t, len(turns), bound)
				require.Equal(t, agentmodels.RoleInstruction, turns[0].Role)
				require.Equal(t, "rules", turns[0].Content)
				if len(turns) > 1 && len(turns) < seq+2 {
					require.NotEqual(t, agentmodels.RoleToolResult, turns[1].Role, "suffix starts with a tool result")
				}

				// Order preserved, nothing duplicated
				last := -1
				for _, tt := range turns[1:] {
					var n int
					_, err := fmt.Sscan(tt.Content, &n)
					require.NoError(t, err)
					require.Greater(t, n, last)
					last = n
				}
				if turn.Role != agentmodels.RoleToolResult {
					require.Equal(t, seq, last, "the newest turn is kept")
				}
			}
		})
	}
}

func TestMemory_SnapshotIsACopy(t *testing.T) {
	m := NewMemory(20, 15)
	m.EnsureInstruction("rules")
	m.Append(agentmodels.NewToolRequestTurn("", []agentmodels.ToolRequest{{ID: "a", Name: "x"}}))

	snap := m.Snapshot()
	snap[0].Content = "changed"
	snap[1].ToolRequests[0].ID = "changed"

	again := m.Snapshot()
	assert.Equal(t, "rules", again[0].Content)
	assert.Equal(t, "a", again[1].ToolRequests[0].ID)
}

func TestMemory_Clear(t *testing.T) {
	m := NewMemory(20, 15)
	m.EnsureInstruction("rules")
	m.Append(agentmodels.NewUserTurn("hi"))

	m.Clear()
	assert.Zero(t, m.Len())
}
