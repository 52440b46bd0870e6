package config

const (
	// MaxEmployeeNameLength fits VARCHAR(255)
	MaxEmployeeNameLength = 255

	// MaxPositionLength fits VARCHAR(255)
	MaxPositionLength = 255

	// MaxSalary fits NUMERIC(12, 2)
	MaxSalary = 9_999_999_999.99

	// MaxChatMessageLength bounds a single user utterance
	MaxChatMessageLength = 4000

	// MaxEventDescriptionLength bounds an injected system note
	MaxEventDescriptionLength = 2000
)

const (
	// DefaultAgentMaxRounds stops tool chains that would otherwise never end
	DefaultAgentMaxRounds = 5

	// DefaultMemoryMaxTurns is the conversation window, instruction turn included
	DefaultMemoryMaxTurns = 20

	// DefaultMemoryNoteMaxTurns is the tighter window applied after a system note
	DefaultMemoryNoteMaxTurns = 15

	// MinMemoryTurns leaves room for the instruction, a request, its result and an answer
	MinMemoryTurns = 4
)
