package domain

import "time"

type OperationKind string

const (
	OpSave      OperationKind = "SAVE"
	OpFinalize  OperationKind = "FINALIZE"
	OpReopen    OperationKind = "REOPEN"
	OpDeleteRow OperationKind = "DELETE_ROW"
)

// OperationLog is an audit entry written next to plan mutations.
type OperationLog struct {
	ID          int64
	HeaderID    int64
	Operation   OperationKind
	Description string
	User        string
	CreatedAt   time.Time
}

// Actor is the identity/role context of the current user.
type Actor struct {
	Attribution string
	Priority    int
}
