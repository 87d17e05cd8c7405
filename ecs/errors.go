package ecs

import (
	"fmt"
	"time"
)

// ECSError is the single error type returned by this package. It carries
// enough context (entity, component, phase) for a caller to branch on Code
// without string-matching the message.
type ECSError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Entity    EntityID  `json:"entity,omitempty"`
	Component string    `json:"component,omitempty"`
	System    string    `json:"system,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *ECSError) Error() string {
	if e.Entity != InvalidEntityID && e.Component != "" {
		return fmt.Sprintf("[%s] %s (entity: %d, component: %s)", e.Code, e.Message, e.Entity, e.Component)
	}
	if e.Entity != InvalidEntityID {
		return fmt.Sprintf("[%s] %s (entity: %d)", e.Code, e.Message, e.Entity)
	}
	if e.Component != "" {
		return fmt.Sprintf("[%s] %s (component: %s)", e.Code, e.Message, e.Component)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsRecoverable reports whether the caller can reasonably continue after
// this error, as opposed to a programmer error that indicates corrupted
// invariants.
func (e *ECSError) IsRecoverable() bool {
	switch e.Code {
	case CodeEntityInvalid, CodeRefCut, CodeTypeMismatch:
		return true
	case CodeLifecyclePhase, CodeLoopGuard, CodeImmediateNotPermitted, CodeReentry, CodeDuplicateSubscription:
		return false
	default:
		return true
	}
}

// GetSeverity classifies the error for logging purposes.
func (e *ECSError) GetSeverity() ErrorSeverity {
	switch e.Code {
	case CodeEntityInvalid, CodeRefCut:
		return SeverityWarning
	case CodeTypeMismatch, CodeLoopGuard, CodeImmediateNotPermitted, CodeReentry, CodeDuplicateSubscription:
		return SeverityError
	case CodeLifecyclePhase:
		return SeverityCritical
	default:
		return SeverityError
	}
}

// ErrorSeverity classifies the severity of an ECSError for logging.
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Error codes. Every operation in this package that can fail returns one of
// these wrapped in an *ECSError, never a bare errors.New.
const (
	// CodeEntityInvalid: operation references a destroyed or never-allocated entity.
	CodeEntityInvalid = "ENTITY_INVALID"
	// CodeRefCut: dereferencing a handle whose slot version no longer matches.
	CodeRefCut = "REF_CUT"
	// CodeTypeMismatch: narrowing an untyped handle to the wrong component type.
	CodeTypeMismatch = "TYPE_MISMATCH"
	// CodeLifecyclePhase: operation illegal in the World's current phase.
	CodeLifecyclePhase = "LIFECYCLE_PHASE"
	// CodeLoopGuard: ModifyQueue.Add while a command is executing, without the escape flag.
	CodeLoopGuard = "LOOP_GUARD"
	// CodeImmediateNotPermitted: scheduling an immediate command outside an active raise of the matching key.
	CodeImmediateNotPermitted = "IMMEDIATE_NOT_PERMITTED"
	// CodeReentry: raise(k) while k is already on the raise stack.
	CodeReentry = "REENTRY"
	// CodeDuplicateSubscription: the same receiver registered twice when duplication is disallowed.
	CodeDuplicateSubscription = "DUPLICATE_SUBSCRIPTION"
	// CodeAlreadyDead: destroying an already-dead handle (not a failure, a reported no-op).
	CodeAlreadyDead = "ALREADY_DEAD"
	// CodeComponentNotFound: GetComponent found no component of the requested type.
	CodeComponentNotFound = "COMPONENT_NOT_FOUND"
	// CodeSystemNotFound: FindSystem referenced an unregistered system type; RegisterSystem also reports a failed OnCreate under this code.
	CodeSystemNotFound = "SYSTEM_NOT_FOUND"
	// CodeSystemExists: RegisterSystem called twice for the same system type.
	CodeSystemExists = "SYSTEM_EXISTS"
	// CodeManagerNotFound: GetManager found no capability registered for the requested type.
	CodeManagerNotFound = "MANAGER_NOT_FOUND"
	// CodeInvalidConfig: WorldConfig failed to load or validate.
	CodeInvalidConfig = "INVALID_CONFIG"
)

func newError(code, message string) *ECSError {
	return &ECSError{Code: code, Message: message, Timestamp: time.Now()}
}

func newEntityError(code, message string, entity EntityID) *ECSError {
	return &ECSError{Code: code, Message: message, Entity: entity, Timestamp: time.Now()}
}

func newComponentError(code, message string, entity EntityID, componentType ComponentType) *ECSError {
	return &ECSError{Code: code, Message: message, Entity: entity, Component: string(componentType), Timestamp: time.Now()}
}

// WithEntity attaches entity context to an existing error and returns it.
func (e *ECSError) WithEntity(entity EntityID) *ECSError {
	e.Entity = entity
	return e
}

// WithComponent attaches component context to an existing error and returns it.
func (e *ECSError) WithComponent(componentType ComponentType) *ECSError {
	e.Component = string(componentType)
	return e
}

// WithSystem attaches system context to an existing error and returns it.
func (e *ECSError) WithSystem(systemType string) *ECSError {
	e.System = systemType
	return e
}

// WithDetails attaches free-form details to an existing error and returns it.
func (e *ECSError) WithDetails(details string) *ECSError {
	e.Details = details
	return e
}

// Common error constructors, one per taxonomy entry in SPEC_FULL.md §7.

func errEntityInvalid(entity EntityID) *ECSError {
	return newEntityError(CodeEntityInvalid, fmt.Sprintf("entity %d is not live", entity), entity)
}

func errRefCut(entity EntityID, componentType ComponentType) *ECSError {
	return newComponentError(CodeRefCut, "component handle version no longer matches its slot", entity, componentType)
}

func errTypeMismatch(entity EntityID, want, got ComponentType) *ECSError {
	return newComponentError(CodeTypeMismatch, fmt.Sprintf("cannot narrow handle: expected %s, got %s", want, got), entity, got)
}

func errLifecyclePhase(op string, phase WorldPhase) *ECSError {
	return newError(CodeLifecyclePhase, fmt.Sprintf("%s is not permitted in phase %s", op, phase)).WithDetails(phase.String())
}

func errLoopGuard(key any) *ECSError {
	return newError(CodeLoopGuard, fmt.Sprintf("modify queue is executing a command; Add(%v) requires ignore_loop", key))
}

func errImmediateNotPermitted(key any) *ECSError {
	return newError(CodeImmediateNotPermitted, fmt.Sprintf("key %v is not currently being raised", key))
}

func errReentry(key any) *ECSError {
	return newError(CodeReentry, fmt.Sprintf("key %v is already on the raise stack", key))
}

func errDuplicateSubscription(detail string) *ECSError {
	return newError(CodeDuplicateSubscription, "receiver already subscribed").WithDetails(detail)
}
