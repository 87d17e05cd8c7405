package ecs

import "sort"

// ModifyCommand is a deferred world modification. It returns an error
// rather than panicking; a failing command does not abort the raise that
// executes it (SPEC_FULL.md §4.5).
type ModifyCommand func() error

type queuedCommand struct {
	timing  int32
	command ModifyCommand
	seq     int // insertion order, for stable sort / tie-breaking
}

type keyQueue struct {
	deferred  []queuedCommand
	immediate []queuedCommand
}

// ModifyQueue lets systems schedule world modifications that must run
// between systems or at controlled points, and detects/prevents re-entrant
// scheduling loops. Queues are keyed by an opaque, comparable token
// (typically a ComponentType or a dedicated key type); SPEC_FULL.md §4.5.
type ModifyQueue struct {
	logger     Logger
	queues     map[any]*keyQueue
	raiseStack []any
	executing  bool
	seq        int
}

func newModifyQueue(logger Logger) *ModifyQueue {
	return &ModifyQueue{logger: logger, queues: make(map[any]*keyQueue)}
}

func (q *ModifyQueue) queueFor(key any) *keyQueue {
	kq, ok := q.queues[key]
	if !ok {
		kq = &keyQueue{}
		q.queues[key] = kq
	}
	return kq
}

func (q *ModifyQueue) isRaising(key any) bool {
	for _, k := range q.raiseStack {
		if k == key {
			return true
		}
	}
	return false
}

// AddOptions customizes Add/TryAdd beyond the (key, command, timing) basics.
type AddOptions struct {
	Timing               int32
	Immediate            bool
	IgnoreImmediateCheck bool
	IgnoreLoop           bool
}

// Add enqueues cmd under key, failing with LoopGuard if a command is
// currently executing (unless IgnoreLoop), or ImmediateNotPermitted if
// Immediate is requested outside an active raise of key (unless
// IgnoreImmediateCheck).
func (q *ModifyQueue) Add(key any, cmd ModifyCommand, opts AddOptions) *ECSError {
	if q.executing && !opts.IgnoreLoop {
		return errLoopGuard(key)
	}
	if opts.Immediate && !opts.IgnoreImmediateCheck && !q.isRaising(key) {
		return errImmediateNotPermitted(key)
	}

	kq := q.queueFor(key)
	entry := queuedCommand{timing: opts.Timing, command: cmd, seq: q.seq}
	q.seq++
	if opts.Immediate {
		kq.immediate = append(kq.immediate, entry)
	} else {
		kq.deferred = append(kq.deferred, entry)
	}
	return nil
}

// TryAdd performs the same checks as Add but reports success as a bool
// instead of an error, for call sites that only want to branch on legality.
func (q *ModifyQueue) TryAdd(key any, cmd ModifyCommand, opts AddOptions) bool {
	return q.Add(key, cmd, opts) == nil
}

// Raising reports whether any raise is currently in progress.
func (q *ModifyQueue) Raising() bool { return len(q.raiseStack) > 0 }

// ModifyExecuting reports whether a command is currently being invoked.
func (q *ModifyQueue) ModifyExecuting() bool { return q.executing }

// IsKeyRaising reports whether key is currently on the raise stack.
func (q *ModifyQueue) IsKeyRaising(key any) bool { return q.isRaising(key) }

// Raise drains and executes key's queue: deferred commands run in ascending
// timing (ties broken by insertion order), and before each deferred dequeue
// the lowest-timing immediate command (if any, and unless skipImmediate) is
// drained first. A command's error is logged, not propagated; the raise
// always completes and always pops key from the raise stack.
func (q *ModifyQueue) Raise(key any, ignoreLoop, skipImmediate bool) *ECSError {
	if q.isRaising(key) && !ignoreLoop {
		return errReentry(key)
	}

	kq := q.queueFor(key)
	execQueue := append([]queuedCommand(nil), kq.deferred...)
	sort.SliceStable(execQueue, func(i, j int) bool { return execQueue[i].timing < execQueue[j].timing })
	kq.deferred = nil

	q.raiseStack = append(q.raiseStack, key)
	defer func() {
		q.raiseStack = q.raiseStack[:len(q.raiseStack)-1]
		kq.immediate = nil
	}()

	for len(kq.immediate) > 0 || len(execQueue) > 0 {
		if !skipImmediate && len(kq.immediate) > 0 {
			idx := lowestTimingIndex(kq.immediate)
			cmd := kq.immediate[idx]
			kq.immediate = append(kq.immediate[:idx], kq.immediate[idx+1:]...)
			q.execute(cmd)
			continue
		}
		if len(execQueue) > 0 {
			cmd := execQueue[0]
			execQueue = execQueue[1:]
			q.execute(cmd)
			continue
		}
		break
	}
	return nil
}

func (q *ModifyQueue) execute(cmd queuedCommand) {
	q.executing = true
	err := cmd.command()
	q.executing = false
	if err != nil {
		q.logger.Errorf("modify queue command failed: %v", err)
	}
}

func lowestTimingIndex(entries []queuedCommand) int {
	best := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].timing < entries[best].timing {
			best = i
		}
	}
	return best
}
