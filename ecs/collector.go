package ecs

// subscriptionToken identifies a Collector's registration with an eventHub
// so Dispose can deregister it.
type subscriptionToken uint64

// eventHub fans mutation events out to subscribed Collectors synchronously,
// in registration order, per SPEC_FULL.md §5's ordering guarantee. It is
// owned by a World; Component Store and Entity Registry operations call its
// fire* methods directly rather than going through a generic pub/sub bus,
// since this package's only consumers of these events are Collectors.
type eventHub struct {
	nextToken  subscriptionToken
	collectors []*Collector // registration order; nil entries mark disposed slots
	tokens     map[subscriptionToken]int
}

func newEventHub() *eventHub {
	return &eventHub{tokens: make(map[subscriptionToken]int)}
}

func (h *eventHub) subscribe(c *Collector) subscriptionToken {
	token := h.nextToken
	h.nextToken++
	h.tokens[token] = len(h.collectors)
	h.collectors = append(h.collectors, c)
	return token
}

func (h *eventHub) unsubscribe(token subscriptionToken) {
	idx, ok := h.tokens[token]
	if !ok {
		return // already disposed: a no-op, never a panic
	}
	h.collectors[idx] = nil
	delete(h.tokens, token)
}

// fireEntityCreated notifies every collector of a freshly created entity.
// This is the only event that can make an AllowEmpty matcher (one that
// matches on mask alone, with no component terms) start collecting an
// entity, since a bare entity with no components never generates a
// component_added event of its own.
func (h *eventHub) fireEntityCreated(entity EntityID) {
	for _, c := range h.collectors {
		if c != nil {
			c.onMutation(entity)
		}
	}
}

func (h *eventHub) fireComponentAdded(entity EntityID, t ComponentType, handle ComponentHandle) {
	for _, c := range h.collectors {
		if c != nil {
			c.onMutation(entity)
		}
	}
}

func (h *eventHub) fireComponentRemoved(entity EntityID, t ComponentType, handle ComponentHandle) {
	for _, c := range h.collectors {
		if c != nil {
			c.onMutation(entity)
		}
	}
}

func (h *eventHub) fireEntityDestroyed(entity EntityID) {
	for _, c := range h.collectors {
		if c != nil {
			c.onEntityDestroyed(entity)
		}
	}
}

// entityView is the minimal lookup a Collector needs to re-evaluate its
// matcher against an entity after a mutation: the live component-type set,
// the fast-path presence bitmask, and the classification mask. World
// implements this directly.
type entityView interface {
	entityTypeSet(id EntityID) (set map[ComponentType]struct{}, presence typeBits, mask EntityMask, live bool)
}

// Collector maintains a reactive, incrementally-updated view of entities
// satisfying a Matcher: Collected is the live set; Matching/Clashing report
// the deltas since the last Change() call. LazyAdd/LazyRemove flags defer
// those deltas into pending sets until Change() is called explicitly,
// rather than applying them as each event fires.
type Collector struct {
	world   entityView
	hub     *eventHub
	token   subscriptionToken
	matcher Matcher
	flags   CollectorFlag

	collectedOrder []EntityID
	collectedSet   map[EntityID]struct{}
	pendingAdd     map[EntityID]struct{}
	pendingRemove  map[EntityID]struct{}
	tombstoned     map[EntityID]struct{}

	matching []EntityID
	clashing []EntityID

	disposed bool
}

func newCollector(world entityView, hub *eventHub, matcher Matcher, flags CollectorFlag) *Collector {
	c := &Collector{
		world:         world,
		hub:           hub,
		matcher:       matcher,
		flags:         flags,
		collectedSet:  make(map[EntityID]struct{}),
		pendingAdd:    make(map[EntityID]struct{}),
		pendingRemove: make(map[EntityID]struct{}),
		tombstoned:    make(map[EntityID]struct{}),
	}
	c.token = hub.subscribe(c)
	return c
}

// Matcher returns the immutable predicate this collector was built with.
func (c *Collector) Matcher() Matcher { return c.matcher }

// Collected returns the current collected set in insertion (matching)
// order.
func (c *Collector) Collected() []EntityID {
	out := make([]EntityID, len(c.collectedOrder))
	copy(out, c.collectedOrder)
	return out
}

// Matching returns ids that entered Collected since the last Change().
func (c *Collector) Matching() []EntityID {
	out := make([]EntityID, len(c.matching))
	copy(out, c.matching)
	return out
}

// Clashing returns ids that left Collected since the last Change().
func (c *Collector) Clashing() []EntityID {
	out := make([]EntityID, len(c.clashing))
	copy(out, c.clashing)
	return out
}

// onMutation re-evaluates the matcher against entity after a
// component_added/component_removed event and applies the add/remove
// transition per SPEC_FULL.md §4.4.
func (c *Collector) onMutation(entity EntityID) {
	if c.disposed {
		return
	}
	set, presence, mask, live := c.world.entityTypeSet(entity)
	if !live {
		return
	}
	isMatch := c.matcher.Matches(set, presence, mask)
	_, isIn := c.collectedSet[entity]

	if isMatch && !isIn {
		c.applyEnter(entity)
	} else if !isMatch && isIn {
		c.applyLeave(entity)
	}
}

// onEntityDestroyed treats entity as leaving, honoring LazyRemove by
// tombstoning the id in Collected until the next Change() call rather than
// evicting it immediately, per the spec's resolved open question on lazy
// tombstoning.
func (c *Collector) onEntityDestroyed(entity EntityID) {
	if c.disposed {
		return
	}
	if _, isIn := c.collectedSet[entity]; !isIn {
		delete(c.pendingAdd, entity) // a pending-add entity that died never gets added
		return
	}
	if c.flags.has(CollectorLazyRemove) {
		c.tombstoned[entity] = struct{}{}
	}
	c.applyLeave(entity)
}

func (c *Collector) applyEnter(entity EntityID) {
	if c.flags.has(CollectorLazyAdd) {
		c.pendingAdd[entity] = struct{}{}
		return
	}
	c.insertCollected(entity)
	c.matching = append(c.matching, entity)
}

func (c *Collector) applyLeave(entity EntityID) {
	if c.flags.has(CollectorLazyRemove) {
		c.pendingRemove[entity] = struct{}{}
		return
	}
	c.removeCollected(entity)
	c.clashing = append(c.clashing, entity)
}

func (c *Collector) insertCollected(entity EntityID) {
	if _, ok := c.collectedSet[entity]; ok {
		return
	}
	c.collectedSet[entity] = struct{}{}
	c.collectedOrder = append(c.collectedOrder, entity)
}

func (c *Collector) removeCollected(entity EntityID) {
	if _, ok := c.collectedSet[entity]; !ok {
		return
	}
	delete(c.collectedSet, entity)
	for i, id := range c.collectedOrder {
		if id == entity {
			c.collectedOrder = append(c.collectedOrder[:i], c.collectedOrder[i+1:]...)
			break
		}
	}
}

// Change applies pending_add/pending_remove deltas (from Lazy flags) and
// refreshes Matching/Clashing to report only what changed since the last
// call, per SPEC_FULL.md §4.4. Calling Change() twice with no intervening
// events yields empty Matching/Clashing both times after the first
// (idempotence, testable property 5).
//
// Pending ids are applied in map iteration order, so for LazyAdd/LazyRemove
// collectors the order of Matching, Clashing and of the ids Change() appends
// to Collected does not follow the order in which the events fired.
func (c *Collector) Change() {
	c.matching = c.matching[:0]
	c.clashing = c.clashing[:0]

	for entity := range c.pendingRemove {
		c.removeCollected(entity)
		c.clashing = append(c.clashing, entity)
		delete(c.tombstoned, entity)
	}
	c.pendingRemove = make(map[EntityID]struct{})

	for entity := range c.pendingAdd {
		c.insertCollected(entity)
		c.matching = append(c.matching, entity)
	}
	c.pendingAdd = make(map[EntityID]struct{})
}

// IsTombstoned reports whether entity is retained in Collected only because
// it was destroyed while LazyRemove deferred its eviction.
func (c *Collector) IsTombstoned(entity EntityID) bool {
	_, ok := c.tombstoned[entity]
	return ok
}

// Dispose deregisters the collector from its hub. Disposing an
// already-disposed collector is a no-op, matching the spec's resolved open
// question on SignalDisposal's null-check polarity: never panic, just do
// nothing once there is nothing left to do.
func (c *Collector) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.hub.unsubscribe(c.token)
}
