package ecs

// Matcher is a pure, immutable predicate over an entity's component-type
// set and classification mask. It carries no mutable state beyond the
// precomputed fast-path bitmasks it was built with; two Matchers built from
// the same builder calls against the same registry behave identically.
//
// The builder exposes a fluent API (With/OfAll/OfAny/OfNone/WithMask/
// AllowEmpty) whose every method mutates the receiver and returns it for
// chaining, so predicates read as a single call chain at the use site.
type Matcher struct {
	all, any, none map[ComponentType]struct{}
	allBits        typeBits
	anyBits        typeBits
	noneBits       typeBits
	fastPath       bool // true iff every member of all/any/none fit the registry's bit budget
	entityMask     EntityMask
	allowEmpty     bool
}

// Matches reports whether an entity with component-type set s and
// classification mask m satisfies the predicate, per SPEC_FULL.md §3:
//
//  1. if entity_mask != 0 and (m & entity_mask) == 0 -> reject
//  2. if s empty and not allow_empty -> reject
//  3. if s intersects none -> reject
//  4. if any non-empty and s does not intersect any -> reject
//  5. if all is not a subset of s -> reject
//  6. else accept
//
// presence is the entity's bitmask from the same TypeRegistry. When it is
// non-zero and every matcher term has a bit, steps 3-5 are decided by bit
// tests on presence; otherwise they are decided on s directly.
func (mt Matcher) Matches(s map[ComponentType]struct{}, presence typeBits, m EntityMask) bool {
	if mt.entityMask != 0 && m&mt.entityMask == 0 {
		return false
	}
	if len(s) == 0 && !mt.allowEmpty {
		return false
	}

	if mt.fastPath && presence != 0 {
		if presence.intersects(mt.noneBits) {
			return false
		}
		if mt.anyBits != 0 && !presence.intersects(mt.anyBits) {
			return false
		}
		return presence.isSupersetOf(mt.allBits)
	}

	for t := range mt.none {
		if _, present := s[t]; present {
			return false
		}
	}
	if len(mt.any) > 0 {
		matched := false
		for t := range mt.any {
			if _, present := s[t]; present {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for t := range mt.all {
		if _, present := s[t]; !present {
			return false
		}
	}
	return true
}

// MatcherBuilder accumulates predicate terms before Build() freezes them
// into an immutable Matcher.
type MatcherBuilder struct {
	registry   *TypeRegistry
	all, any_, none map[ComponentType]struct{}
	entityMask EntityMask
	allowEmpty bool
}

// NewMatcherBuilder starts a builder that will resolve fast-path bitmasks
// against registry at Build() time.
func NewMatcherBuilder(registry *TypeRegistry) *MatcherBuilder {
	return &MatcherBuilder{
		registry: registry,
		all:      make(map[ComponentType]struct{}),
		any_:     make(map[ComponentType]struct{}),
		none:     make(map[ComponentType]struct{}),
	}
}

// OfAll requires every listed type to be present.
func (b *MatcherBuilder) OfAll(types ...ComponentType) *MatcherBuilder {
	for _, t := range types {
		b.all[t] = struct{}{}
	}
	return b
}

// OfAny requires at least one listed type to be present (no-op if never called).
func (b *MatcherBuilder) OfAny(types ...ComponentType) *MatcherBuilder {
	for _, t := range types {
		b.any_[t] = struct{}{}
	}
	return b
}

// OfNone rejects entities carrying any listed type.
func (b *MatcherBuilder) OfNone(types ...ComponentType) *MatcherBuilder {
	for _, t := range types {
		b.none[t] = struct{}{}
	}
	return b
}

// WithMask requires (entity.mask & mask) != 0.
func (b *MatcherBuilder) WithMask(mask EntityMask) *MatcherBuilder {
	b.entityMask = mask
	return b
}

// AllowEmpty permits entities with no components at all to match (only
// meaningful when all/any are both empty).
func (b *MatcherBuilder) AllowEmpty() *MatcherBuilder {
	b.allowEmpty = true
	return b
}

// Build freezes the accumulated terms into an immutable Matcher, resolving
// the bitmask fast path against the builder's registry when every term fits
// the bit budget.
func (b *MatcherBuilder) Build() Matcher {
	allBits, allOK := b.registry.bitsFor(b.all)
	anyBits, anyOK := b.registry.bitsFor(b.any_)
	noneBits, noneOK := b.registry.bitsFor(b.none)

	return Matcher{
		all:        cloneSet(b.all),
		any:        cloneSet(b.any_),
		none:       cloneSet(b.none),
		allBits:    allBits,
		anyBits:    anyBits,
		noneBits:   noneBits,
		fastPath:   allOK && anyOK && noneOK,
		entityMask: b.entityMask,
		allowEmpty: b.allowEmpty,
	}
}

func cloneSet(in map[ComponentType]struct{}) map[ComponentType]struct{} {
	out := make(map[ComponentType]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
