package moderation

const (
	// EmojiImmediate triggers immediate deletion from a single reaction.
	EmojiImmediate = "💩"
	// EmojiQueue marks a message for the next batch deletion run.
	EmojiQueue = "👎"

	// anonymousThreshold is the 👎 count required on anonymous
	// aggregate updates. Anonymous counts arrive pre-aggregated with no
	// per-user attribution, so the decision is immediate and needs a
	// higher bar than the named path.
	anonymousThreshold = 3
)

// ReactionClassifier turns normalized reaction events into verdicts,
// consulting the registry for scope.
type ReactionClassifier struct {
	registry *GroupRegistry
}

// NewReactionClassifier creates a classifier scoped to the given registry.
func NewReactionClassifier(registry *GroupRegistry) *ReactionClassifier {
	return &ReactionClassifier{registry: registry}
}

// Classify returns the verdict for a reaction event. Events for
// unmonitored chats are ignored before any rule is evaluated.
func (c *ReactionClassifier) Classify(event ReactionEvent) Verdict {
	if !c.registry.IsMonitored(event.ChatID) {
		return VerdictIgnore
	}
	return ClassifyReaction(event)
}

// ClassifyReaction applies the reaction rules to an in-scope event.
// Rules are evaluated in order; the first match wins:
//
//  1. any 💩 → immediate delete
//  2. named 👎 → queue delete
//  3. anonymous 👎 at or above the threshold → immediate delete
//  4. otherwise ignore
func ClassifyReaction(event ReactionEvent) Verdict {
	if event.EmojiCounts[EmojiImmediate] >= 1 {
		return VerdictImmediateDelete
	}
	if !event.Anonymous && event.EmojiCounts[EmojiQueue] >= 1 {
		return VerdictQueueDelete
	}
	if event.Anonymous && event.EmojiCounts[EmojiQueue] >= anonymousThreshold {
		return VerdictImmediateDelete
	}
	return VerdictIgnore
}
