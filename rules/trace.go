package rules

// Tracer observes named rules as they are matched.
type Tracer interface {
	Enter(rule *Named, offset int)
	// Exit is called with the offset reached and the failure, if any.
	Exit(rule *Named, offset int, err *RuleError)
}
