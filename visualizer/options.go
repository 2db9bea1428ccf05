package visualizer

// Options configures the visualization output.
type Options struct {
	// ShowConditions appends condition labels (or a guard count) to edges
	ShowConditions bool

	// Direction controls diagram flow: "TB" (top-bottom) or "LR" (left-right)
	Direction string

	// HighlightPath highlights a specific state path through the diagram
	HighlightPath []string

	// Current marks the state an entity is in
	Current string

	// TitleLabels renders state labels in title case ("in_review" -> "In Review")
	TitleLabels bool

	// ExpandWildcards draws wildcard rules from every known state instead of
	// a single "any state" node
	ExpandWildcards bool
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		ShowConditions:  true,
		Direction:       "TB",
		ExpandWildcards: true,
	}
}

// WithShowConditions enables/disables transition conditions.
func (o Options) WithShowConditions(show bool) Options {
	o.ShowConditions = show

	return o
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}

// WithCurrent marks the current state.
func (o Options) WithCurrent(state string) Options {
	o.Current = state

	return o
}

// WithTitleLabels enables/disables title-cased state labels.
func (o Options) WithTitleLabels(title bool) Options {
	o.TitleLabels = title

	return o
}

// WithExpandWildcards enables/disables wildcard expansion.
func (o Options) WithExpandWildcards(expand bool) Options {
	o.ExpandWildcards = expand

	return o
}
