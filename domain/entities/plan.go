package entities

// OperationalContext carries everything the planner needs for one planning
// call: the composed schema to plan against, the operation document, and the
// name selecting which operation in the document to plan.
type OperationalContext struct {
	// Schema is the supergraph SDL produced by a prior composition.
	Schema string `json:"schema"`

	// Query is the operation document. Despite the name it may contain any
	// executable operation, including mutations and subscriptions.
	Query string `json:"query"`

	// Operation selects the operation to plan when the document defines
	// several. Empty selects the sole operation of a single-operation
	// document.
	Operation string `json:"operation"`
}

// QueryPlanOptions tunes plan generation.
type QueryPlanOptions struct {
	// AutoFragmentization enables extraction of repeated selection sets into
	// fragments inside generated fetch operations.
	AutoFragmentization bool `json:"autoFragmentization"`
}

// DefaultQueryPlanOptions returns the baseline planning options, with
// auto-fragmentization disabled.
func DefaultQueryPlanOptions() QueryPlanOptions {
	return QueryPlanOptions{AutoFragmentization: false}
}
