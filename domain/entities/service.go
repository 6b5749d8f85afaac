package entities

// ServiceDefinition describes one subgraph taking part in composition.
//
// The field tags define the shape the scripted module receives: the module
// destructures objects by these exact camelCase keys, so the tags are wire
// contract, not convention.
type ServiceDefinition struct {
	// TypeDefs holds the subgraph schema as GraphQL SDL text. It flows into
	// the module verbatim, including any syntax errors, which surface as
	// composition errors rather than host-side failures.
	TypeDefs string `json:"typeDefs"`

	// Name identifies the subgraph within the composed graph. Names are
	// echoed back inside routing annotations of the supergraph document.
	Name string `json:"name"`

	// URL is the routing endpoint recorded for the subgraph. It is carried
	// through composition untouched and uninterpreted.
	URL string `json:"url"`
}

// NewServiceDefinition constructs a ServiceDefinition in declaration order:
// name first, then routing URL, then schema text.
func NewServiceDefinition(name, url, typeDefs string) ServiceDefinition {
	return ServiceDefinition{
		TypeDefs: typeDefs,
		Name:     name,
		URL:      url,
	}
}

// ServiceList is an ordered collection of subgraph definitions. Order is
// significant: the module merges definitions in list order, so permuting a
// list with conflicting definitions can change which conflict is reported.
type ServiceList []ServiceDefinition
