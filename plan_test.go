package federation

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dball/federation/domain/entities"
	domainerrors "github.com/dball/federation/domain/errors"
)

func composeFixture(t *testing.T, bridge *Bridge) string {
	t.Helper()
	sdl, err := bridge.Compose(context.Background(), fixtureServices())
	require.NoError(t, err)
	return sdl
}

type planNode struct {
	Kind           string          `json:"kind"`
	ServiceName    string          `json:"serviceName"`
	VariableUsages []string        `json:"variableUsages"`
	Operation      string          `json:"operation"`
	Path           []string        `json:"path"`
	Node           *planNode       `json:"node"`
	Nodes          []planNode      `json:"nodes"`
	Requires       json.RawMessage `json:"requires"`
}

func decodePlan(t *testing.T, data string) planNode {
	t.Helper()
	var plan struct {
		Kind string    `json:"kind"`
		Node *planNode `json:"node"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &plan))
	require.Equal(t, "QueryPlan", plan.Kind)
	require.NotNil(t, plan.Node)
	return *plan.Node
}

func TestPlan_SingleServiceQuery(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)

	data, err := bridge.Plan(context.Background(), entities.OperationalContext{
		Schema: schema,
		Query:  "{me {name}}",
	}, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)

	node := decodePlan(t, data)
	assert.Equal(t, "Fetch", node.Kind)
	assert.Equal(t, "users", node.ServiceName)
	assert.Equal(t, "{me{name}}", node.Operation)
	assert.Empty(t, node.VariableUsages)
}

func TestPlan_CrossServiceEntityFetch(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)

	data, err := bridge.Plan(context.Background(), entities.OperationalContext{
		Schema: schema,
		Query:  "{users {name favorites {title}}}",
	}, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)

	node := decodePlan(t, data)
	require.Equal(t, "Sequence", node.Kind)
	require.Len(t, node.Nodes, 2)

	root := node.Nodes[0]
	assert.Equal(t, "Fetch", root.Kind)
	assert.Equal(t, "users", root.ServiceName)
	// The entity fetch needs the parent representation.
	assert.Contains(t, root.Operation, "__typename")
	assert.Contains(t, root.Operation, "id")

	flatten := node.Nodes[1]
	require.Equal(t, "Flatten", flatten.Kind)
	assert.Equal(t, []string{"users", "@"}, flatten.Path)
	require.NotNil(t, flatten.Node)
	assert.Equal(t, "movies", flatten.Node.ServiceName)
	assert.Contains(t, flatten.Node.Operation, "_entities(representations:$representations)")
	assert.Contains(t, flatten.Node.Operation, "...on User{favorites{title}}")
	assert.Contains(t, string(flatten.Node.Requires), `"typeCondition":"User"`)
	assert.Contains(t, string(flatten.Node.Requires), `"__typename"`)
}

func TestPlan_ForwardsVariables(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)

	data, err := bridge.Plan(context.Background(), entities.OperationalContext{
		Schema: schema,
		Query:  "query Lookup($id: ID!) {user(id: $id) {name}}",
	}, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)

	node := decodePlan(t, data)
	assert.Equal(t, []string{"id"}, node.VariableUsages)
	assert.Equal(t, "query($id:ID!){user(id:$id){name}}", node.Operation)
}

func TestPlan_NamedOperationSelection(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)
	query := `
query Me {me {name}}
query Users {users {username}}
`

	data, err := bridge.Plan(context.Background(), entities.OperationalContext{
		Schema:    schema,
		Query:     query,
		Operation: "Users",
	}, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)

	node := decodePlan(t, data)
	assert.Equal(t, "{users{username}}", node.Operation)
}

func TestPlan_AutoFragmentization(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)
	opCtx := entities.OperationalContext{
		Schema: schema,
		Query:  "{me {... on User {name username}} users {... on User {name username}}}",
	}

	plain, err := bridge.Plan(context.Background(), opCtx, entities.QueryPlanOptions{AutoFragmentization: false})
	require.NoError(t, err)
	assert.NotContains(t, plain, "__QueryPlanFragment_0__")

	fragmented, err := bridge.Plan(context.Background(), opCtx, entities.QueryPlanOptions{AutoFragmentization: true})
	require.NoError(t, err)
	assert.Contains(t, fragmented, "__QueryPlanFragment_0__")
	assert.Contains(t, fragmented, "fragment __QueryPlanFragment_0__ on User{name username}")
}

func TestPlan_GarbageSchema(t *testing.T) {
	_, err := Plan(context.Background(), entities.OperationalContext{
		Schema: "Garbage",
		Query:  "{me {name}}",
	}, entities.DefaultQueryPlanOptions())

	var contentErrs entities.PlanningErrors
	require.ErrorAs(t, err, &contentErrs)
	expected := entities.PlanningErrors{
		{Message: strPtr(`Syntax Error: Unexpected Name "Garbage".`)},
	}
	assert.Equal(t, expected, contentErrs)
	assert.Equal(t, entities.UnknownErrorCode, contentErrs[0].Code())
}

func TestPlan_GarbageQuery(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)

	_, err := bridge.Plan(context.Background(), entities.OperationalContext{
		Schema: schema,
		Query:  "Garbage",
	}, entities.DefaultQueryPlanOptions())

	var contentErrs entities.PlanningErrors
	require.ErrorAs(t, err, &contentErrs)
	expected := entities.PlanningErrors{
		{Message: strPtr(`Syntax Error: Unexpected Name "Garbage".`)},
	}
	assert.Equal(t, expected, contentErrs)
}

func TestPlan_ValidationFailures(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)

	tests := []struct {
		name      string
		query     string
		operation string
		want      string
	}{
		{
			name:  "empty document",
			query: "",
			want:  "Must provide an operation.",
		},
		{
			name:  "multiple operations without a name",
			query: "query A {me {name}} query B {users {name}}",
			want:  "Must provide operation name if query contains multiple operations.",
		},
		{
			name:      "unknown operation name",
			query:     "query A {me {name}}",
			operation: "Missing",
			want:      `Unknown operation named "Missing".`,
		},
		{
			name:  "unknown field",
			query: "{nope}",
			want:  `Cannot query field "nope" on type "Query".`,
		},
		{
			name:  "unsupported operation type",
			query: "mutation {createUser}",
			want:  "Schema is not configured for mutations.",
		},
		{
			name:  "unknown fragment",
			query: "{me {...Details}}",
			want:  `Unknown fragment "Details".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bridge.Plan(context.Background(), entities.OperationalContext{
				Schema:    schema,
				Query:     tt.query,
				Operation: tt.operation,
			}, entities.DefaultQueryPlanOptions())

			var contentErrs entities.PlanningErrors
			require.ErrorAs(t, err, &contentErrs)
			require.Len(t, contentErrs, 1)
			assert.Equal(t, tt.want, *contentErrs[0].Message)
		})
	}
}

func TestPlan_RejectsUncomposedSchema(t *testing.T) {
	_, err := quietBridge().Plan(context.Background(), entities.OperationalContext{
		Schema: usersSDL,
		Query:  "{me {name}}",
	}, entities.DefaultQueryPlanOptions())

	var contentErrs entities.PlanningErrors
	require.ErrorAs(t, err, &contentErrs)
	require.Len(t, contentErrs, 1)
	assert.Contains(t, *contentErrs[0].Message, "not a composed supergraph")
}

func TestPlan_Deterministic(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)
	opCtx := entities.OperationalContext{
		Schema: schema,
		Query:  "{users {name favorites {title}}}",
	}

	first, err := bridge.Plan(context.Background(), opCtx, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)
	second, err := bridge.Plan(context.Background(), opCtx, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fresh, err := quietBridge().Plan(context.Background(), opCtx, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)
	assert.Equal(t, first, fresh)
}

func TestPlan_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietBridge().Plan(ctx, entities.OperationalContext{
		Schema: "type Query { ok: Boolean }",
		Query:  "{ok}",
	}, entities.DefaultQueryPlanOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var construction *domainerrors.ConstructionError
	assert.ErrorAs(t, err, &construction)
}

func TestPlan_ConcurrentWithCompose(t *testing.T) {
	bridge := quietBridge()
	ctx := context.Background()
	schema := composeFixture(t, bridge)

	wantPlan, err := bridge.Plan(ctx, entities.OperationalContext{
		Schema: schema,
		Query:  "{users {name favorites {title}}}",
	}, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	failures := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				sdl, err := bridge.Compose(ctx, fixtureServices())
				if err != nil || sdl != schema {
					failures <- "compose diverged"
				}
				return
			}
			plan, err := bridge.Plan(ctx, entities.OperationalContext{
				Schema: schema,
				Query:  "{users {name favorites {title}}}",
			}, entities.DefaultQueryPlanOptions())
			if err != nil || plan != wantPlan {
				failures <- "plan diverged"
			}
		}(i)
	}
	wg.Wait()
	close(failures)

	for failure := range failures {
		t.Error(failure)
	}
}

func TestPlan_TypenameOnlyQuery(t *testing.T) {
	bridge := quietBridge()
	schema := composeFixture(t, bridge)

	data, err := bridge.Plan(context.Background(), entities.OperationalContext{
		Schema: schema,
		Query:  "{__typename}",
	}, entities.DefaultQueryPlanOptions())
	require.NoError(t, err)

	var plan struct {
		Kind string          `json:"kind"`
		Node json.RawMessage `json:"node"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &plan))
	assert.Equal(t, "QueryPlan", plan.Kind)
	assert.Equal(t, "null", strings.TrimSpace(string(plan.Node)))
}
