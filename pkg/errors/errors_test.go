package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryErrorFormatting(t *testing.T) {
	t.Parallel()

	err := NewRegistryError("translator already registered", "nx_to_scipy", nil)
	require.Equal(t, "registry error [nx_to_scipy]: translator already registered", err.Error())

	bare := NewRegistryError("entry provider is nil", "", nil)
	require.Equal(t, "registry error: entry provider is nil", bare.Error())
}

func TestRegistryErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")
	err := NewRegistryError("reason", "entry", cause)
	require.ErrorIs(t, err, cause)
}

func TestAmbiguousTypeErrorListsClaimants(t *testing.T) {
	t.Parallel()

	err := NewAmbiguousTypeError([]string{"NetworkXGraph", "ScipyGraph"})
	require.Contains(t, err.Error(), "NetworkXGraph, ScipyGraph")
}

func TestNoTranslationPathNamesEndpoints(t *testing.T) {
	t.Parallel()

	err := NewNoTranslationPath("NetworkXGraph", "GrblasGraph")
	require.Equal(t, "no translation path from NetworkXGraph to GrblasGraph", err.Error())
}

func TestNoConcreteAlgorithmDiagnostic(t *testing.T) {
	t.Parallel()

	err := NewNoConcreteAlgorithm("centrality.pagerank", []CandidateRejection{
		{Candidate: "csr.pagerank", Parameter: "graph", Reason: "no translation path"},
		{Candidate: "nx.pagerank", Reason: "parameter shape mismatch"},
	})

	msg := err.Error()
	require.Contains(t, msg, "centrality.pagerank")
	require.Contains(t, msg, `csr.pagerank: parameter "graph": no translation path`)
	require.Contains(t, msg, "nx.pagerank: parameter shape mismatch")

	empty := NewNoConcreteAlgorithm("missing.op", nil)
	require.Contains(t, empty.Error(), "none registered")
}

func TestPropertyMismatchFormatting(t *testing.T) {
	t.Parallel()

	err := NewPropertyMismatch("is_directed", "false", "true")
	require.Equal(t, `property mismatch: is_directed requires "false", value has "true"`, err.Error())
}

func TestReturnTypeMismatchFormatting(t *testing.T) {
	t.Parallel()

	err := NewReturnTypeMismatch("csr.pagerank", "BuiltinNodeMap", "DenseVector")
	require.Contains(t, err.Error(), "declared BuiltinNodeMap, got DenseVector")
}

func TestExecutionErrorWrapsCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("backend exploded")
	err := NewExecutionError("centrality.pagerank|csr.pagerank", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "centrality.pagerank|csr.pagerank")

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestParseErrorIncludesLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("metagraph.yaml", 7, fmt.Errorf("bad indent"))
	require.Equal(t, "parse error: metagraph.yaml:7: bad indent", err.Error())

	noLine := NewParseError("metagraph.yaml", 0, fmt.Errorf("unreadable"))
	require.Equal(t, "parse error: metagraph.yaml: unreadable", noLine.Error())
}

func TestValidationErrorFormatting(t *testing.T) {
	t.Parallel()

	err := NewValidationError("settings.parallel", "failed validation for tag 'max'", nil)
	require.Contains(t, err.Error(), "settings.parallel")

	bare := NewValidationError("", "configuration is nil", nil)
	require.Equal(t, "validation error: configuration is nil", bare.Error())
}
