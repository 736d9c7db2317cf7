package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheetwright/sheetwright/internal/ai"
)

type stubOracle struct {
	text  string
	err   error
	calls int
	last  ai.CompletionRequest
}

func (s *stubOracle) Complete(_ context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &ai.CompletionResponse{Text: s.text, RequestID: "test"}, nil
}

func TestResolveDeterministicNoOracleCall(t *testing.T) {
	oracle := &stubOracle{text: `{"mapping":{}}`}
	n := NewNormalizer(oracle, nil)
	sch := Schema{"OrderID", "UnitPrice", "Qty"}

	res := n.Resolve(context.Background(), []string{"unitprice", "QTY", "OrderID"}, sch)

	require.Equal(t, []string{"UnitPrice", "Qty", "OrderID"}, Columns(res))
	for _, r := range res {
		require.True(t, r.Resolved)
	}
	require.Zero(t, oracle.calls, "fully deterministic input must not reach the oracle")
}

func TestResolveOracleFallback(t *testing.T) {
	oracle := &stubOracle{text: "```json\n{\"mapping\":{\"Quantity Sold\":\"Qty\",\"Nonsense\":null}}\n```"}
	n := NewNormalizer(oracle, nil)
	sch := Schema{"OrderID", "UnitPrice", "Qty"}

	res := n.Resolve(context.Background(), []string{"Quantity Sold", "orderid", "Nonsense"}, sch)

	require.Equal(t, []string{"Qty", "OrderID", "Nonsense"}, Columns(res))
	require.True(t, res[0].Resolved)
	require.True(t, res[1].Resolved)
	require.False(t, res[2].Resolved)
	require.Equal(t, 1, oracle.calls, "all unknowns batch into one request")
	require.True(t, oracle.last.JSONFormat)
}

func TestResolveMappingToNonMemberIgnored(t *testing.T) {
	// The oracle inventing a column that is not in the schema must not leak.
	oracle := &stubOracle{text: `{"mapping":{"Rev":"Revenue"}}`}
	n := NewNormalizer(oracle, nil)
	sch := Schema{"OrderID", "Qty"}

	res := n.Resolve(context.Background(), []string{"Rev"}, sch)
	require.Equal(t, []string{"Rev"}, Columns(res))
	require.False(t, res[0].Resolved)
}

func TestResolveTransportFailureFailsOpen(t *testing.T) {
	oracle := &stubOracle{err: errors.New("connection refused")}
	n := NewNormalizer(oracle, nil)
	sch := Schema{"OrderID", "Qty"}

	res := n.Resolve(context.Background(), []string{"orderid", "Amount", "Total"}, sch)
	require.Equal(t, []string{"OrderID", "Amount", "Total"}, Columns(res))
	require.True(t, res[0].Resolved)
	require.False(t, res[1].Resolved)
	require.False(t, res[2].Resolved)
}

func TestResolveMalformedOracleOutputFailsOpen(t *testing.T) {
	oracle := &stubOracle{text: "I could not find anything useful."}
	n := NewNormalizer(oracle, nil)
	sch := Schema{"OrderID"}

	res := n.Resolve(context.Background(), []string{"Amount"}, sch)
	require.Equal(t, []string{"Amount"}, Columns(res))
	require.False(t, res[0].Resolved)
}

func TestResolveNilOracle(t *testing.T) {
	n := NewNormalizer(nil, nil)
	sch := Schema{"OrderID"}
	res := n.Resolve(context.Background(), []string{"Amount"}, sch)
	require.Equal(t, []string{"Amount"}, Columns(res))
}

func TestResolveLengthAndOrderInvariant(t *testing.T) {
	oracle := &stubOracle{text: `{"mapping":{"b?":"B"}}`}
	n := NewNormalizer(oracle, nil)
	sch := Schema{"A", "B", "C"}

	in := []string{"c", "b?", "a", "A", "zzz"}
	res := n.Resolve(context.Background(), in, sch)
	require.Len(t, res, len(in))
	require.Equal(t, []string{"C", "B", "A", "A", "zzz"}, Columns(res))
	for i, r := range res {
		require.Equal(t, in[i], r.Input)
	}
}
