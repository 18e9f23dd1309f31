package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/productsummary/internal/summary"
)

const sampleFixture = `
cases:
  - id: 500A
    contact_id: 003A
  - id: 500B
products:
  003A:
    product_name: Metal
    monthly_cost: 16.9
    atm_fee: 1.7
    card_replacement_cost: 10
    country_code: DE
    is_default: true
  003Z:
    product_name: Standard
    monthly_cost: 0
    atm_fee: null
failing_cases: [500X]
failing_contacts: [003X]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleFixture))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("case with contact", func(t *testing.T) {
		c, err := s.FetchCase(ctx, "500A")
		require.NoError(t, err)
		require.NotNil(t, c.ContactID)
		assert.Equal(t, summary.ContactID("003A"), *c.ContactID)
	})

	t.Run("case without contact", func(t *testing.T) {
		c, err := s.FetchCase(ctx, "500B")
		require.NoError(t, err)
		assert.Nil(t, c.ContactID)
	})

	t.Run("unknown case", func(t *testing.T) {
		_, err := s.FetchCase(ctx, "nope")
		require.ErrorIs(t, err, summary.ErrCaseNotFound)
	})

	t.Run("failing case", func(t *testing.T) {
		_, err := s.FetchCase(ctx, "500X")
		require.ErrorIs(t, err, ErrSimulatedFailure)
	})

	t.Run("product", func(t *testing.T) {
		p, err := s.FetchProductSummary(ctx, "003A")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Metal", p.ProductName)
		assert.InDelta(t, 16.9, p.MonthlyCost, 1e-9)
		require.NotNil(t, p.ATMFee)
		assert.InDelta(t, 1.7, *p.ATMFee, 1e-9)
		assert.True(t, p.IsDefault)
	})

	t.Run("product with null fee", func(t *testing.T) {
		p, err := s.FetchProductSummary(ctx, "003Z")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Nil(t, p.ATMFee)
	})

	t.Run("no product", func(t *testing.T) {
		p, err := s.FetchProductSummary(ctx, "003B")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("failing contact", func(t *testing.T) {
		_, err := s.FetchProductSummary(ctx, "003X")
		require.ErrorIs(t, err, ErrSimulatedFailure)
	})

	t.Run("empty ids", func(t *testing.T) {
		_, err := s.FetchCase(ctx, "")
		require.ErrorIs(t, err, summary.ErrEmptyCaseID)
		_, err = s.FetchProductSummary(ctx, "")
		require.ErrorIs(t, err, summary.ErrEmptyContactID)
	})
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"invalid yaml":     "cases: [",
		"case without id":  "cases:\n  - contact_id: 003A\n",
		"duplicate case":   "cases:\n  - id: \"1\"\n  - id: \"1\"\n",
		"negative latency": "latency: -1s\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixture), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	_, err = s.FetchCase(context.Background(), "500A")
	require.NoError(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := New()
	fee := 2.0
	s.PutProduct("003A", summary.ProductSummary{ProductName: "Metal", ATMFee: &fee})

	p, err := s.FetchProductSummary(context.Background(), "003A")
	require.NoError(t, err)
	*p.ATMFee = 50
	p.ProductName = "changed"

	again, err := s.FetchProductSummary(context.Background(), "003A")
	require.NoError(t, err)
	assert.Equal(t, "Metal", again.ProductName)
	assert.InDelta(t, 2.0, *again.ATMFee, 1e-9)
}

func TestLatencyRespectsContext(t *testing.T) {
	s, err := FromFile(File{Latency: time.Minute, Cases: []summary.CaseRecord{{ID: "500A"}}})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = s.FetchCase(ctx, "500A")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMutators(t *testing.T) {
	s := New()
	id := summary.ContactID("003A")
	s.PutCase(summary.CaseRecord{ID: "500A", ContactID: &id})
	s.FailContact("003A")

	ctx := context.Background()
	c, err := s.FetchCase(ctx, "500A")
	require.NoError(t, err)
	assert.Equal(t, id, *c.ContactID)

	_, err = s.FetchProductSummary(ctx, id)
	require.ErrorIs(t, err, ErrSimulatedFailure)

	s.FailCase("500A")
	_, err = s.FetchCase(ctx, "500A")
	require.ErrorIs(t, err, ErrSimulatedFailure)
}

func TestLoadRepositorySample(t *testing.T) {
	s, err := Load(filepath.Join("..", "..", "..", "testdata", "fixtures.yaml"))
	require.NoError(t, err)

	ctx := context.Background()
	rec, err := s.FetchCase(ctx, "5004")
	require.NoError(t, err)
	assert.Nil(t, rec.ContactID)

	p, err := s.FetchProductSummary(ctx, "0033")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.ATMFee)
	assert.InDelta(t, 1234.5, *p.ATMFee, 0.001)

	_, err = s.FetchProductSummary(ctx, "0035")
	require.ErrorIs(t, err, ErrSimulatedFailure)
}
