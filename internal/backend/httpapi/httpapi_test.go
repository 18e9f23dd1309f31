package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/productsummary/internal/backend/fixture"
	"github.com/rshade/productsummary/internal/logging"
	"github.com/rshade/productsummary/internal/summary"
)

func newTestServer(t *testing.T) (*httptest.Server, *fixture.Store) {
	t.Helper()
	store := fixture.New()
	contact := summary.ContactID("003A")
	atm := 250.0
	store.PutCase(summary.CaseRecord{ID: "500A", ContactID: &contact})
	store.PutCase(summary.CaseRecord{ID: "500B"})
	store.PutProduct(contact, summary.ProductSummary{
		ProductName:         "Metal",
		MonthlyCost:         16.9,
		ATMFee:              &atm,
		CardReplacementCost: 10,
		CountryCode:         "DE",
	})
	store.FailContact("003X")

	srv := httptest.NewServer(NewRouter(NewHandler(store, store, zerolog.Nop())))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestClientAgainstServer(t *testing.T) {
	srv, _ := newTestServer(t)
	client := NewClient(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	t.Run("case with contact", func(t *testing.T) {
		c, err := client.FetchCase(ctx, "500A")
		require.NoError(t, err)
		assert.Equal(t, "500A", c.ID)
		require.NotNil(t, c.ContactID)
		assert.Equal(t, summary.ContactID("003A"), *c.ContactID)
	})

	t.Run("case without contact", func(t *testing.T) {
		c, err := client.FetchCase(ctx, "500B")
		require.NoError(t, err)
		assert.Nil(t, c.ContactID)
	})

	t.Run("unknown case", func(t *testing.T) {
		_, err := client.FetchCase(ctx, "nope")
		require.ErrorIs(t, err, summary.ErrCaseNotFound)
	})

	t.Run("product", func(t *testing.T) {
		p, err := client.FetchProductSummary(ctx, "003A")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Metal", p.ProductName)
		require.NotNil(t, p.ATMFee)
		assert.InDelta(t, 250.0, *p.ATMFee, 1e-9)
	})

	t.Run("no product", func(t *testing.T) {
		p, err := client.FetchProductSummary(ctx, "003B")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("backend failure", func(t *testing.T) {
		_, err := client.FetchProductSummary(ctx, "003X")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
		assert.Contains(t, err.Error(), "simulated backend failure")
	})

	t.Run("empty ids are rejected locally", func(t *testing.T) {
		_, err := client.FetchCase(ctx, "")
		require.ErrorIs(t, err, summary.ErrEmptyCaseID)
		_, err = client.FetchProductSummary(ctx, "")
		require.ErrorIs(t, err, summary.ErrEmptyContactID)
	})
}

func TestClientDecodesLooseFee(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantNil bool
		want    float64
	}{
		{"number", `{"productName":"X","atmFee":1.5}`, false, 1.5},
		{"numeric string", `{"productName":"X","atmFee":"200"}`, false, 200},
		{"null", `{"productName":"X","atmFee":null}`, true, 0},
		{"absent", `{"productName":"X"}`, true, 0},
		{"garbage", `{"productName":"X","atmFee":"n/a"}`, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, err := NewClient(srv.URL, time.Second).FetchProductSummary(context.Background(), "003A")
			require.NoError(t, err)
			require.NotNil(t, p)
			if tt.wantNil {
				assert.Nil(t, p.ATMFee)
				return
			}
			require.NotNil(t, p.ATMFee)
			assert.InDelta(t, tt.want, *p.ATMFee, 1e-9)
		})
	}
}

func TestClientNullBodyIsNoProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, time.Second).FetchProductSummary(context.Background(), "003A")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestClientPropagatesTraceID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(logging.TraceIDMetadataKey)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ctx := logging.ContextWithTraceID(context.Background(), "trace-xyz")
	_, err := NewClient(srv.URL, time.Second).FetchProductSummary(ctx, "003A")
	require.NoError(t, err)
	assert.Equal(t, "trace-xyz", got)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 20*time.Millisecond).FetchCase(context.Background(), "500A")
	require.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + healthPath)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("trace header echoed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+casesPath+"/500A", nil)
		require.NoError(t, err)
		req.Header.Set(logging.TraceIDMetadataKey, "abc")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "abc", resp.Header.Get(logging.TraceIDMetadataKey))
	})

	t.Run("no product is 204", func(t *testing.T) {
		resp, err := http.Get(srv.URL + contactsPath + "/003B" + summarySuffix)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("unknown case is 404 with error body", func(t *testing.T) {
		resp, err := http.Get(srv.URL + casesPath + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body errorBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.Error, "case not found")
	})
}

func TestWriteErrorStatus(t *testing.T) {
	h := NewHandler(nil, nil, zerolog.Nop())
	tests := []struct {
		err  error
		want int
	}{
		{summary.ErrCaseNotFound, http.StatusNotFound},
		{summary.ErrEmptyCaseID, http.StatusBadRequest},
		{summary.ErrEmptyContactID, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeError(context.Background(), rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
