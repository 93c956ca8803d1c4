package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateClientFetchRates(t *testing.T) {
	t.Run("decodes USD based rates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v6/latest/USD", r.URL.Path)
			_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","rates":{"USD":1,"NGN":1600.25,"EUR":0.92}}`))
		}))
		defer srv.Close()

		rates, err := NewRateClient(srv.URL + "/v6").FetchRates(context.Background())
		require.NoError(t, err)
		assert.Len(t, rates, 3)
		assert.Equal(t, 1600.25, rates["NGN"])
	})

	t.Run("error result is a rates source error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		}))
		defer srv.Close()

		_, err := NewRateClient(srv.URL).FetchRates(context.Background())
		assertSource(t, err, SourceRates)
	})

	t.Run("server error is a rates source error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewRateClient(srv.URL).FetchRates(context.Background())
		assertSource(t, err, SourceRates)
	})
}

func TestParseRatesResponse(t *testing.T) {
	_, err := parseRatesResponse(http.StatusOK, []byte(`{"result":"success","rates":{}}`))
	assertSource(t, err, SourceRates)

	_, err = parseRatesResponse(http.StatusOK, []byte(`not json`))
	assertSource(t, err, SourceRates)
}
