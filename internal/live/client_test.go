package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchComponentDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The endpoint requires browser-shaped headers and the product
		// code as a query parameter.
		assert.Equal(t, "C25804", r.URL.Query().Get("productCode"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "https://jlcpcb.com/", r.Header.Get("Referer"))

		_, _ = w.Write([]byte(`{
			"code": 200,
			"result": {
				"stockNumber": 423000,
				"productPriceList": [
					{"ladder": 1, "usdPrice": 0.0049},
					{"ladder": 100, "usdPrice": 0.0021}
				],
				"paramVOList": [
					{"paramNameEn": "Resistance", "paramValueEn": "10kΩ"}
				],
				"pdfUrl": "https://example.com/ds.pdf",
				"productImages": ["https://example.com/a.jpg"]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	detail, err := c.FetchComponentDetails(context.Background(), "C25804")
	require.NoError(t, err)

	require.NotNil(t, detail.StockNumber)
	assert.Equal(t, int64(423000), *detail.StockNumber)
	require.Len(t, detail.PriceList, 2)
	assert.InDelta(t, 0.0049, detail.PriceList[0].USDPrice, 1e-9)
	assert.Equal(t, int64(100), detail.PriceList[1].Ladder)
	require.Len(t, detail.Params, 1)
	assert.Equal(t, "Resistance", detail.Params[0].Name)
	assert.Equal(t, "https://example.com/ds.pdf", detail.PdfURL)
}

func TestFetchComponentDetails_MissingStockNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code": 200, "result": {"productPriceList": []}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	detail, err := c.FetchComponentDetails(context.Background(), "C1")
	require.NoError(t, err)
	assert.Nil(t, detail.StockNumber)
}

func TestFetchComponentDetails_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code": 500, "result": null}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchComponentDetails(context.Background(), "C1")
	assert.ErrorIs(t, err, ErrNoLiveData)
}

func TestFetchComponentDetails_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchComponentDetails(context.Background(), "C1")
	assert.ErrorIs(t, err, ErrNoLiveData)
}

func TestFetchComponentDetails_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchComponentDetails(context.Background(), "C1")
	assert.ErrorIs(t, err, ErrNoLiveData)
}
