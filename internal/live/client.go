package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public product-detail endpoint.
	DefaultBaseURL = "https://wmsc.lcsc.com/ftps/wm/product/detail"

	// DefaultTimeout bounds a single detail lookup.
	DefaultTimeout = 10 * time.Second

	// The endpoint rejects requests without browser-shaped headers.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	referer   = "https://jlcpcb.com/"
)

// ErrNoLiveData reports that the endpoint had no usable detail for the
// part: transport failure, non-200 status, or an empty envelope. Callers
// degrade to catalog data.
var ErrNoLiveData = errors.New("no live data available")

// ProductDetail is the live snapshot of one part. StockNumber is a
// pointer so a missing field is distinguishable from zero stock.
type ProductDetail struct {
	StockNumber *int64       `json:"stockNumber"`
	PriceList   []PriceEntry `json:"productPriceList"`
	Params      []Param      `json:"paramVOList"`
	PdfURL      string       `json:"pdfUrl"`
	Images      []string     `json:"productImages"`
}

// PriceEntry is one live quantity break.
type PriceEntry struct {
	Ladder   int64   `json:"ladder"`
	USDPrice float64 `json:"usdPrice"`
}

// Param is one live parametric specification.
type Param struct {
	Name  string `json:"paramNameEn"`
	Value string `json:"paramValueEn"`
}

// envelope wraps every response; code 200 with a non-nil result is the
// only success shape.
type envelope struct {
	Code   int            `json:"code"`
	Result *ProductDetail `json:"result"`
}

// Client fetches live part details over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the detail endpoint, primarily for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout overrides the per-lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient builds a Client with default endpoint and timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchComponentDetails looks up one part by its C-prefixed identifier.
// A single attempt is made; any failure maps to ErrNoLiveData so callers
// have exactly one degradation path.
func (c *Client) FetchComponentDetails(ctx context.Context, lcsc string) (*ProductDetail, error) {
	u := fmt.Sprintf("%s?productCode=%s", c.baseURL, url.QueryEscape(lcsc))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoLiveData, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("live lookup failed", zap.String("lcsc", lcsc), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNoLiveData, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug("live lookup rejected",
			zap.String("lcsc", lcsc), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrNoLiveData, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoLiveData, err)
	}
	if env.Code != 200 || env.Result == nil {
		return nil, fmt.Errorf("%w: api code %d", ErrNoLiveData, env.Code)
	}

	return env.Result, nil
}
