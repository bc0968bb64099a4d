package oaipmh

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethgrid/pester"
)

// Version of the library.
const Version = "0.2.0"

// UserAgent used for requests unless overridden per client.
var UserAgent = fmt.Sprintf("oaipmh/%s (https://github.com/harvestkit/oaipmh)", Version)

// HTTPRequestDoer lets us use pester, http.DefaultClient or other HTTP
// client implementations interchangeably. Timeouts, redirect handling
// and connection reuse are configured on the doer, not here.
type HTTPRequestDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to a single OAI-PMH endpoint. It is immutable after
// construction; independent traversals against the same client are
// fine as long as they do not interleave on a doer that is not safe
// for concurrent use.
type Client struct {
	endpoint    string
	doer        HTTPRequestDoer
	usePost     bool
	userAgent   string
	maxRequests int
	logger      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the default resilient HTTP client, e.g. with
// http.DefaultClient or a test double.
func WithDoer(doer HTTPRequestDoer) Option {
	return func(c *Client) { c.doer = doer }
}

// WithPost transmits parameters as a form encoded request body instead
// of a query string. Resolved once here, not per verb.
func WithPost() Option {
	return func(c *Client) { c.usePost = true }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger attaches a logger; requests are logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMaxRequests caps the number of HTTP requests per list traversal.
func WithMaxRequests(n int) Option {
	return func(c *Client) { c.maxRequests = n }
}

func defaultDoer() HTTPRequestDoer {
	c := pester.New()
	c.Timeout = 5 * time.Minute
	c.MaxRetries = 8
	c.Backoff = pester.ExponentialBackoff
	return c
}

// NewClient creates a client for the given base endpoint. Without
// options it uses a resilient HTTP client with exponential backoff and
// a no-op logger.
func NewClient(endpoint string, options ...Option) *Client {
	c := &Client{
		endpoint:    endpoint,
		userAgent:   UserAgent,
		maxRequests: DefaultMaxRequests,
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.doer == nil {
		c.doer = defaultDoer()
	}
	return c
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string { return c.endpoint }

// dispatch performs exactly one round trip: build the request,
// transmit, decode the envelope, check for an error element.
func (c *Client) dispatch(ctx context.Context, verb Verb, token string, params Values) (*envelope, error) {
	values := buildValues(verb, token, params)

	var req *http.Request
	var err error
	if c.usePost {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+values.Encode(), nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().Str("verb", string(verb)).Str("url", req.URL.String()).Msg("request")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	var env envelope
	if err := xml.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}
	if len(env.Errors) > 0 {
		// More than one error element is possible (3.6); at least the
		// first condition is surfaced.
		e := env.Errors[0]
		return nil, &Error{Code: Code(e.Code), Message: e.Message}
	}
	return &env, nil
}

// Identify returns the repository self-description.
func (c *Client) Identify(ctx context.Context) (*Identify, error) {
	env, err := c.dispatch(ctx, VerbIdentify, "", NewValues())
	if err != nil {
		return nil, err
	}
	if env.Identify == nil {
		return nil, &StructuralError{Verb: VerbIdentify, Missing: "Identify"}
	}
	return env.Identify.identify(), nil
}

// ListMetadataFormats lists the formats the repository can
// disseminate, restricted to a single item if identifier is nonempty.
// The protocol defines no resumption for this verb.
func (c *Client) ListMetadataFormats(ctx context.Context, identifier string) ([]MetadataFormat, error) {
	params := NewValues()
	params.AddIfExists("identifier", identifier)
	env, err := c.dispatch(ctx, VerbListMetadataFormats, "", params)
	if err != nil {
		return nil, err
	}
	if env.ListMetadataFormats == nil {
		return nil, &StructuralError{Verb: VerbListMetadataFormats, Missing: "ListMetadataFormats"}
	}
	formats := make([]MetadataFormat, 0, len(env.ListMetadataFormats.Formats))
	for _, n := range env.ListMetadataFormats.Formats {
		formats = append(formats, n.format())
	}
	return formats, nil
}

// GetRecord retrieves a single record in the given format.
func (c *Client) GetRecord(ctx context.Context, identifier, prefix string) (*Record, error) {
	params := NewValues()
	params.Add("identifier", identifier)
	params.Add("metadataPrefix", prefix)
	env, err := c.dispatch(ctx, VerbGetRecord, "", params)
	if err != nil {
		return nil, err
	}
	if env.GetRecord == nil || env.GetRecord.Record == nil {
		return nil, &StructuralError{Verb: VerbGetRecord, Missing: "record"}
	}
	rec := env.GetRecord.Record.record()
	return &rec, nil
}

// ListSets traverses the set hierarchy of the repository.
func (c *Client) ListSets(ctx context.Context) *Iterator[Set] {
	return newIterator(ctx, "", c.maxRequests, func(ctx context.Context, token string) ([]Set, *ResumptionToken, error) {
		env, err := c.dispatch(ctx, VerbListSets, token, NewValues())
		if err != nil {
			return nil, nil, err
		}
		if env.ListSets == nil {
			return nil, nil, &StructuralError{Verb: VerbListSets, Missing: "ListSets"}
		}
		sets := make([]Set, 0, len(env.ListSets.Sets))
		for _, n := range env.ListSets.Sets {
			sets = append(sets, n.set())
		}
		return sets, env.ListSets.Token.token(), nil
	})
}

// ListIdentifiers harvests headers only.
func (c *Client) ListIdentifiers(ctx context.Context, prefix string, sel Selection) *Iterator[Header] {
	params := sel.values(prefix)
	return newIterator(ctx, sel.ResumptionToken, c.maxRequests, func(ctx context.Context, token string) ([]Header, *ResumptionToken, error) {
		env, err := c.dispatch(ctx, VerbListIdentifiers, token, params)
		if err != nil {
			return nil, nil, err
		}
		if env.ListIdentifiers == nil {
			return nil, nil, &StructuralError{Verb: VerbListIdentifiers, Missing: "ListIdentifiers"}
		}
		headers := make([]Header, 0, len(env.ListIdentifiers.Headers))
		for _, n := range env.ListIdentifiers.Headers {
			headers = append(headers, n.header())
		}
		return headers, env.ListIdentifiers.Token.token(), nil
	})
}

// ListRecords harvests full records.
func (c *Client) ListRecords(ctx context.Context, prefix string, sel Selection) *Iterator[Record] {
	params := sel.values(prefix)
	return newIterator(ctx, sel.ResumptionToken, c.maxRequests, func(ctx context.Context, token string) ([]Record, *ResumptionToken, error) {
		env, err := c.dispatch(ctx, VerbListRecords, token, params)
		if err != nil {
			return nil, nil, err
		}
		if env.ListRecords == nil {
			return nil, nil, &StructuralError{Verb: VerbListRecords, Missing: "ListRecords"}
		}
		records := make([]Record, 0, len(env.ListRecords.Records))
		for _, n := range env.ListRecords.Records {
			records = append(records, n.record())
		}
		return records, env.ListRecords.Token.token(), nil
	})
}
